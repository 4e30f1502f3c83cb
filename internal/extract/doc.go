// Package extract wraps the external map-extraction executable. The tool is
// opaque: it is handed an input file, an output directory, and fixed mode
// selectors, and everything else is inferred from its exit code and output
// streams. The package also owns the per-invocation log files.
package extract

// Package runner drives a batch export end to end: discover inputs, invoke
// the extraction tool once per file, skip work the ledger already records,
// and report what changed in the output tree.
package runner

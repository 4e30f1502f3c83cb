// Package logging builds the process-wide slog logger. The console handler
// emits compact key=value lines; the JSON handler is for machine ingestion.
// Per-invocation tool logs are a separate artifact owned by internal/extract.
package logging

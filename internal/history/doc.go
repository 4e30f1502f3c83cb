// Package history records batch runs and their invocations in a SQLite
// database under the log directory. It backs the history subcommand.
package history

// Package logs holds the Log Aggregator, the append-only record of
// completed and failed operations.
//
// Unlike the processing and working file ledgers, the aggregator is scoped
// to the process: it is never cleared when the project changes, so entries
// from a previous project stay visible until the process exits.
package logs

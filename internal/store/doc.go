// Package store provides SQLite-backed history of consistency checks.
//
// Each evaluated root is appended to the checks table with:
//   - seq: logical clock, assigned on insert, never a timestamp
//   - document: content hash of the document that was evaluated
//   - fingerprint: content hash of the report
//   - report: the report as JSON
//
// Recording the same report for the same document twice is a no-op, so
// re-running a check over an unchanged document does not grow history.
//
// All reads are ordered by seq ASC.
//
// # Schema versions
//
// The checks table is created on first Open. Later changes ship as
// numbered migrations recorded in PRAGMA user_version; Open applies the
// ones a database has not seen yet, so history written by an older zeta
// stays readable.
package store

// Package report turns an evaluated root Invariable into a stable,
// fingerprinted result that can be printed, compared against an
// expectation, and stored.
package report

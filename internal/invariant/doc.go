// Package invariant provides the evaluation core for declarative structural
// invariants.
//
// This package contains the Invariable capability, the AND/OR/NOT composite
// combinators and Discovery. It imports nothing internal; schema and delta
// build on it.
//
// Key design constraints:
//   - Evaluation is total: IsConsistent and Violations never fail and never
//     short-circuit. Every branch of every composite is walked.
//   - Violations are deduplicated by Handle identity, never by value.
//   - AND over no children is true, OR over no children is false.
//   - A satisfied OR still reports the violations of its failing children.
//   - Nothing is cached. Every query re-walks the tree.
//
// # Discovery
//
// Discover inspects one registered value against a closed set of shapes:
//
//	Invariable            returned as-is
//	[]any, List, Iterable each element, combined with AND
//	Set, *Set             each member, combined with AND
//	map[string]any, Map   every key and value, combined with AND
//	Entry                 key and value, combined with AND
//	anything else         absent
//
// Absent content contributes nothing; it is never turned into an empty AND.
package invariant

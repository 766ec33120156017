// Package schema provides Binding, the immutable aggregate that carries
// registered data and local violations and derives its consistency from
// the Invariables discovered in that data.
//
// A Binding is assembled by a Builder, normally from generated or compiled
// constructor code that registers every declared field in declaration order
// and every failed declared predicate as a violation. Build freezes it.
//
// # Modes
//
// Each Kind carries a Mode:
//
//   - Conjoined: every discovered sub-Invariable must hold (AND).
//   - Disjoint: at least one must hold (OR). Used for mutually exclusive
//     preconditioned alternatives, e.g. "already exists" vs "created".
//
// In both modes, local violations force the Binding inconsistent and are
// always reported first.
//
// # Checking
//
// IsConsistent and Violations are pure queries. CheckConsistency is the gate:
// it turns an inconsistent result into a *ConsistencyError whose message has
// one line per violation, "[labels] failed in <Name>".
package schema

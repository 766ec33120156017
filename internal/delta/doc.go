// Package delta provides before/after relations for specifying state
// transitions.
//
// A Delta pairs a before-state with an after-state of the same entity. It
// iterates as exactly [before, after], so a Delta registered as data inside
// a transition Binding pulls in the invariants of both endpoints.
//
// Xi is a Delta that is also an Invariable: it holds only when nothing
// observable changed, i.e. the registered data of both endpoints is deeply
// equal. UnchangedExcept is the weaker, accessor-based frame condition.
//
// Deep equality uses go-cmp with all unexported fields visible and
// invariant.Handle values ignored, so two separately built aggregates with
// identical content compare equal.
package delta

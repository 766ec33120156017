package delta

import (
	"iter"

	"github.com/roach88/zeta/internal/invariant"
)

// DataChangedLabel is the violation label reported by an unsatisfied Xi.
const DataChangedLabel = "Data changed"

// Snapshot is an entity whose full registered data can be compared.
type Snapshot interface {
	Data() []any
}

// Xi is a Delta asserting that nothing observable changed.
type Xi[T Snapshot] struct {
	Delta[T]
	handle invariant.Handle
}

var _ invariant.Invariable = (*Xi[Snapshot])(nil)

// NewXi returns the no-change relation between before and after.
func NewXi[T Snapshot](before, after T) *Xi[T] {
	return &Xi[T]{Delta: New(before, after), handle: invariant.NewHandle()}
}

// Handle implements invariant.Invariable.
func (x *Xi[T]) Handle() invariant.Handle { return x.handle }

// Name implements invariant.Named.
func (x *Xi[T]) Name() string { return "Xi" }

// IsConsistent reports whether the data snapshots of before and after are
// deeply equal.
func (x *Xi[T]) IsConsistent() bool {
	return DeepEqual(x.before.Data(), x.after.Data())
}

// Violations implements invariant.Invariable.
func (x *Xi[T]) Violations() iter.Seq[invariant.Violation] {
	return func(yield func(invariant.Violation) bool) {
		if x.IsConsistent() {
			return
		}
		yield(invariant.Violation{Owner: x, Labels: []string{DataChangedLabel}})
	}
}

// Diff describes what changed between the snapshots, or "" if nothing did.
func (x *Xi[T]) Diff() string {
	return Diff(x.before.Data(), x.after.Data())
}

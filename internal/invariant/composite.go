package invariant

import (
	"iter"
	"slices"
)

// Op selects how a Composite combines its children.
type Op int

const (
	// OpAnd holds when every child holds. No children: true.
	OpAnd Op = iota
	// OpOr holds when at least one child holds. No children: false.
	OpOr
	// OpNot holds when its single child does not.
	OpNot
)

// String returns the operator keyword.
func (o Op) String() string {
	switch o {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	default:
		return "UNKNOWN"
	}
}

// NegationLabel is the synthetic label reported when a NOT fails.
const NegationLabel = "failed inverse invariant"

// Composite combines child Invariables with AND, OR or NOT semantics.
// It is immutable after construction.
type Composite struct {
	handle   Handle
	op       Op
	children []Invariable
}

// And returns the conjunction of children.
func And(children ...Invariable) *Composite {
	return newComposite(OpAnd, children)
}

// Or returns the disjunction of children.
func Or(children ...Invariable) *Composite {
	return newComposite(OpOr, children)
}

// Not returns the negation of child. It panics if child is nil.
func Not(child Invariable) *Composite {
	if isNil(child) {
		panic("invariant: Not of nil Invariable")
	}
	return newComposite(OpNot, []Invariable{child})
}

func newComposite(op Op, children []Invariable) *Composite {
	return &Composite{
		handle:   NewHandle(),
		op:       op,
		children: slices.Clone(children),
	}
}

// Handle implements Invariable.
func (c *Composite) Handle() Handle { return c.handle }

// Name implements Named.
func (c *Composite) Name() string { return "CompositeInvariable" }

// Op returns the combination kind.
func (c *Composite) Op() Op { return c.op }

// Children returns a copy of the child Invariables.
func (c *Composite) Children() []Invariable { return slices.Clone(c.children) }

// IsConsistent implements Invariable.
func (c *Composite) IsConsistent() bool {
	switch c.op {
	case OpAnd:
		for _, child := range c.children {
			if !child.IsConsistent() {
				return false
			}
		}
		return true
	case OpOr:
		for _, child := range c.children {
			if child.IsConsistent() {
				return true
			}
		}
		return false
	case OpNot:
		return !c.children[0].IsConsistent()
	default:
		return false
	}
}

// Violations implements Invariable.
//
// For AND and OR every child is walked whatever the overall outcome, and
// entries are deduplicated by owner Handle in first-seen order. A NOT
// discards its child's detail and reports a single synthetic entry.
func (c *Composite) Violations() iter.Seq[Violation] {
	if c.op == OpNot {
		if c.IsConsistent() {
			return none
		}
		return single(c, NegationLabel)
	}
	return func(yield func(Violation) bool) {
		seen := make(map[Handle]struct{})
		for _, child := range c.children {
			for v := range child.Violations() {
				h := v.Owner.Handle()
				if _, dup := seen[h]; dup {
					continue
				}
				seen[h] = struct{}{}
				if !yield(v) {
					return
				}
			}
		}
	}
}

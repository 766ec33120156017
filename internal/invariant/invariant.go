package invariant

import (
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
)

// Handle is the opaque identity of an evaluated aggregate.
// Two Invariables are the same owner iff their Handles are equal,
// regardless of whether their contents are equal.
type Handle struct {
	id uuid.UUID
}

// NewHandle returns a fresh, never-before-issued Handle.
func NewHandle() Handle {
	return Handle{id: uuid.New()}
}

// IsZero reports whether h was never issued by NewHandle.
func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

// String returns the handle's UUID form.
func (h Handle) String() string {
	return h.id.String()
}

// Invariable is anything that can report whether it is internally
// consistent and enumerate every violation together with its owner.
//
// IsConsistent and Violations are side-effect free. IsConsistent being true
// does not imply Violations is empty: a satisfied disjunction still reports
// the failures of its sibling branches.
type Invariable interface {
	Handle() Handle
	IsConsistent() bool
	Violations() iter.Seq[Violation]
}

// Named is implemented by Invariables that carry a schema-level type name.
type Named interface {
	Name() string
}

// NameOf returns the simple type name used when reporting inv.
func NameOf(inv Invariable) string {
	if n, ok := inv.(Named); ok {
		return n.Name()
	}
	name := fmt.Sprintf("%T", inv)
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	// Generic instantiations render as Name[pkg.T]
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// Violation is one failure report: the labels that failed, attributed to
// the Invariable that owns them.
type Violation struct {
	Owner  Invariable
	Labels []string
}

// String renders the violation as "[label, ...] failed in <Owner>".
func (v Violation) String() string {
	return fmt.Sprintf("[%s] failed in %s", strings.Join(v.Labels, ", "), NameOf(v.Owner))
}

// Collect materializes a violation sequence.
func Collect(seq iter.Seq[Violation]) []Violation {
	var out []Violation
	for v := range seq {
		out = append(out, v)
	}
	return out
}

// single yields exactly one violation owned by owner.
func single(owner Invariable, labels ...string) iter.Seq[Violation] {
	return func(yield func(Violation) bool) {
		yield(Violation{Owner: owner, Labels: NewLabelSet(labels...).Labels()})
	}
}

// none yields nothing.
func none(yield func(Violation) bool) {}

package schema

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/roach88/zeta/internal/invariant"
)

// Aggregate is an Invariable that exposes its registered data snapshot.
// *Binding and any type embedding it satisfy Aggregate.
type Aggregate interface {
	invariant.Invariable
	Data() []any
}

// Builder accumulates data and violations for one Binding.
// A Builder is not safe for concurrent use.
type Builder struct {
	kind   Kind
	data   []any
	fields map[string]int
	local  *invariant.LabelSet
	built  bool
}

// NewBuilder starts a Binding of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{
		kind:   kind,
		fields: make(map[string]int),
		local:  invariant.NewLabelSet(),
	}
}

// RegisterDatum appends value to the data sequence.
func (b *Builder) RegisterDatum(value any) *Builder {
	b.mustBeOpen()
	b.data = append(b.data, value)
	return b
}

// RegisterField appends value and records it under name so Field can
// retrieve it. Registering the same name twice keeps the first position.
func (b *Builder) RegisterField(name string, value any) *Builder {
	b.mustBeOpen()
	if _, ok := b.fields[name]; !ok {
		b.fields[name] = len(b.data)
	}
	b.data = append(b.data, value)
	return b
}

// RegisterViolation records a failed local predicate.
func (b *Builder) RegisterViolation(label string) *Builder {
	b.mustBeOpen()
	b.local.Add(label)
	return b
}

// RegisterViolationIf records label when failed is true.
func (b *Builder) RegisterViolationIf(failed bool, label string) *Builder {
	if failed {
		b.RegisterViolation(label)
	}
	return b
}

// Build freezes the accumulated state into a Binding.
// The Builder cannot be used afterwards.
func (b *Builder) Build() *Binding {
	b.mustBeOpen()
	b.built = true
	return &Binding{
		handle: invariant.NewHandle(),
		kind:   b.kind,
		data:   b.data,
		fields: b.fields,
		local:  b.local.Labels(),
	}
}

func (b *Builder) mustBeOpen() {
	if b.built {
		panic("schema: Builder used after Build")
	}
}

// Binding is an immutable aggregate of registered data and local
// violations. It is itself an Invariable.
type Binding struct {
	handle invariant.Handle
	kind   Kind
	data   []any
	fields map[string]int
	local  []string
}

var _ Aggregate = (*Binding)(nil)

// Handle implements invariant.Invariable.
func (b *Binding) Handle() invariant.Handle { return b.handle }

// Name implements invariant.Named with the kind's name.
func (b *Binding) Name() string { return b.kind.Name }

// Kind returns the aggregate's kind.
func (b *Binding) Kind() Kind { return b.kind }

// Data returns the registered values in insertion order.
func (b *Binding) Data() []any {
	return slices.Clone(b.data)
}

// Field returns the value registered under name.
func (b *Binding) Field(name string) (any, bool) {
	i, ok := b.fields[name]
	if !ok {
		return nil, false
	}
	return b.data[i], true
}

// LocalViolations returns the labels registered directly on this Binding.
func (b *Binding) LocalViolations() []string {
	return slices.Clone(b.local)
}

// Composite derives the composition of every Invariable discovered in the
// data, using AND or OR according to the kind's mode. It is recomputed on
// every call.
func (b *Binding) Composite() *invariant.Composite {
	var found []invariant.Invariable
	for _, v := range b.data {
		if inv, ok := invariant.Discover(v); ok {
			found = append(found, inv)
		}
	}
	if b.kind.Mode == Disjoint {
		return invariant.Or(found...)
	}
	return invariant.And(found...)
}

// IsConsistent implements invariant.Invariable.
func (b *Binding) IsConsistent() bool {
	return len(b.local) == 0 && b.Composite().IsConsistent()
}

// Violations implements invariant.Invariable. Local violations come first,
// attributed to b; nested violations follow in data order.
func (b *Binding) Violations() iter.Seq[invariant.Violation] {
	return func(yield func(invariant.Violation) bool) {
		if len(b.local) > 0 {
			if !yield(invariant.Violation{Owner: b, Labels: slices.Clone(b.local)}) {
				return
			}
		}
		for v := range b.Composite().Violations() {
			if !yield(v) {
				return
			}
		}
	}
}

// CheckConsistency returns a *ConsistencyError listing every violation
// when b is inconsistent, and nil otherwise.
func (b *Binding) CheckConsistency() error {
	return Check(b)
}

// Check is CheckConsistency for any Invariable.
func Check(inv invariant.Invariable) error {
	if inv.IsConsistent() {
		return nil
	}
	violations := invariant.Collect(inv.Violations())
	slog.Debug("consistency check failed",
		"owner", invariant.NameOf(inv),
		"violations", len(violations),
	)
	return &ConsistencyError{Owner: inv, Violations: violations}
}

// MustCheck panics with the *ConsistencyError when inv is inconsistent.
// Use only in tests or around operations whose failure is a programming error.
func MustCheck(inv invariant.Invariable) {
	if err := Check(inv); err != nil {
		panic(err)
	}
}

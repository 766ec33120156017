package schema

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/zeta/internal/invariant"
)

func conjoined(name string) Kind { return NewKind(name, Conjoined) }

func TestBinding_EmptyIsConsistent(t *testing.T) {
	b := NewBuilder(conjoined("Empty")).Build()

	assert.True(t, b.IsConsistent())
	assert.Empty(t, invariant.Collect(b.Violations()))
	assert.NoError(t, b.CheckConsistency())
}

func TestBinding_LocalViolationFirst(t *testing.T) {
	child := NewBuilder(conjoined("Child")).RegisterViolation("childRule").Build()
	b := NewBuilder(conjoined("Parent")).
		RegisterDatum(child).
		RegisterViolation("x").
		RegisterViolation("y").
		Build()

	assert.False(t, b.IsConsistent())
	vs := invariant.Collect(b.Violations())
	require.Len(t, vs, 2)
	assert.Same(t, b, vs[0].Owner)
	assert.Equal(t, []string{"x", "y"}, vs[0].Labels)
	assert.Same(t, child, vs[1].Owner)
}

func TestBinding_LocalViolationForcesInconsistentInDisjointMode(t *testing.T) {
	ok := NewBuilder(conjoined("Ok")).Build()
	b := NewBuilder(NewKind("Alt", Disjoint)).
		RegisterDatum(ok).
		RegisterViolation("x").
		Build()

	assert.False(t, b.IsConsistent())
}

func TestBinding_DuplicateLocalViolationsCollapse(t *testing.T) {
	b := NewBuilder(conjoined("B")).RegisterViolation("x").RegisterViolation("x").Build()

	assert.Equal(t, []string{"x"}, b.LocalViolations())
}

func TestBinding_ConjoinedComposesWithAnd(t *testing.T) {
	good := NewBuilder(conjoined("Good")).Build()
	bad := NewBuilder(conjoined("Bad")).RegisterViolation("broken").Build()

	assert.True(t, NewBuilder(conjoined("P")).RegisterDatum(good).Build().IsConsistent())
	assert.False(t, NewBuilder(conjoined("P")).RegisterDatum(good).RegisterDatum(bad).Build().IsConsistent())
}

func TestBinding_DisjointEndToEnd(t *testing.T) {
	s1 := NewBuilder(conjoined("AlreadyExists")).RegisterViolation("alreadyExists").Build()
	s2 := NewBuilder(conjoined("Created")).Build()
	b := NewBuilder(NewKind("AddUser", Disjoint)).
		RegisterDatum(s1).
		RegisterDatum(s2).
		Build()

	assert.True(t, b.IsConsistent())
	vs := invariant.Collect(b.Violations())
	require.Len(t, vs, 1)
	assert.Same(t, s1, vs[0].Owner)
	assert.Equal(t, []string{"alreadyExists"}, vs[0].Labels)
	assert.NoError(t, b.CheckConsistency())
}

func TestBinding_DisjointWithoutAlternativesIsInconsistent(t *testing.T) {
	b := NewBuilder(NewKind("Nothing", Disjoint)).RegisterDatum(42).Build()

	assert.False(t, b.IsConsistent())
	assert.Empty(t, invariant.Collect(b.Violations()))

	err := b.CheckConsistency()
	require.Error(t, err)
	assert.Equal(t, "Nothing is inconsistent", err.Error())
}

func TestBinding_SharedSubAggregateReportedOnce(t *testing.T) {
	shared := NewBuilder(conjoined("Shared")).RegisterViolation("x").Build()
	left := NewBuilder(conjoined("Left")).RegisterDatum(shared).Build()
	right := NewBuilder(conjoined("Right")).RegisterDatum(shared).Build()
	root := NewBuilder(conjoined("Root")).
		RegisterDatum(left).
		RegisterDatum(invariant.List{right, shared}).
		Build()

	vs := invariant.Collect(root.Violations())
	require.Len(t, vs, 1)
	assert.Same(t, shared, vs[0].Owner)
}

func TestBinding_NestedInContainers(t *testing.T) {
	bad := NewBuilder(conjoined("Seat")).RegisterViolation("taken").Build()
	b := NewBuilder(conjoined("Flight")).
		RegisterField("number", "ZT100").
		RegisterField("seats", invariant.MapOf("1A", bad)).
		Build()

	assert.False(t, b.IsConsistent())
	seats, ok := b.Field("seats")
	require.True(t, ok)
	assert.IsType(t, invariant.Map{}, seats)

	_, ok = b.Field("crew")
	assert.False(t, ok)
}

func TestBinding_NilSubAggregateIsAbsent(t *testing.T) {
	var missing *Binding
	parent := NewBuilder(NewKind("Parent", Conjoined, "child")).
		RegisterField("child", missing).
		Build()

	assert.True(t, parent.IsConsistent())
	assert.Empty(t, invariant.Collect(parent.Violations()))
	assert.Empty(t, parent.Composite().Children())

	choice := NewBuilder(NewKind("Choice", Disjoint, "primary", "fallback")).
		RegisterField("primary", missing).
		RegisterField("fallback", NewBuilder(conjoined("Fallback")).Build()).
		Build()
	assert.True(t, choice.IsConsistent())
	assert.Len(t, choice.Composite().Children(), 1)
}

func TestBinding_RegisterFieldKeepsFirstPosition(t *testing.T) {
	b := NewBuilder(conjoined("B")).RegisterField("x", 1).RegisterField("x", 2).Build()

	v, _ := b.Field("x")
	assert.Equal(t, 1, v)
	assert.Equal(t, []any{1, 2}, b.Data())
}

func TestBinding_DataIsACopy(t *testing.T) {
	b := NewBuilder(conjoined("B")).RegisterDatum(1).Build()

	data := b.Data()
	data[0] = 99
	assert.Equal(t, []any{1}, b.Data())
}

func TestBinding_ConditionalViolation(t *testing.T) {
	b := NewBuilder(conjoined("B")).
		RegisterViolationIf(false, "skipped").
		RegisterViolationIf(true, "kept").
		Build()

	assert.Equal(t, []string{"kept"}, b.LocalViolations())
}

func TestBuilder_UseAfterBuildPanics(t *testing.T) {
	builder := NewBuilder(conjoined("B"))
	builder.Build()

	assert.Panics(t, func() { builder.RegisterDatum(1) })
	assert.Panics(t, func() { builder.Build() })
}

func TestBinding_RepeatedEvaluationIsStable(t *testing.T) {
	bad := NewBuilder(conjoined("Bad")).RegisterViolation("x").Build()
	b := NewBuilder(NewKind("Alt", Disjoint)).RegisterDatum(bad).RegisterDatum(invariant.List{bad}).Build()

	first := invariant.Collect(b.Violations())
	for range 5 {
		assert.Equal(t, first, invariant.Collect(b.Violations()))
		assert.False(t, b.IsConsistent())
	}
}

func TestBinding_ConcurrentEvaluation(t *testing.T) {
	bad := NewBuilder(conjoined("Bad")).RegisterViolation("x").Build()
	b := NewBuilder(conjoined("Root")).RegisterDatum(bad).Build()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.False(t, b.IsConsistent())
			assert.Len(t, invariant.Collect(b.Violations()), 1)
		}()
	}
	wg.Wait()
}

func TestCheckConsistency_Message(t *testing.T) {
	seat := NewBuilder(conjoined("Seat")).RegisterViolation("taken").Build()
	flight := NewBuilder(conjoined("Flight")).
		RegisterDatum(seat).
		RegisterViolation("overbooked").
		RegisterViolation("noCrew").
		Build()

	err := flight.CheckConsistency()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInconsistent))

	var cErr *ConsistencyError
	require.True(t, errors.As(err, &cErr))
	assert.Len(t, cErr.Violations, 2)
	assert.Equal(t,
		"[overbooked, noCrew] failed in Flight\n[taken] failed in Seat",
		err.Error())
}

func TestMustCheck(t *testing.T) {
	assert.NotPanics(t, func() { MustCheck(NewBuilder(conjoined("Ok")).Build()) })
	assert.Panics(t, func() { MustCheck(NewBuilder(conjoined("Bad")).RegisterViolation("x").Build()) })
}

func TestCheck_AnyInvariable(t *testing.T) {
	good := NewBuilder(conjoined("Good")).Build()

	err := Check(invariant.Not(good))
	require.Error(t, err)
	assert.Equal(t, "[failed inverse invariant] failed in CompositeInvariable", err.Error())
}

package invariant

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandle_Unique(t *testing.T) {
	a := NewHandle()
	b := NewHandle()

	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
	assert.True(t, Handle{}.IsZero())
}

func TestNameOf_UsesNamed(t *testing.T) {
	assert.Equal(t, "Flight", NameOf(bad("Flight", "x")))
	assert.Equal(t, "CompositeInvariable", NameOf(And()))
}

func TestNameOf_FallsBackToSimpleTypeName(t *testing.T) {
	assert.Equal(t, "unnamed", NameOf(&unnamed{handle: NewHandle()}))
}

type unnamed struct{ handle Handle }

func (u *unnamed) Handle() Handle                 { return u.handle }
func (u *unnamed) IsConsistent() bool             { return true }
func (u *unnamed) Violations() iter.Seq[Violation] { return none }

func TestViolationString(t *testing.T) {
	v := Violation{Owner: bad("Booking"), Labels: []string{"alreadyExists", "noSeat"}}

	assert.Equal(t, "[alreadyExists, noSeat] failed in Booking", v.String())
}

func TestCollect_Restartable(t *testing.T) {
	b := bad("S", "x")

	first := Collect(b.Violations())
	second := Collect(b.Violations())

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
}

func TestLabelSet_InsertionOrderAndDedup(t *testing.T) {
	s := NewLabelSet("b", "a", "b")
	assert.Equal(t, []string{"b", "a"}, s.Labels())
	assert.Equal(t, 2, s.Len())

	assert.False(t, s.Add("a"))
	assert.True(t, s.Add("c"))
	assert.Equal(t, []string{"b", "a", "c"}, s.Labels())
}

func TestLabelSet_NFCNormalization(t *testing.T) {
	// "é" precomposed vs "e" + combining acute accent
	s := NewLabelSet("caf\u00e9", "cafe\u0301")

	assert.Equal(t, []string{"caf\u00e9"}, s.Labels())
}

func TestLabelSet_ZeroValueUsable(t *testing.T) {
	var s LabelSet
	assert.True(t, s.Add("x"))
	assert.Equal(t, []string{"x"}, s.Labels())
}

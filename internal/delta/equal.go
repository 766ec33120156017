package delta

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/zeta/internal/invariant"
)

var equalOptions = cmp.Options{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.IgnoreTypes(invariant.Handle{}),
	cmpopts.EquateEmpty(),
	cmpopts.EquateNaNs(),
}

// DeepEqual reports whether a and b are structurally equal. Handles are
// ignored so identity never influences value comparison. NaN equals NaN,
// so every value is equal to itself.
func DeepEqual(a, b any) bool {
	return cmp.Equal(a, b, equalOptions)
}

// Diff returns a human-readable structural diff of a and b, or "" when
// they are equal.
func Diff(a, b any) string {
	return cmp.Diff(a, b, equalOptions)
}

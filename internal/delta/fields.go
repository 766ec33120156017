package delta

import (
	"github.com/roach88/zeta/internal/schema"
)

// Fielded is an aggregate whose data can be read by field name.
// *schema.Binding is Fielded.
type Fielded interface {
	Field(name string) (any, bool)
}

// FieldAccessors returns one accessor per declared field of kind, in
// declaration order. A missing field reads as nil.
func FieldAccessors[T Fielded](kind schema.Kind) []Accessor[T] {
	accessors := make([]Accessor[T], 0, len(kind.Fields))
	for _, name := range kind.Fields {
		accessors = append(accessors, Accessor[T]{
			Name: name,
			Get: func(v T) any {
				value, _ := v.Field(name)
				return value
			},
		})
	}
	return accessors
}

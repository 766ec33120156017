package invariant

import (
	"iter"
	"slices"
)

// List is an ordered sequence of registered values.
type List []any

// Iterable is implemented by values that present themselves as an ordered
// sequence of elements, such as a before/after pair.
type Iterable interface {
	Elements() iter.Seq[any]
}

// Entry is a single key/value pair.
type Entry struct {
	Key   any
	Value any
}

// Map is a mapping with a fixed entry order. Keys are not required to be
// comparable; uniqueness is the builder's concern.
type Map []Entry

// MapOf builds a Map from alternating key, value arguments.
// It panics if given an odd number of arguments.
func MapOf(kv ...any) Map {
	if len(kv)%2 != 0 {
		panic("invariant.MapOf: odd number of arguments")
	}
	m := make(Map, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		m = append(m, Entry{Key: kv[i], Value: kv[i+1]})
	}
	return m
}

// Set is an insertion-ordered collection of distinct members.
// Members that are comparable are deduplicated by ==; others are kept.
type Set struct {
	members []any
}

// SetOf returns a Set of members in first-seen order.
func SetOf(members ...any) Set {
	var s Set
	for _, m := range members {
		s = s.With(m)
	}
	return s
}

// With returns a copy of s that also contains m.
func (s Set) With(m any) Set {
	if s.Contains(m) {
		return s
	}
	return Set{members: append(slices.Clip(s.members), m)}
}

// Contains reports whether an equal member is present. Invariables are
// equal when their Handles are; scalars compare with ==.
func (s Set) Contains(m any) bool {
	for _, existing := range s.members {
		if sameMember(existing, m) {
			return true
		}
	}
	return false
}

// Members returns a copy of the members in insertion order.
func (s Set) Members() []any {
	return slices.Clone(s.members)
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.members)
}

func sameMember(a, b any) bool {
	if ia, ok := a.(Invariable); ok {
		ib, ok := b.(Invariable)
		return ok && ia.Handle() == ib.Handle()
	}
	switch a.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return a == b
	default:
		return false
	}
}

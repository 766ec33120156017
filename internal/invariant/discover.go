package invariant

import (
	"iter"
	"maps"
	"reflect"
	"slices"
)

// Discover reports the invariant-bearing content of one registered value.
//
// The second result is false when v neither is nor contains an Invariable.
// Nested content found in a container is combined with AND, in the
// container's iteration order. map[string]any is walked in sorted key order.
func Discover(v any) (Invariable, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case Invariable:
		if isNil(val) {
			return nil, false
		}
		return val, true
	case []Invariable:
		present := slices.DeleteFunc(slices.Clone(val), isNil)
		if len(present) == 0 {
			return nil, false
		}
		return And(present...), true
	case []any:
		return discoverAll(slices.Values(val))
	case List:
		return discoverAll(slices.Values(val))
	case Set:
		return discoverAll(slices.Values(val.members))
	case *Set:
		if val == nil {
			return nil, false
		}
		return discoverAll(slices.Values(val.members))
	case Map:
		return discoverAll(entryParts(val))
	case map[string]any:
		return discoverAll(sortedEntryParts(val))
	case Entry:
		return discoverAll(slices.Values([]any{val.Key, val.Value}))
	case Iterable:
		return discoverAll(val.Elements())
	default:
		return nil, false
	}
}

// discoverAll combines whatever Discover finds in values with AND.
func discoverAll(values iter.Seq[any]) (Invariable, bool) {
	var found []Invariable
	for v := range values {
		if isPrimitive(v) {
			continue
		}
		if inv, ok := Discover(v); ok {
			found = append(found, inv)
		}
	}
	if len(found) == 0 {
		return nil, false
	}
	return And(found...), true
}

func entryParts(m Map) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, e := range m {
			if !yield(e.Key) || !yield(e.Value) {
				return
			}
		}
	}
}

func sortedEntryParts(m map[string]any) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(m[k]) {
				return
			}
		}
	}
}

// isNil reports whether inv is nil or a nil pointer behind the interface.
func isNil(inv Invariable) bool {
	if inv == nil {
		return true
	}
	rv := reflect.ValueOf(inv)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// isPrimitive reports whether v is a scalar that can never hold an Invariable.
func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

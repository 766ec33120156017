package delta

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Delta is a before/after pair of the same entity type.
type Delta[T any] struct {
	before T
	after  T
}

// New returns the transition from before to after.
func New[T any](before, after T) Delta[T] {
	return Delta[T]{before: before, after: after}
}

// Before returns the pre-state.
func (d Delta[T]) Before() T { return d.before }

// After returns the post-state.
func (d Delta[T]) After() T { return d.after }

// Elements yields before, then after.
func (d Delta[T]) Elements() iter.Seq[any] {
	return func(yield func(any) bool) {
		if !yield(d.before) {
			return
		}
		yield(d.after)
	}
}

// Accessor names one observable property of T.
type Accessor[T any] struct {
	Name string
	Get  func(T) any
}

// UnchangedExcept reports whether every accessor in all whose name is not
// in excluded yields deeply equal values on before and after.
//
// all is the caller's complete enumeration of T's observable accessors.
func (d Delta[T]) UnchangedExcept(all []Accessor[T], excluded ...string) bool {
	for _, a := range all {
		if slices.Contains(excluded, a.Name) {
			continue
		}
		if !DeepEqual(a.Get(d.before), a.Get(d.after)) {
			return false
		}
	}
	return true
}

// Changed returns the names of accessors whose values differ, in the order
// of all.
func (d Delta[T]) Changed(all []Accessor[T]) []string {
	var changed []string
	for _, a := range all {
		if !DeepEqual(a.Get(d.before), a.Get(d.after)) {
			changed = append(changed, a.Name)
		}
	}
	return changed
}

// ErrIdentityKeyCollision is matched by *IdentityKeyCollisionError via errors.Is.
var ErrIdentityKeyCollision = errors.New("identity key is not injective")

// IdentityKeyCollisionError reports two distinct elements of one input
// collection sharing an identity key.
type IdentityKeyCollisionError struct {
	Side string // "before" or "after"
	Key  any
}

func (e *IdentityKeyCollisionError) Error() string {
	return fmt.Sprintf("identity key %v appears more than once in %s collection", e.Key, e.Side)
}

// Is reports whether target is ErrIdentityKeyCollision.
func (e *IdentityKeyCollisionError) Is(target error) bool {
	return target == ErrIdentityKeyCollision
}

// Deltas pairs elements of befores and afters that share an identity key.
// Keys present on one side only are additions or removals and are skipped.
// The result follows the order of befores.
//
// Returns *IdentityKeyCollisionError if key maps two elements of the same
// collection to one key.
func Deltas[T any, K comparable](befores, afters []T, key func(T) K) ([]Delta[T], error) {
	afterByKey, err := index(afters, key, "after")
	if err != nil {
		return nil, err
	}
	if _, err := index(befores, key, "before"); err != nil {
		return nil, err
	}

	out := make([]Delta[T], 0, min(len(befores), len(afters)))
	for _, b := range befores {
		if a, ok := afterByKey[key(b)]; ok {
			out = append(out, New(b, a))
		}
	}
	return out, nil
}

func index[T any, K comparable](items []T, key func(T) K, side string) (map[K]T, error) {
	m := make(map[K]T, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := m[k]; dup {
			return nil, &IdentityKeyCollisionError{Side: side, Key: k}
		}
		m[k] = item
	}
	return m, nil
}

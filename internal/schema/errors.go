package schema

import (
	"errors"
	"strings"

	"github.com/roach88/zeta/internal/invariant"
)

// ErrInconsistent is matched by every *ConsistencyError via errors.Is.
var ErrInconsistent = errors.New("aggregate is inconsistent")

// ConsistencyError is returned by CheckConsistency when a Binding does not
// satisfy its declared rules.
type ConsistencyError struct {
	Owner      invariant.Invariable
	Violations []invariant.Violation
}

// Error returns one line per violation, "[labels] failed in <Name>".
func (e *ConsistencyError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	if len(lines) == 0 {
		return invariant.NameOf(e.Owner) + " is inconsistent"
	}
	return strings.Join(lines, "\n")
}

// Is reports whether target is ErrInconsistent.
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrInconsistent
}

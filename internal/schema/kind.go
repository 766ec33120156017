package schema

import (
	"fmt"
	"slices"
)

// Mode selects how a Binding composes its discovered sub-Invariables.
type Mode int

const (
	// Conjoined composes with AND.
	Conjoined Mode = iota
	// Disjoint composes with OR.
	Disjoint
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case Conjoined:
		return "conjoined"
	case Disjoint:
		return "disjoint"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name. The empty string is Conjoined.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "conjoined":
		return Conjoined, nil
	case "disjoint":
		return Disjoint, nil
	default:
		return 0, fmt.Errorf("invalid mode %q: must be conjoined or disjoint", s)
	}
}

// Kind describes one aggregate type: its name, its composition mode, and
// the names of its declared fields in declaration order.
type Kind struct {
	Name   string
	Mode   Mode
	Fields []string
}

// NewKind returns a Kind with the given fields.
func NewKind(name string, mode Mode, fields ...string) Kind {
	return Kind{Name: name, Mode: mode, Fields: slices.Clone(fields)}
}

// HasField reports whether name is a declared field.
func (k Kind) HasField(name string) bool {
	return slices.Contains(k.Fields, name)
}

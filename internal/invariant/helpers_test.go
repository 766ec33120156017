package invariant

import (
	"iter"
)

// leaf is a fixed-outcome Invariable for exercising combinators.
type leaf struct {
	handle Handle
	name   string
	labels []string
}

func good(name string) *leaf {
	return &leaf{handle: NewHandle(), name: name}
}

func bad(name string, labels ...string) *leaf {
	return &leaf{handle: NewHandle(), name: name, labels: labels}
}

func (l *leaf) Handle() Handle     { return l.handle }
func (l *leaf) Name() string       { return l.name }
func (l *leaf) IsConsistent() bool { return len(l.labels) == 0 }

func (l *leaf) Violations() iter.Seq[Violation] {
	if l.IsConsistent() {
		return none
	}
	return single(l, l.labels...)
}

// owners returns the owner names of vs in order.
func owners(vs []Violation) []string {
	names := make([]string, 0, len(vs))
	for _, v := range vs {
		names = append(names, NameOf(v.Owner))
	}
	return names
}

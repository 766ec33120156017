package invariant

import (
	"slices"

	"golang.org/x/text/unicode/norm"
)

// LabelSet is an insertion-ordered set of violation labels.
// Labels are NFC normalized so visually identical labels collapse.
type LabelSet struct {
	labels []string
	seen   map[string]struct{}
}

// NewLabelSet returns a set holding labels in first-seen order.
func NewLabelSet(labels ...string) *LabelSet {
	s := &LabelSet{seen: make(map[string]struct{}, len(labels))}
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

// Add inserts label unless an equal label is already present.
// Reports whether the set changed.
func (s *LabelSet) Add(label string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	label = norm.NFC.String(label)
	if _, ok := s.seen[label]; ok {
		return false
	}
	s.seen[label] = struct{}{}
	s.labels = append(s.labels, label)
	return true
}

// Len returns the number of labels.
func (s *LabelSet) Len() int {
	return len(s.labels)
}

// Labels returns a copy of the labels in insertion order.
func (s *LabelSet) Labels() []string {
	return slices.Clone(s.labels)
}

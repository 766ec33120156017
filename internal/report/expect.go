package report

import (
	"fmt"
	"slices"
)

// Mismatch is one way a report differs from what a check expected.
type Mismatch struct {
	Field string `json:"field"`
	Want  string `json:"want"`
	Got   string `json:"got"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: want %s, got %s", m.Field, m.Want, m.Got)
}

// Expect compares r with an expected outcome. A nil consistent or nil
// labels is not checked. The result is empty when r matches.
func (r *Report) Expect(consistent *bool, labels []string) []Mismatch {
	var out []Mismatch
	if consistent != nil && *consistent != r.Consistent {
		out = append(out, Mismatch{
			Field: "consistent",
			Want:  fmt.Sprint(*consistent),
			Got:   fmt.Sprint(r.Consistent),
		})
	}
	if labels != nil {
		got := r.Labels()
		if !slices.Equal(labels, got) {
			out = append(out, Mismatch{
				Field: "labels",
				Want:  fmt.Sprintf("%q", labels),
				Got:   fmt.Sprintf("%q", got),
			})
		}
	}
	return out
}

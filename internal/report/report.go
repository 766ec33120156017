package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/zeta/internal/invariant"
	"github.com/roach88/zeta/internal/ir"
)

// Entry is one reported violation: the owner's name and its labels.
type Entry struct {
	Owner  string   `json:"owner"`
	Labels []string `json:"labels"`
}

// String renders e in the "[l1, l2] failed in Owner" form.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] failed in %s", strings.Join(e.Labels, ", "), e.Owner)
}

// Report is the evaluated state of one root.
type Report struct {
	Root        string  `json:"root"`
	Kind        string  `json:"kind"`
	Consistent  bool    `json:"consistent"`
	Entries     []Entry `json:"entries"`
	Fingerprint string  `json:"fingerprint"`
}

// New evaluates inv and records its outcome under root. Entries follow the
// order of inv.Violations.
func New(root string, inv invariant.Invariable) (*Report, error) {
	r := &Report{
		Root:       root,
		Kind:       invariant.NameOf(inv),
		Consistent: inv.IsConsistent(),
		Entries:    []Entry{},
	}
	for v := range inv.Violations() {
		r.Entries = append(r.Entries, Entry{
			Owner:  invariant.NameOf(v.Owner),
			Labels: append([]string(nil), v.Labels...),
		})
	}

	fp, err := ir.Fingerprint(ir.DomainReport, r.canonical())
	if err != nil {
		return nil, err
	}
	r.Fingerprint = fp
	return r, nil
}

// canonical is the fingerprinted content of r. The fingerprint itself is
// excluded.
func (r *Report) canonical() ir.IRObject {
	entries := make(ir.IRArray, 0, len(r.Entries))
	for _, e := range r.Entries {
		labels := make(ir.IRArray, 0, len(e.Labels))
		for _, l := range e.Labels {
			labels = append(labels, ir.IRString(l))
		}
		entries = append(entries, ir.IRObject{
			"owner":  ir.IRString(e.Owner),
			"labels": labels,
		})
	}
	return ir.IRObject{
		"root":       ir.IRString(r.Root),
		"kind":       ir.IRString(r.Kind),
		"consistent": ir.IRBool(r.Consistent),
		"entries":    entries,
	}
}

// Labels flattens every entry's labels in report order.
func (r *Report) Labels() []string {
	var out []string
	for _, e := range r.Entries {
		out = append(out, e.Labels...)
	}
	return out
}

// WriteText renders r as a status line followed by one line per entry.
// An inconsistent report without entries prints "<Kind> is inconsistent".
func (r *Report) WriteText(w io.Writer) error {
	status := "consistent"
	if !r.Consistent {
		status = "inconsistent"
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", r.Root, status); err != nil {
		return err
	}
	if !r.Consistent && len(r.Entries) == 0 {
		_, err := fmt.Fprintf(w, "%s is inconsistent\n", r.Kind)
		return err
	}
	for _, e := range r.Entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}

// Text is WriteText into a string.
func (r *Report) Text() string {
	var sb strings.Builder
	_ = r.WriteText(&sb)
	return sb.String()
}

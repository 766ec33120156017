package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/zeta/internal/compiler"
	"github.com/roach88/zeta/internal/report"
	"github.com/roach88/zeta/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Roots  []string // evaluate only these bindings
	DBPath string   // record reports when set
}

// CheckOutcome is the evaluation of one root.
type CheckOutcome struct {
	Report     *report.Report    `json:"report"`
	Pass       bool              `json:"pass"`
	Mismatches []report.Mismatch `json:"mismatches,omitempty"`
	Seq        int64             `json:"seq,omitempty"`
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Document string         `json:"document"`
	Hash     string         `json:"hash"`
	Checks   []CheckOutcome `json:"checks"`
	Passed   int            `json:"passed"`
	Failed   int            `json:"failed"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <document>",
		Short: "Evaluate the consistency of a document's roots",
		Long: `Compile a document and evaluate each check root.

A root with an expectation passes when the expectation holds. A root
without one passes when it is consistent. Without checks in the document,
every binding that no other binding references is evaluated.

Exit codes:
  0 - All roots passed
  1 - A root failed, or the document is invalid
  2 - Command error (invalid paths, unknown --root, database error)

Examples:
  zeta check booking.yaml
  zeta check booking.cue --root flight --root itinerary
  zeta check booking.yaml --db history.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Roots, "root", nil, "evaluate only this binding (repeatable)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database to record reports in")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := newPrinter(opts.RootOptions, cmd)

	loaded, err := LoadDocument(path)
	if err != nil {
		return failLoad(p, err)
	}

	if errs := compiler.Validate(loaded.Document); len(errs) > 0 {
		return writeValidationErrors(p, errs)
	}
	universe, err := compiler.Compile(loaded.Document)
	if err != nil {
		return p.fail(ExitFailure, CodeInternal, err)
	}

	checks, err := selectChecks(universe, opts.Roots)
	if err != nil {
		return p.fail(ExitCommandError, CodeUnknownRoot, err)
	}

	var db *store.Store
	if opts.DBPath != "" {
		db, err = store.Open(opts.DBPath)
		if err != nil {
			return p.fail(ExitCommandError, CodeStore, err)
		}
		defer db.Close()
	}

	result := CheckResult{
		Document: documentName(loaded),
		Hash:     loaded.Hash,
		Checks:   make([]CheckOutcome, 0, len(checks)),
	}

	for _, c := range checks {
		outcome, err := evaluate(c)
		if err != nil {
			return p.fail(ExitCommandError, CodeInternal, fmt.Errorf("evaluate %s: %w", c.Root, err))
		}

		if db != nil {
			seq, recorded, err := db.Record(ctx, loaded.Hash, result.Document, outcome.Report)
			if err != nil {
				return p.fail(ExitCommandError, CodeStore, fmt.Errorf("record %s: %w", c.Root, err))
			}
			outcome.Seq = seq
			slog.Debug("recorded check", "root", c.Root, "seq", seq, "new", recorded)
		}

		if outcome.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Checks = append(result.Checks, outcome)
	}

	status := StatusOK
	if result.Failed > 0 {
		status = StatusFailed
	}
	if err := p.verdict(status, result, func(w io.Writer) error {
		return writeCheckText(w, result)
	}); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d root(s) failed", result.Failed, len(result.Checks)))
	}
	return nil
}

// selectChecks narrows the universe's checks to roots. A root that is a
// binding but not a declared check is evaluated without expectation.
func selectChecks(u *compiler.Universe, roots []string) ([]compiler.Check, error) {
	if len(roots) == 0 {
		return u.Checks, nil
	}
	var out []compiler.Check
	for _, root := range roots {
		found := false
		for _, c := range u.Checks {
			if c.Root == root {
				out = append(out, c)
				found = true
			}
		}
		if found {
			continue
		}
		b, ok := u.Binding(root)
		if !ok {
			return nil, fmt.Errorf("unknown root %q", root)
		}
		out = append(out, compiler.Check{Root: root, Binding: b})
	}
	return out, nil
}

func evaluate(c compiler.Check) (CheckOutcome, error) {
	r, err := report.New(c.Root, c.Binding)
	if err != nil {
		return CheckOutcome{}, err
	}
	outcome := CheckOutcome{Report: r, Pass: r.Consistent}
	if c.Expect != nil {
		outcome.Mismatches = r.Expect(c.Expect.Consistent, c.Expect.Labels)
		outcome.Pass = len(outcome.Mismatches) == 0
	}
	slog.Debug("evaluated root", "root", c.Root, "consistent", r.Consistent, "pass", outcome.Pass)
	return outcome, nil
}

func documentName(loaded *LoadResult) string {
	if loaded.Document.Name != "" {
		return loaded.Document.Name
	}
	return loaded.Path
}

func writeCheckText(w io.Writer, result CheckResult) error {
	for i, outcome := range result.Checks {
		if i > 0 {
			fmt.Fprintln(w)
		}
		mark := "✓"
		if !outcome.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s ", mark)
		if err := outcome.Report.WriteText(w); err != nil {
			return err
		}
		for _, m := range outcome.Mismatches {
			fmt.Fprintf(w, "  expected %s\n", m)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed\n", result.Passed, result.Failed)
	return nil
}

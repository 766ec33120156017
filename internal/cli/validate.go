package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/zeta/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a document without evaluating it",
		Long: `Validate a YAML or CUE document without evaluating any check.

Reports every problem found: unknown kinds and references, undeclared
fields, malformed directives and reference cycles.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	p := newPrinter(opts, cmd)

	loaded, err := LoadDocument(path)
	if err != nil {
		return failLoad(p, err)
	}
	slog.Debug("loaded document", "path", path,
		"kinds", len(loaded.Document.Kinds), "bindings", len(loaded.Document.Bindings))

	if errs := compiler.Validate(loaded.Document); len(errs) > 0 {
		return writeValidationErrors(p, errs)
	}

	return p.verdict(StatusOK, ValidationResult{Valid: true}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "✓ Document valid")
		return err
	})
}

// failLoad reports a document that could not be read or decoded. A
// document that does not decode is a failed verdict; a missing one is a
// command error.
func failLoad(p *printer, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return p.fail(ExitCommandError, CodeInternal, err)
	}
	exit := ExitCommandError
	if loadErr.Code == CodeDecode {
		exit = ExitFailure
	}
	return p.fail(exit, loadErr.Code, loadErr)
}

// writeValidationErrors reports every problem in an invalid document.
func writeValidationErrors(p *printer, errs []compiler.ValidationError) error {
	result := ValidationResult{Valid: false, Errors: errs}
	err := p.verdict(StatusFailed, result, func(w io.Writer) error {
		fmt.Fprintln(w, "✗ Validation failed")
		fmt.Fprintln(w)
		for _, e := range errs {
			if e.Line > 0 {
				fmt.Fprintf(w, "line %d\n", e.Line)
			}
			fmt.Fprintf(w, "  %s: %s: %s\n\n", e.Code, e.Field, e.Message)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

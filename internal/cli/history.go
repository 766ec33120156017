package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/zeta/internal/store"
)

// errNoDatabase is returned by history when --db is missing.
var errNoDatabase = errors.New("--db is required")

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Root   string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded checks",
		Long: `List the reports recorded by "zeta check --db", oldest first.

Examples:
  zeta history --db history.db
  zeta history --db history.db --root flight --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database written by check")
	cmd.Flags().StringVar(&opts.Root, "root", "", "show only this root")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := newPrinter(opts.RootOptions, cmd)

	if opts.DBPath == "" {
		return p.fail(ExitCommandError, CodeUsage, errNoDatabase)
	}
	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		return p.fail(ExitCommandError, CodeNotFound, fmt.Errorf("database not found: %s", opts.DBPath))
	}

	db, err := store.Open(opts.DBPath)
	if err != nil {
		return p.fail(ExitCommandError, CodeStore, err)
	}
	defer db.Close()

	checks, err := db.History(ctx, opts.Root)
	if err != nil {
		return p.fail(ExitCommandError, CodeStore, fmt.Errorf("read history: %w", err))
	}
	slog.Debug("read history", "db", opts.DBPath, "root", opts.Root, "checks", len(checks))

	return p.verdict(StatusOK, checks, func(w io.Writer) error {
		return writeHistoryText(w, checks)
	})
}

func writeHistoryText(w io.Writer, checks []store.Check) error {
	if len(checks) == 0 {
		_, err := fmt.Fprintln(w, "No checks recorded.")
		return err
	}
	for _, c := range checks {
		status := "consistent"
		if !c.Report.Consistent {
			status = "inconsistent"
		}
		fmt.Fprintf(w, "#%d %s %s %s (%s)\n",
			c.Seq, c.Report.Root, status, shortHash(c.Report.Fingerprint), c.DocumentName)
		for _, e := range c.Report.Entries {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Document valid, every root passed
	ExitFailure      = 1 // Document invalid, or a root failed
	ExitCommandError = 2 // Command could not run (missing paths, unknown --root, database error)
)

// Error codes for commands that could not reach a verdict.
// Document validation codes (E2xx) come from the compiler package.
const (
	CodeInternal    = "E001" // Unexpected failure
	CodeUsage       = "E002" // Missing or conflicting flags
	CodeDecode      = "E004" // YAML or CUE decode failed
	CodeNotFound    = "E005" // Document or database not found
	CodeStore       = "E008" // History database error
	CodeUnknownRoot = "E009" // --root names no binding
)

// Status is the verdict of one command run.
type Status string

const (
	StatusOK     Status = "ok"     // valid document, every root passed
	StatusFailed Status = "failed" // ran to completion with a negative verdict
	StatusError  Status = "error"  // no verdict, see Response.Error
)

// Response is the JSON envelope written by every command.
type Response struct {
	Status Status   `json:"status"`
	Data   any      `json:"data,omitempty"`
	Error  *Problem `json:"error,omitempty"`
}

// Problem describes why a command produced no verdict.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// printer writes a command's verdict as text or as a JSON Response.
type printer struct {
	json bool
	w    io.Writer
}

func newPrinter(opts *RootOptions, cmd *cobra.Command) *printer {
	return &printer{json: opts.Format == "json", w: cmd.OutOrStdout()}
}

// verdict writes data under status. In text mode text renders it instead.
func (p *printer) verdict(status Status, data any, text func(io.Writer) error) error {
	if p.json {
		return p.encode(Response{Status: status, Data: data})
	}
	return text(p.w)
}

// fail reports that the command could not run and returns cause tagged
// with code and exit.
func (p *printer) fail(exit int, code string, cause error) error {
	if p.json {
		_ = p.encode(Response{Status: StatusError, Error: &Problem{Code: code, Message: cause.Error()}})
	} else {
		fmt.Fprintf(p.w, "Error [%s]: %v\n", code, cause)
	}
	return WrapExitError(exit, code, cause)
}

func (p *printer) encode(resp Response) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

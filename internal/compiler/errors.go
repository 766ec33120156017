package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Validation error codes (E200-E299)
const (
	ErrEmptyDocument    = "E200" // no bindings declared
	ErrUnknownKind      = "E201" // binding names an undeclared kind
	ErrInvalidMode      = "E202" // mode is not conjoined or disjoint
	ErrUndeclaredField  = "E203" // data key not declared by the kind
	ErrUnknownReference = "E204" // $ref, $delta or $xi names no binding
	ErrReferenceCycle   = "E205" // bindings reference each other
	ErrInvalidDirective = "E206" // malformed $-directive
	ErrInvalidValue     = "E207" // value outside the IR (floats etc.)
	ErrUnknownCheckRoot = "E208" // check names no binding
	ErrEndpointMismatch = "E209" // delta endpoints of different kinds
	ErrDuplicateField   = "E210" // kind declares a field twice
	ErrParse            = "E211" // YAML or CUE could not be decoded
	ErrMissingCheckRoot = "E212" // check has no root
	ErrEmptyViolation   = "E213" // violation label is empty
)

// ValidationError represents one problem found in a document.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Code    string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError converts e for collected reporting.
func (e *CompileError) ValidationError() ValidationError {
	line := 0
	if e.Pos.IsValid() {
		line = e.Pos.Line()
	}
	return ValidationError{Field: e.Field, Message: e.Message, Code: e.Code, Line: line}
}

func compileErrorf(code, field, format string, args ...any) *CompileError {
	return &CompileError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Code:    ErrParse,
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return &CompileError{Field: "cue", Code: ErrParse, Message: firstErr.Error()}
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/zeta/internal/compiler"
	"github.com/roach88/zeta/internal/ir"
)

// LoadResult is a decoded document and the hash of its raw bytes.
type LoadResult struct {
	Path     string
	Document *compiler.Document
	Hash     string // content hash, ties stored reports to their input
}

// LoadError is a failure to read or decode a document. Code is one of
// CodeNotFound, CodeDecode or CodeInternal.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// LoadDocument reads and decodes the document at path.
func LoadDocument(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: CodeNotFound, Message: fmt.Sprintf("document not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: CodeInternal, Message: fmt.Sprintf("read document: %v", err)}
	}

	doc, err := compiler.Parse(path, data)
	if err != nil {
		var cerr *compiler.CompileError
		if errors.As(err, &cerr) {
			return nil, &LoadError{Code: CodeDecode, Message: cerr.Message, Pos: cerr.Pos}
		}
		return nil, &LoadError{Code: CodeDecode, Message: err.Error()}
	}

	return &LoadResult{Path: path, Document: doc, Hash: ir.DocumentHash(data)}, nil
}

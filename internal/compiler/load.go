package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and decodes a document, choosing the decoder by
// extension: .yaml and .yml use YAML, .cue and .json use CUE.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data as the format implied by filename's extension.
func Parse(filename string, data []byte) (*Document, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".cue", ".json":
		return ParseCUE(filename, data)
	default:
		return nil, compileErrorf(ErrParse, filename, "unsupported document extension %q", ext)
	}
}

// ParseYAML decodes a YAML document. Unknown keys are rejected.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, compileErrorf(ErrParse, "yaml", "failed to parse YAML: %v", err)
	}
	return &doc, nil
}

// ParseCUE evaluates CUE source and decodes the resulting value. The value
// must be concrete. filename is used in error positions.
func ParseCUE(filename string, data []byte) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc Document
	if err := v.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	return &doc, nil
}

package compiler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/zeta/internal/schema"
)

// analysis is the checked, parsed form of a Document.
type analysis struct {
	kinds map[string]schema.Kind
	// data holds parsed values per binding, keyed by field name.
	data  map[string]map[string]node
	graph referenceGraph
}

// Validate checks doc and returns every problem found, in a stable order.
// An empty result means Compile will succeed.
func Validate(doc *Document) []ValidationError {
	_, errs := analyze(doc)
	return errs
}

func analyze(doc *Document) (*analysis, []ValidationError) {
	var errs []ValidationError
	report := func(err error) {
		var cerr *CompileError
		if errors.As(err, &cerr) {
			errs = append(errs, cerr.ValidationError())
			return
		}
		errs = append(errs, ValidationError{Field: "document", Message: err.Error(), Code: ErrInvalidValue})
	}

	a := &analysis{
		kinds: make(map[string]schema.Kind, len(doc.Kinds)),
		data:  make(map[string]map[string]node, len(doc.Bindings)),
	}

	if len(doc.Bindings) == 0 {
		report(compileErrorf(ErrEmptyDocument, "bindings", "document declares no bindings"))
	}

	for _, name := range sortedNames(doc.Kinds) {
		kind, err := compileKind(name, doc.Kinds[name])
		if err != nil {
			report(err)
			continue
		}
		a.kinds[name] = kind
	}

	for _, name := range sortedNames(doc.Bindings) {
		decl := doc.Bindings[name]
		field := "bindings." + name
		parsed := make(map[string]node, len(decl.Data))
		a.data[name] = parsed

		kind, ok := a.kinds[decl.Kind]
		if !ok {
			if _, declared := doc.Kinds[decl.Kind]; !declared {
				report(compileErrorf(ErrUnknownKind, field+".kind", "unknown kind %q", decl.Kind))
			}
		}

		for _, key := range sortedNames(decl.Data) {
			if ok && !kind.HasField(key) {
				report(compileErrorf(ErrUndeclaredField, field+".data."+key,
					"kind %s declares no field %q", kind.Name, key))
				continue
			}
			n, err := parseValue(decl.Data[key], field+".data."+key)
			if err != nil {
				report(err)
				continue
			}
			parsed[key] = n
		}

		for i, label := range decl.Violations {
			if label == "" {
				report(compileErrorf(ErrEmptyViolation, fmt.Sprintf("%s.violations[%d]", field, i),
					"violation label is empty"))
			}
		}
	}

	a.graph = buildReferenceGraph(toNodeLists(a.data))

	for _, name := range sortedNames(doc.Bindings) {
		parsed := a.data[name]
		for _, key := range sortedNames(parsed) {
			field := "bindings." + name + ".data." + key
			for _, err := range a.checkReferences(doc, parsed[key], field) {
				report(err)
			}
		}
	}

	for _, cycle := range findCycles(a.graph) {
		report(compileErrorf(ErrReferenceCycle, "bindings."+cycle.Path[0], "%s", cycle.Message))
	}

	for i, check := range doc.Checks {
		field := fmt.Sprintf("checks[%d].root", i)
		switch {
		case check.Root == "":
			report(compileErrorf(ErrMissingCheckRoot, field, "check has no root"))
		case !hasName(doc.Bindings, check.Root):
			report(compileErrorf(ErrUnknownCheckRoot, field, "unknown binding %q", check.Root))
		}
	}

	return a, errs
}

// compileKind turns a declaration into a schema.Kind.
func compileKind(name string, decl KindDecl) (schema.Kind, error) {
	field := "kinds." + name
	mode, err := schema.ParseMode(decl.Mode)
	if err != nil {
		return schema.Kind{}, compileErrorf(ErrInvalidMode, field+".mode", "%v", err)
	}
	seen := make(map[string]bool, len(decl.Fields))
	for i, f := range decl.Fields {
		if f == "" {
			return schema.Kind{}, compileErrorf(ErrInvalidValue, fmt.Sprintf("%s.fields[%d]", field, i), "field name is empty")
		}
		if seen[f] {
			return schema.Kind{}, compileErrorf(ErrDuplicateField, fmt.Sprintf("%s.fields[%d]", field, i), "duplicate field %q", f)
		}
		seen[f] = true
	}
	return schema.NewKind(name, mode, decl.Fields...), nil
}

// checkReferences verifies that every binding n names exists and that
// delta endpoints agree on their kind.
func (a *analysis) checkReferences(doc *Document, n node, field string) []error {
	var errs []error
	endpoint := func(name, side string) (string, bool) {
		decl, ok := doc.Bindings[name]
		if !ok {
			errs = append(errs, compileErrorf(ErrUnknownReference, field+"."+side, "unknown binding %q", name))
			return "", false
		}
		return decl.Kind, true
	}
	pair := func(before, after string) (schema.Kind, bool) {
		bk, okBefore := endpoint(before, "before")
		ak, okAfter := endpoint(after, "after")
		if !okBefore || !okAfter {
			return schema.Kind{}, false
		}
		if bk != ak {
			errs = append(errs, compileErrorf(ErrEndpointMismatch, field,
				"before is %s but after is %s", bk, ak))
			return schema.Kind{}, false
		}
		kind, ok := a.kinds[bk]
		return kind, ok
	}

	switch val := n.(type) {
	case refNode:
		if !hasName(doc.Bindings, string(val)) {
			errs = append(errs, compileErrorf(ErrUnknownReference, field+"."+directiveRef, "unknown binding %q", string(val)))
		}
	case deltaNode:
		kind, ok := pair(val.before, val.after)
		if ok {
			for _, f := range val.except {
				if !kind.HasField(f) {
					errs = append(errs, compileErrorf(ErrUndeclaredField, field+".except",
						"kind %s declares no field %q", kind.Name, f))
				}
			}
		}
	case xiNode:
		pair(val.before, val.after)
	case listNode:
		for i, child := range val {
			errs = append(errs, a.checkReferences(doc, child, fmt.Sprintf("%s[%d]", field, i))...)
		}
	case setNode:
		for i, child := range val {
			errs = append(errs, a.checkReferences(doc, child, fmt.Sprintf("%s.%s[%d]", field, directiveSet, i))...)
		}
	case mapNode:
		for i, child := range val.values {
			errs = append(errs, a.checkReferences(doc, child, field+"."+val.keys[i])...)
		}
	case entryNode:
		errs = append(errs, a.checkReferences(doc, val.key, field+".key")...)
		errs = append(errs, a.checkReferences(doc, val.value, field+".value")...)
	}
	return errs
}

func toNodeLists(data map[string]map[string]node) map[string][]node {
	out := make(map[string][]node, len(data))
	for name, fields := range data {
		nodes := make([]node, 0, len(fields))
		for _, key := range sortedNames(fields) {
			nodes = append(nodes, fields[key])
		}
		out[name] = nodes
	}
	return out
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func hasName[V any](m map[string]V, name string) bool {
	_, ok := m[name]
	return ok
}

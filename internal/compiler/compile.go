package compiler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/zeta/internal/delta"
	"github.com/roach88/zeta/internal/invariant"
	"github.com/roach88/zeta/internal/schema"
)

// Universe is a compiled document: every binding built, every check
// resolved to its root.
type Universe struct {
	Name     string
	Kinds    map[string]schema.Kind
	Bindings map[string]*schema.Binding
	Checks   []Check
}

// Check is one root to evaluate.
type Check struct {
	Root    string
	Binding *schema.Binding
	Expect  *Expectation
}

// Binding returns the binding declared under name.
func (u *Universe) Binding(name string) (*schema.Binding, bool) {
	b, ok := u.Bindings[name]
	return b, ok
}

// Compile validates doc and builds its bindings bottom-up, so each binding
// is constructed after every binding its data references. The first
// validation problem is returned as a *CompileError.
//
// A document without checks evaluates every binding that no other binding
// references, in name order.
func Compile(doc *Document) (*Universe, error) {
	a, errs := analyze(doc)
	if len(errs) > 0 {
		first := errs[0]
		return nil, &CompileError{Field: first.Field, Message: first.Message, Code: first.Code}
	}

	u := &Universe{
		Name:     doc.Name,
		Kinds:    a.kinds,
		Bindings: make(map[string]*schema.Binding, len(doc.Bindings)),
	}

	for _, name := range topoOrder(a.graph) {
		decl := doc.Bindings[name]
		kind := a.kinds[decl.Kind]
		b := schema.NewBuilder(kind)
		for _, field := range kind.Fields {
			n, ok := a.data[name][field]
			if !ok {
				b.RegisterField(field, nil)
				continue
			}
			b.RegisterField(field, u.materialize(n, b))
		}
		for _, label := range decl.Violations {
			b.RegisterViolation(label)
		}
		u.Bindings[name] = b.Build()
		slog.Debug("built binding", "binding", name, "kind", kind.Name)
	}

	if len(doc.Checks) == 0 {
		for _, root := range roots(a.graph) {
			u.Checks = append(u.Checks, Check{Root: root, Binding: u.Bindings[root]})
		}
	}
	for _, c := range doc.Checks {
		u.Checks = append(u.Checks, Check{Root: c.Root, Binding: u.Bindings[c.Root], Expect: c.Expect})
	}

	return u, nil
}

// materialize converts n into the runtime value stored in a binding.
// Referenced bindings must already be built. An except clause that does
// not hold is registered on owner.
func (u *Universe) materialize(n node, owner *schema.Builder) any {
	switch val := n.(type) {
	case scalarNode:
		return val.value
	case listNode:
		list := make(invariant.List, 0, len(val))
		for _, child := range val {
			list = append(list, u.materialize(child, owner))
		}
		return list
	case setNode:
		members := make([]any, 0, len(val))
		for _, child := range val {
			members = append(members, u.materialize(child, owner))
		}
		return invariant.SetOf(members...)
	case mapNode:
		m := make(invariant.Map, 0, len(val.keys))
		for i, k := range val.keys {
			m = append(m, invariant.Entry{Key: k, Value: u.materialize(val.values[i], owner)})
		}
		return m
	case entryNode:
		return invariant.Entry{
			Key:   u.materialize(val.key, owner),
			Value: u.materialize(val.value, owner),
		}
	case refNode:
		return u.Bindings[string(val)]
	case deltaNode:
		before, after := u.Bindings[val.before], u.Bindings[val.after]
		d := delta.New(before, after)
		if val.hasExcept {
			accessors := delta.FieldAccessors[*schema.Binding](before.Kind())
			owner.RegisterViolationIf(!d.UnchangedExcept(accessors, val.except...), exceptLabel(val.except))
		}
		return d
	case xiNode:
		return delta.NewXi(u.Bindings[val.before], u.Bindings[val.after])
	default:
		panic(fmt.Sprintf("compiler: unexpected node %T", n))
	}
}

// exceptLabel names the frame condition of a $delta with except.
func exceptLabel(fields []string) string {
	if len(fields) == 0 {
		return "unchanged"
	}
	return "unchanged except " + strings.Join(fields, ", ")
}

// roots returns bindings no other binding references, sorted.
func roots(graph referenceGraph) []string {
	referenced := make(map[string]bool)
	for _, edges := range graph {
		for _, e := range edges {
			referenced[e] = true
		}
	}
	var out []string
	for _, name := range sortedNames(graph) {
		if !referenced[name] {
			out = append(out, name)
		}
	}
	return out
}

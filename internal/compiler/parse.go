package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/zeta/internal/ir"
)

// node is the parsed form of one data value, before bindings are resolved.
type node interface {
	isNode()
}

type (
	scalarNode struct{ value any }
	listNode   []node
	setNode    []node
	mapNode    struct {
		keys   []string
		values []node
	}
	entryNode struct{ key, value node }
	refNode   string
	deltaNode struct {
		before, after string
		except        []string
		hasExcept     bool
	}
	xiNode struct{ before, after string }
)

func (scalarNode) isNode() {}
func (listNode) isNode()   {}
func (setNode) isNode()    {}
func (mapNode) isNode()    {}
func (entryNode) isNode()  {}
func (refNode) isNode()    {}
func (deltaNode) isNode()  {}
func (xiNode) isNode()     {}

// Directive keys.
const (
	directiveRef   = "$ref"
	directiveSet   = "$set"
	directiveEntry = "$entry"
	directiveDelta = "$delta"
	directiveXi    = "$xi"
)

// parseValue converts a decoded data value into a node.
// field is the dotted path used in error messages.
func parseValue(raw any, field string) (node, error) {
	v, err := ir.FromGo(raw)
	if err != nil {
		return nil, compileErrorf(ErrInvalidValue, field, "%v", err)
	}
	return parseIR(v, field)
}

func parseIR(v ir.IRValue, field string) (node, error) {
	switch val := v.(type) {
	case ir.IRNull:
		return scalarNode{value: nil}, nil
	case ir.IRString:
		return scalarNode{value: string(val)}, nil
	case ir.IRInt:
		return scalarNode{value: int64(val)}, nil
	case ir.IRBool:
		return scalarNode{value: bool(val)}, nil
	case ir.IRArray:
		list, err := parseList(val, field)
		if err != nil {
			return nil, err
		}
		return listNode(list), nil
	case ir.IRObject:
		if directive, ok := directiveOf(val); ok {
			return parseDirective(directive, val, field)
		}
		m := mapNode{}
		for _, k := range val.SortedKeys() {
			child, err := parseIR(val[k], field+"."+k)
			if err != nil {
				return nil, err
			}
			m.keys = append(m.keys, k)
			m.values = append(m.values, child)
		}
		return m, nil
	default:
		return nil, compileErrorf(ErrInvalidValue, field, "unsupported value %T", v)
	}
}

func parseList(arr ir.IRArray, field string) ([]node, error) {
	out := make([]node, 0, len(arr))
	for i, elem := range arr {
		child, err := parseIR(elem, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// directiveOf returns the first $-key of obj in canonical key order.
func directiveOf(obj ir.IRObject) (string, bool) {
	for _, k := range obj.SortedKeys() {
		if strings.HasPrefix(k, "$") {
			return k, true
		}
	}
	return "", false
}

func parseDirective(directive string, obj ir.IRObject, field string) (node, error) {
	if len(obj) != 1 {
		return nil, compileErrorf(ErrInvalidDirective, field,
			"%s must be the only key in its object", directive)
	}
	body := obj[directive]
	field = field + "." + directive

	switch directive {
	case directiveRef:
		name, ok := body.(ir.IRString)
		if !ok || name == "" {
			return nil, compileErrorf(ErrInvalidDirective, field, "must be a binding name")
		}
		return refNode(name), nil

	case directiveSet:
		arr, ok := body.(ir.IRArray)
		if !ok {
			return nil, compileErrorf(ErrInvalidDirective, field, "must be a list")
		}
		members, err := parseList(arr, field)
		if err != nil {
			return nil, err
		}
		return setNode(members), nil

	case directiveEntry:
		pair, err := directiveBody(body, field, []string{"key", "value"}, nil)
		if err != nil {
			return nil, err
		}
		key, err := parseIR(pair["key"], field+".key")
		if err != nil {
			return nil, err
		}
		value, err := parseIR(pair["value"], field+".value")
		if err != nil {
			return nil, err
		}
		return entryNode{key: key, value: value}, nil

	case directiveDelta:
		pair, err := directiveBody(body, field, []string{"before", "after"}, []string{"except"})
		if err != nil {
			return nil, err
		}
		before, after, err := endpoints(pair, field)
		if err != nil {
			return nil, err
		}
		d := deltaNode{before: before, after: after}
		if raw, ok := pair["except"]; ok {
			d.hasExcept = true
			d.except, err = stringList(raw, field+".except")
			if err != nil {
				return nil, err
			}
		}
		return d, nil

	case directiveXi:
		pair, err := directiveBody(body, field, []string{"before", "after"}, nil)
		if err != nil {
			return nil, err
		}
		before, after, err := endpoints(pair, field)
		if err != nil {
			return nil, err
		}
		return xiNode{before: before, after: after}, nil

	default:
		return nil, compileErrorf(ErrInvalidDirective, field, "unknown directive %s", directive)
	}
}

// directiveBody checks that body is an object with every required key and
// no keys beyond required and optional.
func directiveBody(body ir.IRValue, field string, required, optional []string) (ir.IRObject, error) {
	obj, ok := body.(ir.IRObject)
	if !ok {
		return nil, compileErrorf(ErrInvalidDirective, field, "must be an object with %s", strings.Join(required, ", "))
	}
	allowed := make(map[string]bool, len(required)+len(optional))
	for _, k := range required {
		if _, ok := obj[k]; !ok {
			return nil, compileErrorf(ErrInvalidDirective, field, "missing %q", k)
		}
		allowed[k] = true
	}
	for _, k := range optional {
		allowed[k] = true
	}
	for _, k := range obj.SortedKeys() {
		if !allowed[k] {
			return nil, compileErrorf(ErrInvalidDirective, field, "unexpected key %q", k)
		}
	}
	return obj, nil
}

func endpoints(obj ir.IRObject, field string) (string, string, error) {
	before, ok := obj["before"].(ir.IRString)
	if !ok || before == "" {
		return "", "", compileErrorf(ErrInvalidDirective, field+".before", "must be a binding name")
	}
	after, ok := obj["after"].(ir.IRString)
	if !ok || after == "" {
		return "", "", compileErrorf(ErrInvalidDirective, field+".after", "must be a binding name")
	}
	return string(before), string(after), nil
}

func stringList(v ir.IRValue, field string) ([]string, error) {
	arr, ok := v.(ir.IRArray)
	if !ok {
		return nil, compileErrorf(ErrInvalidDirective, field, "must be a list of field names")
	}
	out := make([]string, 0, len(arr))
	for i, elem := range arr {
		s, ok := elem.(ir.IRString)
		if !ok {
			return nil, compileErrorf(ErrInvalidDirective, fmt.Sprintf("%s[%d]", field, i), "must be a field name")
		}
		out = append(out, string(s))
	}
	return out, nil
}

// references appends every binding name n depends on, in encounter order.
func references(n node, out []string) []string {
	switch val := n.(type) {
	case listNode:
		for _, child := range val {
			out = references(child, out)
		}
	case setNode:
		for _, child := range val {
			out = references(child, out)
		}
	case mapNode:
		for _, child := range val.values {
			out = references(child, out)
		}
	case entryNode:
		out = references(val.key, out)
		out = references(val.value, out)
	case refNode:
		out = append(out, string(val))
	case deltaNode:
		out = append(out, val.before, val.after)
	case xiNode:
		out = append(out, val.before, val.after)
	}
	return out
}

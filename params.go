package uritemplate

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Params is a normalized view over substitution inputs. Lookup reports the
// value bound to a variable name: the second result is false when the name is
// absent, which leaves the variable unresolved in the expansion output as
// residual template syntax.
//
// An explicitly bound empty list forces removal of the variable from the
// output instead.
//
//go:generate go tool mockgen -package paramsmock -destination internal/testutil/paramsmock/params.go . Params
type Params interface {
	Lookup(name string) (Value, bool)
}

type valueKind uint8

const (
	valueScalar valueKind = iota
	valueList
	valueAssoc
	valueInvalid
)

// Value is a substitution value in one of three shapes: a scalar string, an
// ordered list of strings, or an ordered list of key/value pairs.
type Value struct {
	err    error
	scalar string
	list   []string
	pairs  [][2]string
	kind   valueKind
}

// ValueOf normalizes an arbitrary substitution input into a [Value].
//
// Supported shapes: Value itself, nil (an empty list, forcing removal),
// strings, booleans, Go integer and float types, fmt.Stringer, []string,
// []any of scalars, [][2]string, and map[string]string / map[string]any with
// keys in sorted order. Anything else produces a value that fails expansion
// with [ErrUnsupportedValue].
func ValueOf(v any) Value {
	switch v := v.(type) {
	case Value:
		return v
	case nil:
		return Value{kind: valueList}
	case string:
		return Value{kind: valueScalar, scalar: v}
	case []string:
		return Value{kind: valueList, list: v}
	case [][2]string:
		return Value{kind: valueAssoc, pairs: v}
	case []any:
		list := make([]string, len(v))
		for i, item := range v {
			s, err := scalarOf(item)
			if err != nil {
				return Value{kind: valueInvalid, err: err}
			}
			list[i] = s
		}
		return Value{kind: valueList, list: list}
	case map[string]string:
		pairs := make([][2]string, 0, len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			pairs = append(pairs, [2]string{k, v[k]})
		}
		return Value{kind: valueAssoc, pairs: pairs}
	case map[string]any:
		pairs := make([][2]string, 0, len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			s, err := scalarOf(v[k])
			if err != nil {
				return Value{kind: valueInvalid, err: err}
			}
			pairs = append(pairs, [2]string{k, s})
		}
		return Value{kind: valueAssoc, pairs: pairs}
	default:
		s, err := scalarOf(v)
		if err != nil {
			return Value{kind: valueInvalid, err: err}
		}
		return Value{kind: valueScalar, scalar: s}
	}
}

// scalarOf stringifies a scalar substitution input.
func scalarOf(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", newUnsupportedValueErr("%T", v) //errtrace:skip
	}
}

// mapParams resolves names against a plain map.
type mapParams map[string]any

func (m mapParams) Lookup(name string) (Value, bool) {
	v, ok := m[name]
	if !ok {
		return Value{}, false
	}
	return ValueOf(v), true
}

// Map creates a [Params] source from a map of names to substitution values.
func Map(m map[string]any) Params {
	return mapParams(m)
}

// Single creates a [Params] source binding exactly one name.
func Single(name string, value any) Params {
	return mapParams{name: value}
}

// argsParams resolves names against an ordered list of name/value pairs;
// the first binding of a name wins.
type argsParams struct {
	names  []string
	values []Value
}

func (p *argsParams) Lookup(name string) (Value, bool) {
	for i, n := range p.names {
		if n == name {
			return p.values[i], true
		}
	}
	return Value{}, false
}

// Args creates a [Params] source from a positional list of alternating names
// and values: Args("id", 42, "tags", []string{"a", "b"}). A non-string name or
// a trailing name without a value yields a binding that fails expansion with
// [ErrUnsupportedValue].
func Args(args ...any) Params {
	p := &argsParams{}
	for i := 0; i < len(args); i += 2 {
		name, ok := args[i].(string)
		if !ok {
			p.names = append(p.names, fmt.Sprint(args[i]))
			p.values = append(p.values, Value{kind: valueInvalid, err: newUnsupportedValueErr("argument %d: name must be a string, got %T", i, args[i])})
			continue
		}
		if i+1 >= len(args) {
			p.names = append(p.names, name)
			p.values = append(p.values, Value{kind: valueInvalid, err: newUnsupportedValueErr("argument %d: name %q without a value", i, name)})
			break
		}
		p.names = append(p.names, name)
		p.values = append(p.values, ValueOf(args[i+1]))
	}
	return p
}

type discardMissing struct {
	src Params
}

func (p discardMissing) Lookup(name string) (Value, bool) {
	if v, ok := p.src.Lookup(name); ok {
		return v, true
	}
	// absent becomes present-but-empty, forcing removal from the output
	return Value{kind: valueList}, true
}

// DiscardMissing wraps a source so that every name it cannot resolve expands
// as an empty list: the variable is dropped from the output instead of being
// preserved as residual template syntax.
func DiscardMissing(p Params) Params {
	return discardMissing{src: p}
}

package uritemplate

import (
	"strconv"
	"strings"
)

// Modifier identifies the expansion operator of a template variable.
//
// The operator values, [ModNone] through [ModColon], are produced by the
// parser. The remaining values are positional hints understood only by
// [Builder.Append]: they route a variable to a specific URI component and
// render without an operator character.
type Modifier uint8

const (
	// ModNone is simple string expansion: {var}.
	ModNone Modifier = iota
	// ModReserved is reserved expansion: {+var}.
	ModReserved
	// ModFragment is fragment expansion: {#var}.
	ModFragment
	// ModLabel is label expansion with dot-prefix: {.var}.
	ModLabel
	// ModPath is path segment expansion: {/var}.
	ModPath
	// ModPathParam is path-style parameter expansion: {;var}.
	ModPathParam
	// ModQueryStart is form-style query expansion: {?var}.
	ModQueryStart
	// ModQuery is form-style query continuation: {&var}.
	ModQuery
	// ModColon is colon-joined expansion: {:var}. Not part of RFC 6570; it
	// behaves like the path operator with ":" as prefix and separator.
	ModColon

	// ModDomain routes a builder variable to the host component.
	ModDomain
	// ModPathComponent routes a builder variable to the path component.
	ModPathComponent
	// ModQueryComponent routes a builder variable to the query component.
	ModQueryComponent
	// ModFragmentComponent routes a builder variable to the fragment component.
	ModFragmentComponent
)

var modifierNames = [...]string{
	"none", "reserved", "fragment", "label", "path", "path-param",
	"query-start", "query", "colon", "domain", "path-component",
	"query-component", "fragment-component",
}

func (m Modifier) String() string {
	if int(m) >= len(modifierNames) {
		return "unknown"
	}
	return modifierNames[m]
}

// operator returns the RFC 6570 operator character of the modifier,
// or 0 if the modifier renders without one.
func (m Modifier) operator() byte {
	switch m {
	case ModReserved:
		return '+'
	case ModFragment:
		return '#'
	case ModLabel:
		return '.'
	case ModPath:
		return '/'
	case ModPathParam:
		return ';'
	case ModQueryStart:
		return '?'
	case ModQuery:
		return '&'
	case ModColon:
		return ':'
	default:
		return 0
	}
}

func modifierForOperator(c byte) (Modifier, bool) {
	switch c {
	case '+':
		return ModReserved, true
	case '#':
		return ModFragment, true
	case '.':
		return ModLabel, true
	case '/':
		return ModPath, true
	case ';':
		return ModPathParam, true
	case '?':
		return ModQueryStart, true
	case '&':
		return ModQuery, true
	case ':':
		return ModColon, true
	default:
		return ModNone, false
	}
}

// Variable is a single template variable occurrence: a name with an optional
// operator modifier, explode flag or prefix length, and a pre-encoded flag.
//
// Variable is an immutable value; the fluent methods return modified copies.
type Variable struct {
	name       string
	mod        Modifier
	prefix     int
	explode    bool
	preEncoded bool
}

// Var creates a simple variable without an operator: {name}.
func Var(name string) Variable {
	return Variable{name: name}
}

// VarWith creates a variable with the given modifier.
func VarWith(mod Modifier, name string) Variable {
	return Variable{name: name, mod: mod}
}

// Explode returns a copy of the variable with the explode ("*") flag set.
// Explode and prefix length are mutually exclusive: any prefix is cleared.
func (v Variable) Explode() Variable {
	v.explode = true
	v.prefix = 0
	return v
}

// Prefix returns a copy of the variable with the given prefix length
// (":n" form). Explode and prefix length are mutually exclusive: the explode
// flag is cleared. Non-positive n removes the prefix.
func (v Variable) Prefix(n int) Variable {
	if n < 0 {
		n = 0
	}
	v.prefix = n
	v.explode = false
	return v
}

// PreEncoded returns a copy of the variable marked as pre-encoded: its
// substituted value is spliced verbatim, bypassing percent-encoding. This is
// how one template can be nested inside another template's expansion result.
func (v Variable) PreEncoded() Variable {
	v.preEncoded = true
	return v
}

// Name returns the variable name.
func (v Variable) Name() string { return v.name }

// Modifier returns the variable modifier.
func (v Variable) Modifier() Modifier { return v.mod }

// Exploded reports whether the explode ("*") flag is set.
func (v Variable) Exploded() bool { return v.explode }

// PrefixLen returns the prefix length and whether one is set.
func (v Variable) PrefixLen() (int, bool) { return v.prefix, v.prefix > 0 }

// IsPreEncoded reports whether the variable value bypasses percent-encoding.
func (v Variable) IsPreEncoded() bool { return v.preEncoded }

// writeVarspec writes the varspec form without surrounding braces or operator:
// name followed by "*" or ":n".
func (v Variable) writeVarspec(sb *strings.Builder) {
	sb.WriteString(v.name)
	switch {
	case v.explode:
		sb.WriteByte('*')
	case v.prefix > 0:
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(v.prefix))
	}
}

// String renders the variable as a standalone template expression, e.g.
// "{?name*}". Builder-only modifiers render without an operator character.
func (v Variable) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	if op := v.mod.operator(); op != 0 {
		sb.WriteByte(op)
	}
	v.writeVarspec(&sb)
	sb.WriteByte('}')
	return sb.String()
}

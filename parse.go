package uritemplate

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ivan-gammel/uritemplate/internal/constraints"
)

// Parse tokenizes a template into an ordered sequence of literal runs and
// variable expressions. Parsing is a pure lexical pass: it performs no
// substitution and no percent-encoding, and may be re-run on the same input
// any number of times.
//
// Malformed syntax is reported as [ErrMalformedTemplate] with the byte offset
// of the offending character.
func Parse[T constraints.Byteseq](src T) ([]Token, error) {
	s := string(src)

	var toks []Token
	for i := 0; i < len(s); {
		if s[i] != '{' {
			j := strings.IndexByte(s[i:], '{')
			if j < 0 {
				toks = append(toks, Literal(s[i:]))
				break
			}
			if j > 0 {
				toks = append(toks, Literal(s[i:i+j]))
			}
			i += j
			continue
		}
		expr, next, err := parseExpression(s, i)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		toks = append(toks, expr)
		i = next
	}
	return toks, nil
}

func parseExpression(s string, start int) (Expression, int, error) {
	var expr Expression

	i := start + 1
	if i >= len(s) {
		return expr, 0, errtrace.Wrap(newMalformedTemplateErr(start, "unterminated expression"))
	}
	if mod, ok := modifierForOperator(s[i]); ok {
		expr.op = mod
		i++
	}

	for {
		v, next, err := parseVarspec(s, i, expr.op)
		if err != nil {
			return expr, 0, errtrace.Wrap(err)
		}
		expr.vars = append(expr.vars, v)
		i = next

		if i >= len(s) {
			return expr, 0, errtrace.Wrap(newMalformedTemplateErr(start, "unterminated expression"))
		}
		switch s[i] {
		case ',':
			i++
		case '}':
			return expr, i + 1, nil
		default:
			return expr, 0, errtrace.Wrap(newMalformedTemplateErr(i, "unexpected character %q in expression", s[i]))
		}
	}
}

func parseVarspec(s string, start int, mod Modifier) (Variable, int, error) {
	var v Variable

	i := start
	for i < len(s) {
		c := s[i]
		switch {
		case isVarnameChar(c):
			i++
		case c == '%':
			if i+2 >= len(s) || !isHexChar(s[i+1]) || !isHexChar(s[i+2]) {
				return v, 0, errtrace.Wrap(newMalformedTemplateErr(i, "invalid percent-encoding in variable name"))
			}
			i += 3
		default:
			goto name
		}
	}
name:
	if i == start {
		return v, 0, errtrace.Wrap(newMalformedTemplateErr(start, "empty variable name"))
	}
	v = Variable{name: s[start:i], mod: mod}

	if i < len(s) {
		switch s[i] {
		case '*':
			v.explode = true
			i++
		case ':':
			n, next, err := parsePrefixLen(s, i+1)
			if err != nil {
				return v, 0, errtrace.Wrap(err)
			}
			v.prefix = n
			i = next
		}
	}
	// a second modifier after "*" or ":n" falls through to the group loop,
	// which rejects it as an unexpected character
	return v, i, nil
}

// parsePrefixLen parses the max-length rule: a positive integer 1..9999
// without leading zeros.
func parsePrefixLen(s string, start int) (int, int, error) {
	i := start
	if i >= len(s) || s[i] < '1' || s[i] > '9' {
		return 0, 0, errtrace.Wrap(newMalformedTemplateErr(start, "prefix length must start with a non-zero digit"))
	}
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if i-start >= 4 {
			return 0, 0, errtrace.Wrap(newMalformedTemplateErr(start, "prefix length exceeds 9999"))
		}
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, i, nil
}

func isVarnameChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '_' || c == '.' || c == '-'
}

func isHexChar(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

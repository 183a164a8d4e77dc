package uritemplate

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ivan-gammel/uritemplate/internal/grammar"
	"github.com/ivan-gammel/uritemplate/internal/stringutils"
)

// opInfo captures the per-operator expansion rules of RFC 6570.
type opInfo struct {
	first       byte // separator before the first expanded element, 0 = none
	sep         byte // separator between expanded elements
	named       bool // elements are name=value pairs
	reserved    bool // reserved characters stay unencoded
	omitEmptyEq bool // named pair with empty value renders as bare name
}

func operatorInfo(m Modifier) opInfo {
	switch m {
	case ModReserved:
		return opInfo{first: 0, sep: ',', reserved: true}
	case ModFragment:
		return opInfo{first: '#', sep: ',', reserved: true}
	case ModLabel:
		return opInfo{first: '.', sep: '.'}
	case ModPath:
		return opInfo{first: '/', sep: '/'}
	case ModPathParam:
		return opInfo{first: ';', sep: ';', named: true, omitEmptyEq: true}
	case ModQueryStart:
		return opInfo{first: '?', sep: '&', named: true}
	case ModQuery:
		return opInfo{first: '&', sep: '&', named: true}
	case ModColon:
		return opInfo{first: ':', sep: ':'}
	default:
		return opInfo{first: 0, sep: ','}
	}
}

// expandString expands all resolvable variables of s against p, re-serializing
// unresolved groups as residual template syntax. A string without expressions
// is returned unchanged.
func expandString(s string, p Params) (string, error) {
	if strings.IndexByte(s, '{') < 0 {
		return s, nil
	}

	toks, err := Parse(s)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)

	for _, tok := range toks {
		switch tok := tok.(type) {
		case Literal:
			sb.WriteString(grammar.EscapeReserved(string(tok)))
		case Expression:
			if err := expandExpression(sb, tok, p); err != nil {
				return "", errtrace.Wrap(err)
			}
		}
	}
	return sb.String(), nil
}

func expandExpression(sb *strings.Builder, expr Expression, p Params) error {
	info := operatorInfo(expr.op)

	var (
		elems    []string
		residual []Variable
	)
	for _, v := range expr.vars {
		val, ok := p.Lookup(v.name)
		if !ok {
			residual = append(residual, v)
			continue
		}
		if val.kind == valueInvalid {
			return errtrace.Wrap(newUnsupportedValueErr(val.err))
		}
		elems = append(elems, expandVariable(info, v, val)...)
	}

	if len(elems) > 0 {
		if info.first != 0 {
			sb.WriteByte(info.first)
		}
		for i, e := range elems {
			if i > 0 {
				sb.WriteByte(info.sep)
			}
			sb.WriteString(e)
		}
	}

	if len(residual) > 0 {
		op := expr.op
		if op == ModQueryStart && len(elems) > 0 {
			// a non-empty query now precedes the residual group
			op = ModQuery
		}
		Expression{op: op, vars: residual}.write(sb, op)
	}
	return nil
}

// expandVariable expands one varspec into zero or more separator-joined
// elements.
func expandVariable(info opInfo, v Variable, val Value) []string {
	enc := func(s string) string {
		switch {
		case v.preEncoded:
			return s
		case info.reserved:
			return grammar.EscapeReserved(s)
		default:
			return grammar.EscapeValue(s)
		}
	}
	pair := func(s string) string {
		if s == "" && info.omitEmptyEq {
			return v.name
		}
		return v.name + "=" + s
	}

	switch val.kind {
	case valueScalar:
		s := val.scalar
		if n, ok := v.PrefixLen(); ok {
			s = truncateRunes(s, n)
		}
		if info.named {
			return []string{pair(enc(s))}
		}
		return []string{enc(s)}

	case valueList:
		if len(val.list) == 0 {
			return nil
		}
		// named operators always repeat the pair per element, so a list
		// under "?" renders name=a&name=b whether or not it is exploded
		if v.explode || info.named {
			elems := make([]string, 0, len(val.list))
			for _, item := range val.list {
				if info.named {
					elems = append(elems, pair(enc(item)))
				} else {
					elems = append(elems, enc(item))
				}
			}
			return elems
		}
		parts := make([]string, len(val.list))
		for i, item := range val.list {
			parts[i] = enc(item)
		}
		return []string{strings.Join(parts, ",")}

	case valueAssoc:
		if len(val.pairs) == 0 {
			return nil
		}
		if v.explode {
			elems := make([]string, 0, len(val.pairs))
			for _, kv := range val.pairs {
				elems = append(elems, enc(kv[0])+"="+enc(kv[1]))
			}
			return elems
		}
		flat := make([]string, 0, 2*len(val.pairs))
		for _, kv := range val.pairs {
			flat = append(flat, enc(kv[0]), enc(kv[1]))
		}
		joined := strings.Join(flat, ",")
		if info.named {
			return []string{v.name + "=" + joined}
		}
		return []string{joined}

	default:
		return nil
	}
}

func truncateRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

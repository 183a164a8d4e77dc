package uritemplate

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ivan-gammel/uritemplate/internal/constraints"
	"github.com/ivan-gammel/uritemplate/internal/stringutils"
)

// Token is one element of a parsed template: either a [Literal] text run or a
// variable [Expression]. Rendering an untouched token sequence reproduces the
// original template byte for byte.
type Token interface {
	// String renders the token back to template syntax.
	String() string

	isToken()
}

// Literal is a run of literal template text between expressions.
type Literal string

func (Literal) isToken() {}

// String returns the literal text unchanged.
func (l Literal) String() string { return string(l) }

// Expression is one {...} group: an operator shared by an ordered list of
// varspecs.
type Expression struct {
	vars []Variable
	op   Modifier
}

func (Expression) isToken() {}

// Operator returns the group operator modifier.
func (e Expression) Operator() Modifier { return e.op }

// Variables returns the group varspecs in written order.
func (e Expression) Variables() []Variable {
	vars := make([]Variable, len(e.vars))
	copy(vars, e.vars)
	return vars
}

// String renders the expression back to template syntax.
func (e Expression) String() string {
	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)
	e.write(sb, e.op)
	return sb.String()
}

// write renders the expression with the given operator, which may differ from
// the written one when a partially expanded group is re-serialized.
func (e Expression) write(sb *strings.Builder, op Modifier) {
	sb.WriteByte('{')
	if c := op.operator(); c != 0 {
		sb.WriteByte(c)
	}
	for i, v := range e.vars {
		if i > 0 {
			sb.WriteByte(',')
		}
		v.writeVarspec(sb)
	}
	sb.WriteByte('}')
}

// Visitor receives parse events in template order. It is the push-style
// counterpart of [Parse] for callers that collect variables without keeping an
// intermediate token slice.
type Visitor interface {
	VisitLiteral(text string)
	VisitExpression(expr Expression)
}

// Visit parses src and drives the visitor with each token in order.
func Visit[T constraints.Byteseq](src T, v Visitor) error {
	toks, err := Parse(src)
	if err != nil {
		return errtrace.Wrap(err)
	}
	for _, tok := range toks {
		switch tok := tok.(type) {
		case Literal:
			v.VisitLiteral(string(tok))
		case Expression:
			v.VisitExpression(tok)
		}
	}
	return nil
}

package uritemplate

import (
	"fmt"
	"iter"
	"net/url"
	"strings"

	"braces.dev/errtrace"

	"github.com/ivan-gammel/uritemplate/internal/errorutil"
)

// Template is an immutable URI template string in RFC 6570 syntax. Every
// expansion step returns a new Template, so a partially expanded value can be
// shared, stored and expanded further without affecting the original.
//
// The zero Template is the empty, fully expanded template.
type Template struct {
	value    string
	expanded bool
}

// New creates a template from its string form. The input is not validated:
// malformed syntax surfaces as [ErrMalformedTemplate] from the first expansion
// or [Variables] walk.
func New(value string) Template {
	return Template{value: value, expanded: strings.IndexByte(value, '{') < 0}
}

// String returns the template in its current expansion state.
func (t Template) String() string { return t.value }

// IsExpanded reports whether no unresolved variables remain.
func (t Template) IsExpanded() bool { return t.expanded }

// Expand substitutes every variable resolvable through p and returns the
// resulting template. Unresolved variables are preserved as residual template
// syntax, so expansion can proceed in several passes. Expanding an already
// fully expanded template returns it unchanged.
func (t Template) Expand(p Params) (Template, error) {
	if t.expanded {
		return t, nil
	}
	out, err := expandString(t.value, p)
	if err != nil {
		return Template{}, errtrace.Wrap(err)
	}
	logger().Debug("template expanded", "template", t.value, "result", out)
	return New(out), nil
}

// ExpandValue expands with a single name bound to value.
func (t Template) ExpandValue(name string, value any) (Template, error) {
	return errtrace.Wrap2(t.Expand(Single(name, value)))
}

// ExpandMap expands with the bindings of m. Names absent from m stay in the
// template as residual syntax.
func (t Template) ExpandMap(m map[string]any) (Template, error) {
	return errtrace.Wrap2(t.Expand(Map(m)))
}

// ExpandArgs expands with a positional list of alternating names and values,
// see [Args].
func (t Template) ExpandArgs(args ...any) (Template, error) {
	return errtrace.Wrap2(t.Expand(Args(args...)))
}

// ExpandOnly expands with the bindings of m and removes every variable m does
// not bind. The result is always fully expanded.
func (t Template) ExpandOnly(m map[string]any) (Template, error) {
	return errtrace.Wrap2(t.Expand(DiscardMissing(Map(m))))
}

// Discard removes the named variables from the template without substituting
// a value, as if each were bound to an empty list.
func (t Template) Discard(names ...string) (Template, error) {
	m := make(map[string]any, len(names))
	for _, n := range names {
		m[n] = nil
	}
	return errtrace.Wrap2(t.Expand(Map(m)))
}

// Variables iterates over the unresolved variables in template order. A
// variable listed in several expressions is yielded once per occurrence.
// Malformed syntax ends the iteration early.
func (t Template) Variables() iter.Seq[Variable] {
	return func(yield func(Variable) bool) {
		if t.expanded {
			return
		}
		toks, err := Parse(t.value)
		if err != nil {
			return
		}
		for _, tok := range toks {
			expr, ok := tok.(Expression)
			if !ok {
				continue
			}
			for _, v := range expr.vars {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// URI converts the fully expanded template into a parsed URL. It fails with
// [ErrNotExpanded] while unresolved variables remain and with [ErrInvalidURI]
// when the expanded string does not parse.
func (t Template) URI() (*url.URL, error) {
	if !t.expanded {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrNotExpanded, t.value))
	}
	u, err := url.Parse(t.value)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidURI, err))
	}
	return u, nil
}

// ToBuilder converts the fully expanded template into a [Builder] based on the
// parsed URI, ready for further incremental construction.
func (t Template) ToBuilder() (*Builder, error) {
	u, err := t.URI()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return BasedOnURL(u), nil
}

// MarshalText implements [encoding.TextMarshaler].
func (t Template) MarshalText() ([]byte, error) {
	return []byte(t.value), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *Template) UnmarshalText(data []byte) error {
	*t = New(string(data))
	return nil
}

// Format implements [fmt.Formatter].
func (t Template) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprintf(f, "%q", t.value)
	default:
		fmt.Fprint(f, t.value)
	}
}

package uritemplate

import (
	"net/url"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ivan-gammel/uritemplate/internal/errorutil"
	"github.com/ivan-gammel/uritemplate/internal/grammar"
	"github.com/ivan-gammel/uritemplate/internal/stringutils"
)

// Raw marks a string that is already percent-encoded. The builder splices it
// into a component as is, and finalization keeps existing percent-triplets
// untouched.
type Raw string

type component uint8

const (
	compSSP component = iota
	compHost
	compPath
	compQuery
	compFragment
)

// Builder assembles a URI or a URI template incrementally. Each component
// keeps two buffers, the base content inherited from the URI the builder was
// created from and the content appended afterwards, merged only at
// finalization.
//
// A builder is either hierarchical (authority, path, query) or opaque (a
// scheme-specific part); operations of the other shape fail. The first failed
// operation makes the builder sticky-failed: later operations are ignored and
// [Builder.Err] and the finalizers report the error.
//
// Builder is not safe for concurrent use.
type Builder struct {
	err error

	scheme   string
	userInfo string

	ssp         string
	appendedSSP string

	host         string
	appendedHost string
	authority    string

	port         int
	portTemplate string

	path         string
	appendedPath string

	query         string
	appendedQuery string

	fragment         string
	appendedFragment string

	opaque bool
	// noAuthority suppresses the "//" prefix after a server template has
	// replaced the whole authority.
	noAuthority bool
	// template is set as soon as any appended content contains a variable.
	template bool
}

// NewBuilder creates a hierarchical builder with the given scheme, host and
// port. A negative port means no explicit port.
func NewBuilder(scheme, host string, port int) *Builder {
	return &Builder{scheme: scheme, host: host, port: port}
}

// NewHierarchical creates an empty hierarchical builder with the given scheme.
func NewHierarchical(scheme string) *Builder {
	return &Builder{scheme: scheme, port: -1}
}

// NewOpaque creates an opaque builder with the given scheme.
func NewOpaque(scheme string) *Builder {
	return &Builder{scheme: scheme, opaque: true, port: -1}
}

// BasedOn creates a builder from a URI string, see [BasedOnURL].
func BasedOn(s string) (*Builder, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidURI, err))
	}
	return BasedOnURL(u), nil
}

// BasedOnURL creates a builder whose component base buffers are populated from
// u. The components keep their raw encoded form, so a round trip through the
// builder does not re-encode them.
func BasedOnURL(u *url.URL) *Builder {
	b := &Builder{
		scheme:   u.Scheme,
		fragment: u.EscapedFragment(),
		port:     -1,
	}
	if u.Opaque != "" {
		b.opaque = true
		b.ssp = u.Opaque
		if u.RawQuery != "" {
			b.ssp += "?" + u.RawQuery
		}
		return b
	}
	if u.User != nil {
		b.userInfo = u.User.String()
	}
	b.host = u.Hostname()
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			b.port = n
		}
	}
	b.path = u.EscapedPath()
	b.query = u.RawQuery
	b.authority = u.Host
	return b
}

// Err returns the first usage error recorded on the builder, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) failOpaque(op string) *Builder {
	return b.fail(errorutil.NewWrapperError(ErrOpaqueViolation,
		"%s is not applicable to an opaque URI", op)) //errtrace:skip
}

func (b *Builder) failHierarchical(op string) *Builder {
	return b.fail(errorutil.NewWrapperError(ErrOpaqueViolation,
		"%s is not applicable to a hierarchical URI", op)) //errtrace:skip
}

// SetScheme replaces the scheme.
func (b *Builder) SetScheme(scheme string) *Builder {
	b.scheme = scheme
	return b
}

// SetSchemeVar replaces the scheme with a template variable.
func (b *Builder) SetSchemeVar(v Variable) *Builder {
	b.scheme = v.String()
	b.template = true
	return b
}

// SetUserInfo replaces the userinfo component.
func (b *Builder) SetUserInfo(info string) *Builder {
	if b.opaque {
		return b.failOpaque("user info")
	}
	b.userInfo = info
	return b
}

// SetUserPassword replaces the userinfo component with "user:password".
func (b *Builder) SetUserPassword(user, password string) *Builder {
	return b.SetUserInfo(user + ":" + password)
}

// SetHost replaces the base host. Content appended through [Builder.Host] is
// kept.
func (b *Builder) SetHost(host string) *Builder {
	if b.opaque {
		return b.failOpaque("host")
	}
	b.host = host
	return b
}

// SetHostVar replaces the whole host with a template variable.
func (b *Builder) SetHostVar(v Variable) *Builder {
	if b.opaque {
		return b.failOpaque("host")
	}
	b.host = ""
	b.appendedHost = v.String()
	b.template = true
	return b
}

// SetPort replaces the port. A negative value removes it.
func (b *Builder) SetPort(port int) *Builder {
	if b.opaque {
		return b.failOpaque("port")
	}
	b.port = port
	b.portTemplate = ""
	return b
}

// SetPortVar replaces the port with a template variable.
func (b *Builder) SetPortVar(v Variable) *Builder {
	if b.opaque {
		return b.failOpaque("port")
	}
	b.port = -1
	b.portTemplate = v.String()
	b.template = true
	return b
}

// SetPath replaces the base path. Content appended through [Builder.Path] is
// kept.
func (b *Builder) SetPath(path string) *Builder {
	if b.opaque {
		return b.failOpaque("path")
	}
	b.path = path
	return b
}

// SetQuery replaces the base query, without the leading "?".
func (b *Builder) SetQuery(query string) *Builder {
	if b.opaque {
		return b.failOpaque("query")
	}
	b.query = query
	return b
}

// SetFragment replaces the base fragment, without the leading "#".
func (b *Builder) SetFragment(fragment string) *Builder {
	b.fragment = fragment
	return b
}

// SetSSP replaces the base scheme-specific part of an opaque builder.
func (b *Builder) SetSSP(ssp string) *Builder {
	if !b.opaque {
		return b.failHierarchical("scheme-specific part")
	}
	b.ssp = ssp
	return b
}

// Fragment is a write handle for one URI component. Append and Join add
// content to the component's appended buffer and return the builder for
// chaining. The prefix, inserted before the first joined value, and the
// delimiter, inserted between joined values, can each be fixed once; handles
// of components with a canonical prefix or delimiter come pre-configured.
type Fragment struct {
	b      *Builder
	comp   component
	prefix string
	delim  string
}

// Host returns a write handle for the host component, joining with ".".
func (b *Builder) Host() *Fragment {
	if b.opaque {
		b.failOpaque("host")
	}
	return &Fragment{b: b, comp: compHost, delim: "."}
}

// Path returns a write handle for the path component, prefixing and joining
// with "/".
func (b *Builder) Path() *Fragment {
	if b.opaque {
		b.failOpaque("path")
	}
	return &Fragment{b: b, comp: compPath, prefix: "/", delim: "/"}
}

// Query returns a write handle for the query component, joining with "&".
func (b *Builder) Query() *Fragment {
	if b.opaque {
		b.failOpaque("query")
	}
	return &Fragment{b: b, comp: compQuery, delim: "&"}
}

// Fragment returns a write handle for the fragment component.
func (b *Builder) Fragment() *Fragment {
	return &Fragment{b: b, comp: compFragment}
}

// SSP returns a write handle for the scheme-specific part of an opaque
// builder.
func (b *Builder) SSP() *Fragment {
	if !b.opaque {
		b.failHierarchical("scheme-specific part")
	}
	return &Fragment{b: b, comp: compSSP}
}

// Prefix fixes the prefix inserted before the first joined value. It fails
// with [ErrFragmentConfigured] once a prefix is set.
func (f *Fragment) Prefix(prefix string) *Fragment {
	if f.prefix != "" {
		f.b.fail(errorutil.NewWrapperError(ErrFragmentConfigured, "prefix")) //errtrace:skip
		return f
	}
	f.prefix = prefix
	return f
}

// Delimiter fixes the delimiter inserted between joined values. It fails with
// [ErrFragmentConfigured] once a delimiter is set.
func (f *Fragment) Delimiter(delim string) *Fragment {
	if f.delim != "" {
		f.b.fail(errorutil.NewWrapperError(ErrFragmentConfigured, "delimiter")) //errtrace:skip
		return f
	}
	f.delim = delim
	return f
}

// Append adds the values to the component verbatim, without prefix or
// delimiter.
func (f *Fragment) Append(values ...any) *Builder {
	for _, v := range values {
		s, err := f.b.stringify(v)
		if err != nil {
			return f.b.fail(err)
		}
		f.b.appendTo(f.comp, s)
	}
	return f.b
}

// Join adds the values to the component with the configured prefix before the
// first one and the delimiter between them.
func (f *Fragment) Join(values ...any) *Builder {
	sep := f.prefix
	for _, v := range values {
		s, err := f.b.stringify(v)
		if err != nil {
			return f.b.fail(err)
		}
		if sep != "" {
			f.b.appendTo(f.comp, sep)
		}
		f.b.appendTo(f.comp, s)
		sep = f.delim
	}
	return f.b
}

// stringify converts one builder input value to its appended string form.
// A [Variable] renders as template syntax and flips the builder into template
// mode.
func (b *Builder) stringify(v any) (string, error) {
	switch v := v.(type) {
	case Variable:
		b.template = true
		if v.preEncoded && v.mod == ModNone {
			// render with the reserved operator so the substituted value
			// splices in without re-encoding
			v.mod = ModReserved
		}
		return v.String(), nil
	case Raw:
		return string(v), nil
	default:
		return errtrace.Wrap2(scalarOf(v))
	}
}

func (b *Builder) appendTo(comp component, s string) {
	switch comp {
	case compSSP:
		b.appendedSSP += s
	case compHost:
		b.appendedHost += s
	case compPath:
		b.appendedPath += s
	case compQuery:
		b.appendedQuery += s
	case compFragment:
		b.appendedFragment += s
	}
}

// lastSegment returns the handle of the last non-empty component, probing
// fragment, query, path and host in that order. It is where a positionally
// appended variable lands.
func (b *Builder) lastSegment() *Fragment {
	switch {
	case b.opaque:
		return b.SSP()
	case b.appendedFragment != "" || b.fragment != "":
		return b.Fragment()
	case b.appendedQuery != "" || b.query != "":
		return b.Query()
	case b.appendedPath != "" || b.path != "":
		return b.Path()
	default:
		return b.Host()
	}
}

// Append adds a template variable to the component selected by its modifier.
// Component-routing modifiers pick the target explicitly; RFC 6570 query and
// fragment operators imply their component; everything else lands on the last
// non-empty component.
func (b *Builder) Append(v Variable) *Builder {
	switch v.mod {
	case ModDomain:
		return b.Host().Append(v)
	case ModPath, ModPathComponent:
		return b.Path().Append(v)
	case ModQueryStart, ModQuery, ModQueryComponent:
		return b.Query().Append(v)
	case ModFragment, ModFragmentComponent:
		return b.Fragment().Append(v)
	default:
		return b.lastSegment().Append(v)
	}
}

// Relative appends path segments, each prefixed with "/".
func (b *Builder) Relative(segments ...any) *Builder {
	if b.opaque {
		return b.failOpaque("relative path")
	}
	return b.Path().Join(segments...)
}

// QueryParam appends one query parameter with the given values, rendered as
// repeated name=value pairs joined with "&".
func (b *Builder) QueryParam(name string, values ...any) *Builder {
	if b.opaque {
		return b.failOpaque("query parameter")
	}
	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)
	if b.appendedQuery != "" {
		sb.WriteString(b.appendedQuery)
		sb.WriteByte('&')
	}
	for i, v := range values {
		s, err := b.stringify(v)
		if err != nil {
			return b.fail(err)
		}
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(s)
	}
	b.appendedQuery = sb.String()
	return b
}

// Server replaces the whole authority, scheme included, with a single
// template variable. The variable expands in reserved mode so that a value
// like "https://api.example.com" splices in unencoded, which makes the result
// a base URI the remaining path is resolved against.
func (b *Builder) Server(v Variable) *Builder {
	if b.opaque {
		return b.failOpaque("server")
	}
	if v.mod == ModNone || v.mod == ModDomain {
		v.mod = ModReserved
	}
	b.scheme = ""
	b.userInfo = ""
	b.authority = ""
	b.host = ""
	b.appendedHost = v.String()
	b.port = -1
	b.portTemplate = ""
	b.noAuthority = true
	b.template = true
	return b
}

// Resolve resolves a relative reference against the builder's current content
// by concatenation, returning the combined template.
func (b *Builder) Resolve(ref string) (Template, error) {
	if b.err != nil {
		return Template{}, errtrace.Wrap(b.err)
	}
	return New(b.decodedString() + ref), nil
}

// Template finalizes the builder into a [Template]. Base component content is
// percent-encoded conservatively, keeping only the "&", "=" and "/"
// delimiters literal, while appended content, template syntax included, is
// spliced verbatim.
func (b *Builder) Template() (Template, error) {
	if b.err != nil {
		return Template{}, errtrace.Wrap(b.err)
	}
	s := b.decodedString()
	logger().Debug("builder finalized as template", "template", s)
	return New(s), nil
}

// URI finalizes the builder into a parsed URL, percent-encoding each merged
// component with its own safe character set and normalizing dot segments in
// the path. It fails with [ErrNotExpanded] while the builder holds template
// variables and with [ErrInvalidURI] when the assembled string does not parse.
func (b *Builder) URI() (*url.URL, error) {
	if b.err != nil {
		return nil, errtrace.Wrap(b.err)
	}
	if b.template {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrNotExpanded, b.decodedString()))
	}

	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)

	if b.scheme != "" {
		sb.WriteString(b.scheme)
		sb.WriteByte(':')
	}
	if b.opaque {
		ssp := mergeRaw(b.ssp, b.appendedSSP, "")
		sb.WriteString(grammar.Escape(ssp, func(c byte) bool { return !grammar.IsQuerySafeChar(c) }))
	} else {
		host := mergeRaw(b.host, b.appendedHost, "")
		switch {
		case host != "":
			sb.WriteString("//")
			if b.userInfo != "" {
				sb.WriteString(grammar.Escape(b.userInfo, func(c byte) bool { return !grammar.IsUserinfoSafeChar(c) }))
				sb.WriteByte('@')
			}
			writeHost(sb, grammar.Escape(host, func(c byte) bool { return !grammar.IsHostSafeChar(c) }))
			if b.port >= 0 {
				sb.WriteByte(':')
				sb.WriteString(strconv.Itoa(b.port))
			}
		case b.authority != "":
			sb.WriteString("//")
			sb.WriteString(b.authority)
		}
		path := mergeRaw(b.path, b.appendedPath, "")
		sb.WriteString(normalizePath(grammar.Escape(path, func(c byte) bool { return !grammar.IsPathSafeChar(c) })))
		if query := mergeRaw(b.query, b.appendedQuery, "&"); query != "" {
			sb.WriteByte('?')
			sb.WriteString(grammar.Escape(query, func(c byte) bool { return !grammar.IsQuerySafeChar(c) }))
		}
	}
	if frag := mergeRaw(b.fragment, b.appendedFragment, ""); frag != "" {
		sb.WriteByte('#')
		sb.WriteString(grammar.Escape(frag, func(c byte) bool { return !grammar.IsQuerySafeChar(c) }))
	}

	s := sb.String()
	u, err := url.Parse(s)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidURI, err))
	}
	logger().Debug("builder finalized as URI", "uri", u)
	return u, nil
}

// String renders the builder's current content as a template string, usage
// errors notwithstanding.
func (b *Builder) String() string {
	return b.decodedString()
}

// decodedString assembles the template form: base content is re-encoded
// conservatively, appended content is trusted as written.
func (b *Builder) decodedString() string {
	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)

	if b.scheme != "" {
		sb.WriteString(b.scheme)
		sb.WriteByte(':')
	}
	if b.opaque {
		sb.WriteString(mergeEscaped(b.ssp, b.appendedSSP, ""))
	} else {
		host := mergeEscaped(b.host, b.appendedHost, "")
		switch {
		case b.noAuthority:
			sb.WriteString(host)
		case host != "":
			sb.WriteString("//")
			if b.userInfo != "" {
				sb.WriteString(b.userInfo)
				sb.WriteByte('@')
			}
			writeHost(sb, host)
			switch {
			case b.port >= 0:
				sb.WriteByte(':')
				sb.WriteString(strconv.Itoa(b.port))
			case b.portTemplate != "":
				sb.WriteByte(':')
				sb.WriteString(b.portTemplate)
			}
		case b.authority != "":
			sb.WriteString("//")
			sb.WriteString(b.authority)
		}
		sb.WriteString(mergeEscaped(b.path, b.appendedPath, ""))
		if query := mergeEscaped(b.query, b.appendedQuery, "&"); query != "" {
			// a {?...} group supplies its own "?" on expansion
			if !strings.HasPrefix(query, "{?") {
				sb.WriteByte('?')
			}
			sb.WriteString(query)
		}
	}
	if frag := mergeEscaped(b.fragment, b.appendedFragment, ""); frag != "" {
		if !strings.HasPrefix(frag, "{#") {
			sb.WriteByte('#')
		}
		sb.WriteString(frag)
	}
	return sb.String()
}

// writeHost writes a host, wrapping a bare IPv6 address in brackets.
func writeHost(sb *strings.Builder, host string) {
	if strings.IndexByte(host, ':') >= 0 &&
		!strings.HasPrefix(host, "[") && !strings.HasSuffix(host, "]") {
		sb.WriteByte('[')
		sb.WriteString(host)
		sb.WriteByte(']')
		return
	}
	sb.WriteString(host)
}

func mergeRaw(base, appended, delim string) string {
	switch {
	case base == "":
		return appended
	case appended == "":
		return base
	default:
		return base + delim + appended
	}
}

func mergeEscaped(base, appended, delim string) string {
	if base == "" {
		return appended
	}
	merged := grammar.Escape(base, func(c byte) bool { return !grammar.IsMergeSafeChar(c) })
	if appended == "" {
		return merged
	}
	return merged + delim + appended
}

// normalizePath removes "." and ".." segments while preserving a trailing
// slash and the distinction between absolute and relative paths.
func normalizePath(p string) string {
	if p == "" || !strings.Contains(p, "/.") && !strings.HasPrefix(p, "./") && !strings.HasPrefix(p, "../") {
		return p
	}
	var out []string
	segs := strings.Split(p, "/")
	for _, seg := range segs {
		switch seg {
		case ".":
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else if !strings.HasPrefix(p, "/") {
				out = append(out, seg)
			}
		default:
			out = append(out, seg)
		}
	}
	res := strings.Join(out, "/")
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(res, "/") {
		res = "/" + res
	}
	if (strings.HasSuffix(p, "/") || strings.HasSuffix(p, "/.") || strings.HasSuffix(p, "/..")) &&
		!strings.HasSuffix(res, "/") {
		res += "/"
	}
	return res
}

// Package grammar provides RFC 3986 character classes and percent-encoding
// primitives used by the template expansion engine and the URI builder.
package grammar

import (
	"bytes"

	"github.com/ivan-gammel/uritemplate/internal/constraints"
)

// Unescape unescapes s by converting each 3-byte encoded substring of the form
// "% HEXDIG HEXDIG" into the hex-decoded byte.
func Unescape[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// Escape escapes s by replacing each char matched by shouldEscape callback to
// the hex form "% HEXDIG HEXDIG". Valid percent-encoded triplets already
// present in s pass through untouched, so escaping is idempotent.
func Escape[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsCharUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			b.WriteByte(s[i+2])
			i += 2
		case shouldEscape(s[i]):
			b.WriteByte('%')
			b.WriteByte(upperhex[s[i]>>4])
			b.WriteByte(upperhex[s[i]&15])
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

const upperhex = "0123456789ABCDEF"

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// IsAlphanumChar checks the ALPHA / DIGIT rule.
func IsAlphanumChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// IsCharUnreserved checks the RFC 3986 unreserved rule:
// ALPHA / DIGIT / "-" / "." / "_" / "~".
func IsCharUnreserved(c byte) bool {
	return IsAlphanumChar(c) || c == '-' || c == '.' || c == '_' || c == '~'
}

var reservedChars = map[byte]bool{
	// gen-delims
	':': true, '/': true, '?': true, '#': true, '[': true, ']': true, '@': true,
	// sub-delims
	'!': true, '$': true, '&': true, '\'': true, '(': true, ')': true,
	'*': true, '+': true, ',': true, ';': true, '=': true,
}

// IsCharReserved checks the RFC 3986 reserved rule (gen-delims / sub-delims).
func IsCharReserved(c byte) bool {
	return reservedChars[c]
}

// EscapeValue escapes an expansion value with only unreserved characters kept,
// the conservative mode used by the simple, label, path, path-param and query
// operators.
func EscapeValue[T constraints.Byteseq](s T) T {
	return Escape(s, func(c byte) bool { return !IsCharUnreserved(c) })
}

// EscapeReserved escapes an expansion value in reserved-safe mode, the mode of
// the "+" and "#" operators and of literal template text: unreserved and
// reserved characters stay as is.
func EscapeReserved[T constraints.Byteseq](s T) T {
	return Escape(s, func(c byte) bool { return !IsCharUnreserved(c) && !IsCharReserved(c) })
}

var pathSafeChars = map[byte]bool{
	'!': true, '$': true, '&': true, '\'': true, '(': true, ')': true,
	'*': true, '+': true, ',': true, ';': true, '=': true,
	':': true, '@': true, '/': true,
}

// IsPathSafeChar reports whether c may appear verbatim in a URI path:
// pchar / "/".
func IsPathSafeChar(c byte) bool {
	return IsCharUnreserved(c) || pathSafeChars[c]
}

var querySafeChars = map[byte]bool{
	'!': true, '$': true, '&': true, '\'': true, '(': true, ')': true,
	'*': true, '+': true, ',': true, ';': true, '=': true,
	':': true, '@': true, '/': true, '?': true, '[': true, ']': true,
}

// IsQuerySafeChar reports whether c may appear verbatim in a URI query or
// fragment: pchar / "/" / "?". The "#" delimiter is never safe.
func IsQuerySafeChar(c byte) bool {
	return IsCharUnreserved(c) || querySafeChars[c]
}

var hostSafeChars = map[byte]bool{
	'!': true, '$': true, '&': true, '\'': true, '(': true, ')': true,
	'*': true, '+': true, ',': true, ';': true, '=': true,
	'[': true, ']': true, ':': true,
}

// IsHostSafeChar reports whether c may appear verbatim in a URI host:
// unreserved / sub-delims, plus the IP-literal brackets and colon.
func IsHostSafeChar(c byte) bool {
	return IsCharUnreserved(c) || hostSafeChars[c]
}

var userinfoSafeChars = map[byte]bool{
	'!': true, '$': true, '&': true, '\'': true, '(': true, ')': true,
	'*': true, '+': true, ',': true, ';': true, '=': true, ':': true,
}

// IsUserinfoSafeChar reports whether c may appear verbatim in the userinfo
// component: unreserved / sub-delims / ":".
func IsUserinfoSafeChar(c byte) bool {
	return IsCharUnreserved(c) || userinfoSafeChars[c]
}

// IsMergeSafeChar reports whether c survives the decoded-template merge of
// literal component content unescaped. The component delimiters "&", "=" and
// "/" stay literal so that already-assembled query pairs and path segments
// keep their structure.
func IsMergeSafeChar(c byte) bool {
	return IsCharUnreserved(c) || c == '&' || c == '=' || c == '/'
}

package grammar_test

import (
	"testing"

	"github.com/ivan-gammel/uritemplate/internal/grammar"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		cb   func(byte) bool
		want string
	}{
		{"empty", "", nil, ""},
		{"no escape", "abc-%2Bqwe~", nil, "abc-%2Bqwe~"},
		{"escape all", "a b{c}", nil, "a%20b%7Bc%7D"},
		{"pct passthrough", "100%25+1%", nil, "100%25%2B1%25"},
		{
			"escape some",
			"a/b?c",
			func(c byte) bool { return c != '/' && !grammar.IsCharUnreserved(c) },
			"a/b%3Fc",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Escape(c.str, c.cb), c.want; got != want {
				t.Errorf("grammar.Escape(%q, %p) = %q, want %q", c.str, c.cb, got, want)
			}
		})
	}
}

func TestEscapeReserved(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"reserved kept", "http://ex.com/a?b=c#d", "http://ex.com/a?b=c#d"},
		{"space escaped", "hello world!", "hello%20world!"},
		{"braces escaped", "{name}", "%7Bname%7D"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.EscapeReserved(c.str), c.want; got != want {
				t.Errorf("grammar.EscapeReserved(%q) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"no unescape", "abc%ax%", "abc%ax%"},
		{"unescape all", "abc%E4%B8%96", "abc世"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Unescape(c.str), c.want; got != want {
				t.Errorf("grammar.Unescape(%q) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestComponentSafeSets(t *testing.T) {
	t.Parallel()

	if grammar.IsPathSafeChar('{') {
		t.Error("IsPathSafeChar('{') = true, want false")
	}
	if !grammar.IsPathSafeChar('/') {
		t.Error("IsPathSafeChar('/') = false, want true")
	}
	if grammar.IsQuerySafeChar('#') {
		t.Error("IsQuerySafeChar('#') = true, want false")
	}
	if !grammar.IsQuerySafeChar('$') {
		t.Error("IsQuerySafeChar('$') = false, want true")
	}
	if !grammar.IsHostSafeChar(':') {
		t.Error("IsHostSafeChar(':') = false, want true")
	}
	if grammar.IsMergeSafeChar('?') {
		t.Error("IsMergeSafeChar('?') = true, want false")
	}
}

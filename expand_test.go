package uritemplate_test

import (
	"errors"
	"testing"

	"github.com/ivan-gammel/uritemplate"
)

// RFC 6570 composite value fixtures shared by the operator cases.
var expandParams = map[string]any{
	"var":   "value",
	"hello": "Hello World!",
	"path":  "/foo/bar",
	"x":     1024,
	"y":     768,
	"empty": "",
	"list":  []string{"red", "green", "blue"},
	"keys":  map[string]string{"semi": ";", "dot": ".", "comma": ","},
}

func TestTemplateExpand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		template string
		want     string
	}{
		{"simple", "{var}", "value"},
		{"simple encodes reserved", "{hello}", "Hello%20World%21"},
		{"simple list", "{list}", "red,green,blue"},
		{"simple list explode", "{list*}", "red,green,blue"},
		{"simple map", "{keys}", "comma,%2C,dot,.,semi,%3B"},
		{"simple map explode", "{keys*}", "comma=%2C,dot=.,semi=%3B"},
		{"prefix", "{var:3}", "val"},
		{"prefix beyond length", "{var:30}", "value"},

		{"reserved", "{+path}/here", "/foo/bar/here"},
		{"reserved keeps punctuation", "{+hello}", "Hello%20World!"},

		{"fragment", "X{#var}", "X#value"},
		{"fragment reserved", "{#path}", "#/foo/bar"},

		{"label", "X{.var}", "X.value"},
		{"label list explode", "X{.list*}", "X.red.green.blue"},

		{"path segments", "{/var,empty}", "/value/"},
		{"path encodes slash", "{/path}", "/%2Ffoo%2Fbar"},
		{"path list explode", "{/list*}", "/red/green/blue"},

		{"path-style params", "{;x,y}", ";x=1024;y=768"},
		{"path-style empty omits equals", "{;empty}", ";empty"},
		{"path-style list explode", "{;list*}", ";list=red;list=green;list=blue"},

		{"query", "{?x,y}", "?x=1024&y=768"},
		{"query empty keeps equals", "{?empty}", "?empty="},
		{"query list repeats the pair", "{?list}", "?list=red&list=green&list=blue"},
		{"query list explode", "{?list*}", "?list=red&list=green&list=blue"},
		{"query map explode", "{?keys*}", "?comma=%2C&dot=.&semi=%3B"},

		{"query continuation", "?fixed=yes{&x}", "?fixed=yes&x=1024"},

		{"colon operator", "rel{:list*}", "rel:red:green:blue"},
		{"colon operator scalar", "rel{:var}", "rel:value"},

		{"literal text is encoded", "http://e.com/a b{?x}", "http://e.com/a%20b?x=1024"},
		{"no template", "http://e.com/plain", "http://e.com/plain"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := uritemplate.New(c.template).ExpandMap(expandParams)
			if err != nil {
				t.Fatalf("ExpandMap(%q) error = %v, want nil", c.template, err)
			}
			if got.String() != c.want {
				t.Errorf("ExpandMap(%q) = %q, want %q", c.template, got.String(), c.want)
			}
			if !got.IsExpanded() {
				t.Errorf("ExpandMap(%q).IsExpanded() = false, want true", c.template)
			}
		})
	}
}

func TestTemplateExpandPartial(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		template string
		params   map[string]any
		want     string
	}{
		{
			"unbound group is preserved",
			"http://e.com/{id}{?q}",
			map[string]any{},
			"http://e.com/{id}{?q}",
		},
		{
			"partially bound group",
			"{?a,b,c}",
			map[string]any{"b": "2"},
			"?b=2{&a,c}",
		},
		{
			"unbound group after bound one",
			"{/id}{?q}",
			map[string]any{"id": "42"},
			"/42{?q}",
		},
		{
			"explode survives in residue",
			"{?a,b*}",
			map[string]any{},
			"{?a,b*}",
		},
		{
			"prefix survives in residue",
			"{/a:3,b}",
			map[string]any{"b": "x"},
			"/x{/a:3}",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := uritemplate.New(c.template).ExpandMap(c.params)
			if err != nil {
				t.Fatalf("ExpandMap(%q) error = %v, want nil", c.template, err)
			}
			if got.String() != c.want {
				t.Errorf("ExpandMap(%q) = %q, want %q", c.template, got.String(), c.want)
			}
		})
	}
}

// A template expanded in two steps must match the single-step expansion.
func TestTemplateExpandTwoPhase(t *testing.T) {
	t.Parallel()

	tpl := uritemplate.New("http://www.example.com{?p1,p2,p3*}")

	step1, err := tpl.ExpandValue("p2", []string{"v2", "v3"})
	if err != nil {
		t.Fatalf("ExpandValue() error = %v, want nil", err)
	}
	if got, want := step1.String(), "http://www.example.com?p2=v2&p2=v3{&p1,p3*}"; got != want {
		t.Fatalf("first phase = %q, want %q", got, want)
	}
	if step1.IsExpanded() {
		t.Fatal("first phase IsExpanded() = true, want false")
	}

	rest := map[string]any{"p1": "v1", "p3": []string{"a", "b"}}
	step2, err := step1.ExpandMap(rest)
	if err != nil {
		t.Fatalf("ExpandMap() error = %v, want nil", err)
	}

	direct, err := tpl.ExpandMap(map[string]any{
		"p1": "v1", "p2": []string{"v2", "v3"}, "p3": []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("ExpandMap() error = %v, want nil", err)
	}
	if step2.String() != direct.String() {
		t.Errorf("two-phase = %q, single-phase = %q", step2.String(), direct.String())
	}
	if got, want := step2.String(), "http://www.example.com?p2=v2&p2=v3&p1=v1&p3=a&p3=b"; got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}

func TestTemplateExpandValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool", true, "true"},
		{"float", 3.14, "3.14"},
		{"encoded survives", "100%25", "100%25"},
		{"raw percent is encoded", "100%", "100%25"},
		{"unicode", "世界", "%E4%B8%96%E7%95%8C"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := uritemplate.New("{x}").ExpandValue("x", c.value)
			if err != nil {
				t.Fatalf("ExpandValue(%v) error = %v, want nil", c.value, err)
			}
			if got.String() != c.want {
				t.Errorf("ExpandValue(%v) = %q, want %q", c.value, got.String(), c.want)
			}
		})
	}
}

func TestTemplateExpandPrefixCodePoints(t *testing.T) {
	t.Parallel()

	got, err := uritemplate.New("{x:2}").ExpandValue("x", "世界abc")
	if err != nil {
		t.Fatalf("ExpandValue() error = %v, want nil", err)
	}
	if want := "%E4%B8%96%E7%95%8C"; got.String() != want {
		t.Errorf("result = %q, want %q", got.String(), want)
	}
}

func TestTemplateExpandRemoval(t *testing.T) {
	t.Parallel()

	t.Run("nil removes the variable", func(t *testing.T) {
		t.Parallel()

		got, err := uritemplate.New("http://e.com{?x,y}").ExpandMap(map[string]any{"x": nil, "y": nil})
		if err != nil {
			t.Fatalf("ExpandMap() error = %v, want nil", err)
		}
		if want := "http://e.com"; got.String() != want {
			t.Errorf("result = %q, want %q", got.String(), want)
		}
	})

	t.Run("Discard", func(t *testing.T) {
		t.Parallel()

		got, err := uritemplate.New("http://e.com/{id}{?q,v}").Discard("q", "v")
		if err != nil {
			t.Fatalf("Discard() error = %v, want nil", err)
		}
		if want := "http://e.com/{id}"; got.String() != want {
			t.Errorf("result = %q, want %q", got.String(), want)
		}
	})

	t.Run("ExpandOnly drops the rest", func(t *testing.T) {
		t.Parallel()

		got, err := uritemplate.New("http://e.com/{id}{?q,v}").ExpandOnly(map[string]any{"id": "42", "q": "cats"})
		if err != nil {
			t.Fatalf("ExpandOnly() error = %v, want nil", err)
		}
		if want := "http://e.com/42?q=cats"; got.String() != want {
			t.Errorf("result = %q, want %q", got.String(), want)
		}
		if !got.IsExpanded() {
			t.Error("IsExpanded() = false, want true")
		}
	})
}

func TestTemplateExpandErrors(t *testing.T) {
	t.Parallel()

	t.Run("malformed template", func(t *testing.T) {
		t.Parallel()

		_, err := uritemplate.New("{unclosed").ExpandValue("unclosed", "v")
		if !errors.Is(err, uritemplate.ErrMalformedTemplate) {
			t.Errorf("error = %v, want ErrMalformedTemplate", err)
		}
	})

	t.Run("unsupported value", func(t *testing.T) {
		t.Parallel()

		_, err := uritemplate.New("{x}").ExpandValue("x", struct{ A int }{1})
		if !errors.Is(err, uritemplate.ErrUnsupportedValue) {
			t.Errorf("error = %v, want ErrUnsupportedValue", err)
		}
	})

	t.Run("unsupported list element", func(t *testing.T) {
		t.Parallel()

		_, err := uritemplate.New("{x*}").ExpandValue("x", []any{"ok", make(chan int)})
		if !errors.Is(err, uritemplate.ErrUnsupportedValue) {
			t.Errorf("error = %v, want ErrUnsupportedValue", err)
		}
	})

	t.Run("name without a value", func(t *testing.T) {
		t.Parallel()

		_, err := uritemplate.New("{x}").ExpandArgs("x")
		if !errors.Is(err, uritemplate.ErrUnsupportedValue) {
			t.Errorf("error = %v, want ErrUnsupportedValue", err)
		}
	})
}

func TestTemplateExpandArgs(t *testing.T) {
	t.Parallel()

	got, err := uritemplate.New("/{a}/{b}{?tags*}").ExpandArgs(
		"a", 1,
		"b", "two",
		"tags", []string{"x", "y"},
	)
	if err != nil {
		t.Fatalf("ExpandArgs() error = %v, want nil", err)
	}
	if want := "/1/two?tags=x&tags=y"; got.String() != want {
		t.Errorf("result = %q, want %q", got.String(), want)
	}

	// the first binding of a repeated name wins
	got, err = uritemplate.New("{x}").ExpandArgs("x", "first", "x", "second")
	if err != nil {
		t.Fatalf("ExpandArgs() error = %v, want nil", err)
	}
	if want := "first"; got.String() != want {
		t.Errorf("result = %q, want %q", got.String(), want)
	}
}

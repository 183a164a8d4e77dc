// Package uritemplate implements RFC 6570 URI template expansion and an
// incremental URI builder.
//
// A [Template] is an immutable template string. Expansion substitutes the
// variables a [Params] source can resolve and keeps the rest as template
// syntax, so a template can be expanded in several passes by different owners
// of the data:
//
//	t := uritemplate.New("http://example.com/search{?q,lang,page*}")
//	t, _ = t.ExpandValue("q", "cats & dogs")
//	// http://example.com/search?q=cats%20%26%20dogs{&lang,page*}
//	t, _ = t.ExpandMap(map[string]any{"lang": "en", "page": []string{"2", "50"}})
//	// http://example.com/search?q=cats%20%26%20dogs&lang=en&page=2&page=50
//	u, _ := t.URI()
//
// All eight expansion operators of RFC 6570 are supported, together with the
// explode ("*") and prefix (":n") varspec modifiers, plus a non-standard ":"
// operator that joins values with colons: "rel{:param*}" expands to "rel:1:2".
//
// A [Builder] constructs a URI or a template from parts. It can start from
// scratch or from an existing URI, appends literal values and [Variable]
// placeholders per component, and finalizes either into a concrete URL with
// [Builder.URI] or into a [Template] with [Builder.Template]:
//
//	b, _ := uritemplate.BasedOn("http://example.com/api")
//	t, _ := b.Relative("items", uritemplate.Var("id")).
//		QueryParam("verbose", "true").
//		Template()
//	// http://example.com/api/items/{id}?verbose=true
//
// Expansion percent-encodes substituted values per operator and never encodes
// a valid percent-triplet twice, so pre-encoded input survives any number of
// build and expand cycles.
package uritemplate

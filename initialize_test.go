package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
)

func TestAnchorResolution(t *testing.T) {
	s := mustSchema(t, `{
		"$id": "https://x/root",
		"$defs": {
			"a": {"$anchor": "first", "type": "string"},
			"b": {"$dynamicAnchor": "second", "type": "number"}
		}
	}`)
	reg := jsonschema.NewRegistry()
	if err := s.Initialize(reg); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	first, ok := s.GetAnchor("first")
	if !ok {
		t.Fatalf("anchor first should resolve")
	}
	if kw, ok := first.Keyword("type"); !ok || kw.ValueJSON() != "string" {
		t.Fatalf("anchor first should point at the string schema")
	}
	if _, ok := s.GetAnchor("second"); !ok {
		t.Fatalf("dynamic anchors also resolve as plain anchors")
	}
	if _, ok := s.GetAnchor("missing"); ok {
		t.Fatalf("unknown anchor should not resolve")
	}
}

func TestAnchorRef(t *testing.T) {
	s := mustSchema(t, `{
		"$id": "https://x/anchored",
		"$defs": {"name": {"$anchor": "name", "type": "string"}},
		"properties": {"n": {"$ref": "#name"}}
	}`)
	opts := jsonschema.EvalOptions{Registry: jsonschema.NewRegistry()}
	if r := evaluate(t, s, map[string]any{"n": "ok"}, opts); !r.Valid {
		t.Fatalf("anchor reference should resolve and accept a string")
	}
	if r := evaluate(t, s, map[string]any{"n": 1.0}, opts); r.Valid {
		t.Fatalf("anchor reference should reject a number")
	}
}

func TestIdempotentInitialization(t *testing.T) {
	s := mustSchema(t, `{
		"$id": "https://x/idem",
		"$defs": {"child": {"$id": "child", "type": "string"}}
	}`)
	reg := jsonschema.NewRegistry()
	for i := 0; i < 3; i++ {
		if err := s.Initialize(reg); err != nil {
			t.Fatalf("initialize %d: %v", i, err)
		}
	}
	if got := s.BaseURI(); got != "https://x/idem" {
		t.Fatalf("base = %q", got)
	}
	if reg.Get("https://x/idem") != s {
		t.Fatalf("root should be registered once under its id")
	}
	child := reg.Get("https://x/child")
	if child == nil {
		t.Fatalf("nested resource root should register under the joined base")
	}
	if got := child.BaseURI(); got != "https://x/child" {
		t.Fatalf("child base = %q", got)
	}
	if !child.IsResourceRoot() {
		t.Fatalf("child should be a resource root")
	}
}

func TestDuplicateRegistration(t *testing.T) {
	reg := jsonschema.NewRegistry()
	a := mustSchema(t, `{"$id": "https://x/dup", "type": "string"}`)
	b := mustSchema(t, `{"$id": "https://x/dup", "type": "number"}`)
	if err := a.Initialize(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	err := b.Initialize(reg)
	if err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	se, ok := jsonschema.AsSchemaError(err)
	if !ok || se.Kind != jsonschema.KindDuplicateRegistration {
		t.Fatalf("expected KindDuplicateRegistration, got %v", err)
	}
	if se.ID != "https://x/dup" {
		t.Fatalf("error should name the identifier, got %q", se.ID)
	}
	// The original registration is unaffected.
	if reg.Get("https://x/dup") != a {
		t.Fatalf("registry should still hold the first schema")
	}
}

func TestLegacyPlainNameID(t *testing.T) {
	s := mustSchema(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"definitions": {"n": {"$id": "#frag", "type": "integer"}},
		"properties": {"v": {"$ref": "#frag"}}
	}`)
	opts := jsonschema.EvalOptions{Registry: jsonschema.NewRegistry()}
	if r := evaluate(t, s, map[string]any{"v": 3.0}, opts); !r.Valid {
		t.Fatalf("draft-07 plain-name id should resolve like an anchor")
	}
	if r := evaluate(t, s, map[string]any{"v": "x"}, opts); r.Valid {
		t.Fatalf("plain-name id target should reject a string")
	}
}

func TestRefSiblingsIgnoredInDraft7(t *testing.T) {
	s := mustSchema(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"definitions": {"any": true},
		"properties": {"v": {"$ref": "#/definitions/any", "type": "string"}}
	}`)
	opts := jsonschema.EvalOptions{Registry: jsonschema.NewRegistry()}
	// Under draft 7 the sibling type keyword is suppressed by $ref.
	if r := evaluate(t, s, map[string]any{"v": 42.0}, opts); !r.Valid {
		t.Fatalf("draft-07 $ref should suppress sibling keywords")
	}
}

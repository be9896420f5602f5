package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
)

func TestDraftFromMetaSchemaID(t *testing.T) {
	cases := []struct {
		id   string
		want jsonschema.Draft
	}{
		{"http://json-schema.org/draft-06/schema#", jsonschema.Draft6},
		{"http://json-schema.org/draft-07/schema#", jsonschema.Draft7},
		{"https://json-schema.org/draft/2019-09/schema", jsonschema.Draft201909},
		{"https://json-schema.org/draft/2020-12/schema", jsonschema.Draft202012},
		{"https://json-schema.org/draft/next/schema", jsonschema.DraftNext},
	}
	for _, tc := range cases {
		d, ok := jsonschema.DraftForMetaSchemaID(tc.id)
		if !ok || d != tc.want {
			t.Fatalf("%s: got (%v, %v)", tc.id, d, ok)
		}
	}
	if _, ok := jsonschema.DraftForMetaSchemaID("https://example.test/custom"); ok {
		t.Fatalf("custom identifiers must not be recognized")
	}
}

func TestDeclaredDraftFromSchemaKeyword(t *testing.T) {
	s := mustSchema(t, `{"$schema": "http://json-schema.org/draft-07/schema#", "type": "string"}`)
	reg := jsonschema.NewRegistry()
	if err := s.Initialize(reg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if d := s.DeclaredDraft(); d != jsonschema.Draft7 {
		t.Fatalf("declared draft = %v, want draft-07", d)
	}
}

func TestCustomMetaSchemaChain(t *testing.T) {
	reg := jsonschema.NewRegistry()
	reg.SetResolver(func(id string) (*jsonschema.Schema, error) {
		if id == "https://example.test/meta" {
			return jsonschema.FromText([]byte(`{
				"$schema": "https://json-schema.org/draft/2020-12/schema",
				"$id": "https://example.test/meta"
			}`))
		}
		return nil, nil
	})

	s := mustSchema(t, `{"$schema": "https://example.test/meta", "type": "string"}`)
	if err := s.Initialize(reg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if d := s.DeclaredDraft(); d != jsonschema.Draft202012 {
		t.Fatalf("draft through custom meta-schema = %v, want 2020-12", d)
	}
}

func TestMetaSchemaCycleFails(t *testing.T) {
	docs := map[string]string{
		"https://example.test/meta1": `{"$schema": "https://example.test/meta2", "$id": "https://example.test/meta1"}`,
		"https://example.test/meta2": `{"$schema": "https://example.test/meta1", "$id": "https://example.test/meta2"}`,
	}
	reg := jsonschema.NewRegistry()
	reg.SetResolver(func(id string) (*jsonschema.Schema, error) {
		if text, ok := docs[id]; ok {
			return jsonschema.FromText([]byte(text))
		}
		return nil, nil
	})

	s := mustSchema(t, `{"$schema": "https://example.test/meta1", "type": "string"}`)
	err := s.Initialize(reg)
	if err == nil {
		t.Fatalf("multi-step meta-schema cycle must fail")
	}
	se, ok := jsonschema.AsSchemaError(err)
	if !ok || se.Kind != jsonschema.KindUnresolvableMetaSchema {
		t.Fatalf("expected KindUnresolvableMetaSchema, got %v", err)
	}
}

func TestUnresolvableMetaSchema(t *testing.T) {
	s := mustSchema(t, `{"$schema": "https://example.test/nowhere", "type": "string"}`)
	err := s.Initialize(jsonschema.NewRegistry())
	if err == nil {
		t.Fatalf("unknown meta-schema must fail initialization")
	}
	se, ok := jsonschema.AsSchemaError(err)
	if !ok || se.Kind != jsonschema.KindUnresolvableMetaSchema {
		t.Fatalf("expected KindUnresolvableMetaSchema, got %v", err)
	}
}

func TestEvaluateAsOverride(t *testing.T) {
	// Array-form items is rejected from 2020-12 but fine under draft-07.
	text := `{"items": [{"type": "string"}, {"type": "number"}]}`

	s7 := mustSchema(t, text)
	opts := jsonschema.EvalOptions{
		Registry:   jsonschema.NewRegistry(),
		EvaluateAs: jsonschema.Draft7,
	}
	if r := evaluate(t, s7, []any{"a", 2.0}, opts); !r.Valid {
		t.Fatalf("tuple form should validate under draft-07")
	}
	if r := evaluate(t, s7, []any{2.0, "a"}, opts); r.Valid {
		t.Fatalf("tuple mismatch should fail under draft-07")
	}

	s20 := mustSchema(t, text)
	_, err := s20.Evaluate([]any{"a"}, jsonschema.EvalOptions{
		Registry:   jsonschema.NewRegistry(),
		EvaluateAs: jsonschema.Draft202012,
	})
	if err == nil {
		t.Fatalf("array-form items under 2020-12 should be rejected")
	}
	se, ok := jsonschema.AsSchemaError(err)
	if !ok || se.Kind != jsonschema.KindUnsupportedSchema {
		t.Fatalf("expected KindUnsupportedSchema, got %v", err)
	}
}

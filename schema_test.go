package jsonschema_test

import (
	"strings"
	"testing"

	j "github.com/goccy/go-json"

	jsonschema "github.com/reoring/jsonschema"
)

func TestUnrecognizedKeywordPreserved(t *testing.T) {
	text := `{"x-mine":{"y":1},"type":"string"}`
	s := mustSchema(t, text)

	if r := evaluate(t, s, "hi", isolated()); !r.Valid {
		t.Fatalf("string instance should pass; x-mine contributes no constraint")
	}

	out, err := j.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"x-mine":{"y":1}`) {
		t.Fatalf("x-mine should round-trip, got %s", out)
	}
}

func TestRoundTripEvaluatesIdentically(t *testing.T) {
	text := `{
		"type": "object",
		"properties": {"a": {"type": "integer", "minimum": 0}},
		"patternProperties": {"^x-": true},
		"required": ["a"],
		"x-vendor": [1, 2, 3]
	}`
	first := mustSchema(t, text)
	out, err := j.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second := mustSchema(t, string(out))

	instances := []any{
		map[string]any{"a": 1.0},
		map[string]any{"a": -1.0},
		map[string]any{"x-flag": true, "a": 0.0},
		map[string]any{},
		"not an object",
	}
	for _, inst := range instances {
		r1 := evaluate(t, first, inst, isolated())
		r2 := evaluate(t, second, inst, isolated())
		if r1.Valid != r2.Valid {
			t.Fatalf("reparsed schema disagrees on %v: %v vs %v", inst, r1.Valid, r2.Valid)
		}
	}
}

func TestKeywordOrderPreserved(t *testing.T) {
	text := `{"title":"t","type":"string","minLength":1}`
	s := mustSchema(t, text)
	kws := s.Keywords()
	names := make([]string, len(kws))
	for i, kw := range kws {
		names[i] = kw.Name()
	}
	want := []string{"title", "type", "minLength"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("keyword order = %v, want %v", names, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"malformed JSON", `{"type":`},
		{"schema is a number", `42`},
		{"type value wrong", `{"type": 12}`},
		{"minItems negative", `{"minItems": -1}`},
		{"pattern invalid", `{"pattern": "["}`},
		{"enum empty", `{"enum": []}`},
		{"anchor bad name", `{"$anchor": "0abc"}`},
		{"multipleOf zero", `{"multipleOf": 0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := jsonschema.FromText([]byte(tc.text))
			if err == nil {
				t.Fatalf("expected a parse error")
			}
			se, ok := jsonschema.AsSchemaError(err)
			if !ok || se.Kind != jsonschema.KindParse {
				t.Fatalf("expected KindParse, got %v", err)
			}
		})
	}
}

func TestNullKeywordValues(t *testing.T) {
	s := mustSchema(t, `{"const": null, "default": null}`)
	if r := evaluate(t, s, nil, isolated()); !r.Valid {
		t.Fatalf("null should equal const null")
	}
	if r := evaluate(t, s, 1.0, isolated()); r.Valid {
		t.Fatalf("non-null should fail const null")
	}
}

func TestProcessCustomKeywords(t *testing.T) {
	s := mustSchema(t, `{"x-unit": "seconds", "type": "number"}`)
	opts := isolated()
	opts.OutputFormat = jsonschema.OutputHierarchical
	opts.ProcessCustomKeywords = true
	r := evaluate(t, s, 3.0, opts)
	if !r.Valid {
		t.Fatalf("number should pass")
	}
	if got := r.Annotations["x-unit"]; got != "seconds" {
		t.Fatalf("custom keyword should surface as an annotation, got %v", r.Annotations)
	}
}

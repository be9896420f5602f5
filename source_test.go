package jsonschema_test

import (
	"strings"
	"testing"

	jsonschema "github.com/reoring/jsonschema"
)

func TestFromReader(t *testing.T) {
	s, err := jsonschema.FromReader(strings.NewReader(`{"type": "string"}`))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if r := evaluate(t, s, "ok", isolated()); !r.Valid {
		t.Fatalf("string should pass")
	}
}

func TestFromYAML(t *testing.T) {
	doc := `
type: object
properties:
  name:
    type: string
    minLength: 2
  count:
    type: integer
    minimum: 0
required:
  - name
`
	s, err := jsonschema.FromYAML([]byte(doc))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if r := evaluate(t, s, map[string]any{"name": "ok", "count": 3.0}, isolated()); !r.Valid {
		t.Fatalf("conforming instance should pass")
	}
	if r := evaluate(t, s, map[string]any{"name": "x"}, isolated()); r.Valid {
		t.Fatalf("one-character name should fail minLength 2")
	}
	if r := evaluate(t, s, map[string]any{"count": 1.0}, isolated()); r.Valid {
		t.Fatalf("missing name should fail required")
	}
}

func TestFromYAMLPreservesKeywordOrder(t *testing.T) {
	doc := "title: t\ntype: string\nminLength: 1\n"
	s, err := jsonschema.FromYAML([]byte(doc))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	kws := s.Keywords()
	if len(kws) != 3 || kws[0].Name() != "title" || kws[1].Name() != "type" || kws[2].Name() != "minLength" {
		t.Fatalf("YAML keyword order should match the document")
	}
}

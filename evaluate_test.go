package jsonschema_test

import (
	"strings"
	"sync"
	"testing"

	j "github.com/goccy/go-json"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/i18n"
)

func mustSchema(t *testing.T, text string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.FromText([]byte(text))
	if err != nil {
		t.Fatalf("parsing schema: %v", err)
	}
	return s
}

func isolated() jsonschema.EvalOptions {
	return jsonschema.EvalOptions{Registry: jsonschema.NewRegistry()}
}

func evaluate(t *testing.T, s *jsonschema.Schema, instance any, opts jsonschema.EvalOptions) *jsonschema.Results {
	t.Helper()
	r, err := s.Evaluate(instance, opts)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return r
}

func TestMinItems(t *testing.T) {
	s := mustSchema(t, `{"minItems": 2}`)
	opts := isolated()
	opts.OutputFormat = jsonschema.OutputList

	r := evaluate(t, s, []any{1.0}, opts)
	if r.Valid {
		t.Fatalf("single-item array should fail minItems 2")
	}
	var msg string
	for _, d := range r.Details {
		if m, ok := d.Errors["minItems"]; ok {
			msg = m
		}
	}
	if msg == "" {
		t.Fatalf("expected a minItems failure, got %+v", r.Details)
	}
	if !strings.Contains(msg, "1") || !strings.Contains(msg, "2") {
		t.Fatalf("message should carry received=1 and limit=2, got %q", msg)
	}

	if r := evaluate(t, s, []any{1.0, 2.0}, opts); !r.Valid {
		t.Fatalf("two-item array should pass minItems 2")
	}
}

func TestRecursiveRefViaPointer(t *testing.T) {
	s := mustSchema(t, `{
		"$id": "https://x/s",
		"type": "object",
		"properties": {"next": {"$ref": "#"}}
	}`)
	opts := isolated()
	opts.OutputFormat = jsonschema.OutputList

	valid := map[string]any{"next": map[string]any{"next": map[string]any{}}}
	if r := evaluate(t, s, valid, opts); !r.Valid {
		t.Fatalf("nested objects should satisfy the recursive schema")
	}

	invalid := map[string]any{"next": 42}
	r := evaluate(t, s, invalid, opts)
	if r.Valid {
		t.Fatalf("non-object next should fail")
	}
	found := false
	for _, d := range r.Details {
		if _, ok := d.Errors["type"]; !ok {
			continue
		}
		if d.InstanceLocation == "/next" && strings.HasPrefix(d.EvaluationPath, "/properties/next") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a type failure under /properties/next, got %+v", r.Details)
	}
}

func TestDynamicRef(t *testing.T) {
	generic := `{
		"$id": "https://x/list",
		"$defs": {"itemType": {"$dynamicAnchor": "T"}},
		"type": "object",
		"properties": {"data": {"$dynamicRef": "#T"}}
	}`
	strict := `{
		"$id": "https://x/strict-list",
		"$ref": "https://x/list",
		"$defs": {"itemType": {"$dynamicAnchor": "T", "type": "string"}}
	}`
	instance := map[string]any{"data": 42}

	reg := jsonschema.NewRegistry()
	a := mustSchema(t, generic)
	if err := a.Initialize(reg); err != nil {
		t.Fatalf("initializing generic: %v", err)
	}
	b := mustSchema(t, strict)

	if r := evaluate(t, b, instance, jsonschema.EvalOptions{Registry: reg}); r.Valid {
		t.Fatalf("extension re-declares T as string; numeric data should fail")
	}
	if r := evaluate(t, a, instance, jsonschema.EvalOptions{Registry: reg}); !r.Valid {
		t.Fatalf("generic list accepts any data value")
	}
}

func TestRecursiveRef201909(t *testing.T) {
	tree := `{
		"$schema": "https://json-schema.org/draft/2019-09/schema",
		"$id": "https://x/tree",
		"$recursiveAnchor": true,
		"type": "object",
		"properties": {"child": {"$recursiveRef": "#"}}
	}`
	s := mustSchema(t, tree)
	opts := isolated()

	if r := evaluate(t, s, map[string]any{"child": map[string]any{}}, opts); !r.Valid {
		t.Fatalf("nested tree should validate")
	}
	if r := evaluate(t, s, map[string]any{"child": "leaf"}, opts); r.Valid {
		t.Fatalf("string child should fail the recursive reference")
	}
}

func TestDraftDetectionByKeywords(t *testing.T) {
	s := mustSchema(t, `{"type": "integer", "exclusiveMinimum": 5}`)
	opts := isolated()

	if r := evaluate(t, s, 6, opts); !r.Valid {
		t.Fatalf("6 > 5 should pass")
	}
	if r := evaluate(t, s, 5, opts); r.Valid {
		t.Fatalf("5 is not greater than 5")
	}
	if d := s.DeclaredDraft(); d == jsonschema.DraftUnspecified {
		t.Fatalf("draft should be detected, got %v", d)
	}
}

func TestBooleanSchemas(t *testing.T) {
	instances := []any{nil, true, 3.5, "hi", []any{1.0}, map[string]any{"a": 1.0}}

	accept := mustSchema(t, `true`)
	reject := mustSchema(t, `false`)
	for _, inst := range instances {
		if r := evaluate(t, accept, inst, isolated()); !r.Valid {
			t.Fatalf("true schema must accept %v", inst)
		}
		if r := evaluate(t, reject, inst, isolated()); r.Valid {
			t.Fatalf("false schema must reject %v", inst)
		}
	}
}

func TestFalseSchemaMessage(t *testing.T) {
	defer i18n.Reset()
	i18n.Set(i18n.FalseSchemaKey, "", "rejected by configuration")

	s := mustSchema(t, `false`)
	opts := isolated()
	opts.OutputFormat = jsonschema.OutputHierarchical
	r := evaluate(t, s, nil, opts)
	if r.Valid {
		t.Fatalf("false schema must reject null")
	}
	if got := r.Errors[""]; got != "rejected by configuration" {
		t.Fatalf("false-schema message should be overridable, got %q", got)
	}
}

func TestDeterminism(t *testing.T) {
	s := mustSchema(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 2},
			"tags": {"type": "array", "items": {"type": "string"}, "uniqueItems": true}
		},
		"required": ["name"],
		"additionalProperties": false
	}`)
	instance := map[string]any{"name": "x", "tags": []any{"a", "a"}, "extra": 1.0}
	opts := isolated()
	opts.OutputFormat = jsonschema.OutputHierarchical

	first, err := j.Marshal(evaluate(t, s, instance, opts))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := j.Marshal(evaluate(t, s, instance, opts))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(first) != string(again) {
			t.Fatalf("evaluation %d differed:\n%s\n%s", i, first, again)
		}
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	s := mustSchema(t, `{
		"$id": "https://x/concurrent",
		"type": "object",
		"properties": {"next": {"$ref": "#"}, "n": {"type": "integer"}}
	}`)
	reg := jsonschema.NewRegistry()
	if err := s.Initialize(reg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	instance := map[string]any{"next": map[string]any{"n": 1.0}, "n": 2.0}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := s.Evaluate(instance, jsonschema.EvalOptions{Registry: reg})
			if err != nil {
				t.Errorf("evaluate: %v", err)
				return
			}
			if !r.Valid {
				t.Errorf("instance should be valid")
			}
		}()
	}
	wg.Wait()
}

func TestOutputFormats(t *testing.T) {
	s := mustSchema(t, `{"type": "string"}`)

	flag := evaluate(t, s, 42, isolated())
	if flag.Valid || flag.Details != nil || flag.Errors != nil {
		t.Fatalf("flag output should carry only the valid flag: %+v", flag)
	}
	out, err := j.Marshal(flag)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"valid":false}` {
		t.Fatalf("flag output shape: %s", out)
	}

	opts := isolated()
	opts.OutputFormat = jsonschema.OutputList
	list := evaluate(t, s, 42, opts)
	if len(list.Details) == 0 {
		t.Fatalf("list output should surface the failing node")
	}
	for _, d := range list.Details {
		if len(d.Details) != 0 {
			t.Fatalf("list output nodes must be flat")
		}
	}

	opts.OutputFormat = jsonschema.OutputHierarchical
	tree := evaluate(t, s, 42, opts)
	if tree.Errors["type"] == "" {
		t.Fatalf("hierarchical root should carry the type failure")
	}
}

func TestAppliedConditionals(t *testing.T) {
	s := mustSchema(t, `{
		"if": {"properties": {"kind": {"const": "user"}}, "required": ["kind"]},
		"then": {"required": ["name"]},
		"else": {"required": ["id"]}
	}`)
	cases := []struct {
		name     string
		instance any
		valid    bool
	}{
		{"then branch satisfied", map[string]any{"kind": "user", "name": "ada"}, true},
		{"then branch missing name", map[string]any{"kind": "user"}, false},
		{"else branch satisfied", map[string]any{"kind": "group", "id": 7.0}, true},
		{"else branch missing id", map[string]any{"kind": "group"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if r := evaluate(t, s, tc.instance, isolated()); r.Valid != tc.valid {
				t.Fatalf("valid = %v, want %v", r.Valid, tc.valid)
			}
		})
	}
}

func TestUnevaluatedProperties(t *testing.T) {
	s := mustSchema(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"allOf": [{"properties": {"a": {"type": "string"}}}],
		"properties": {"b": {"type": "number"}},
		"unevaluatedProperties": false
	}`)
	if r := evaluate(t, s, map[string]any{"a": "x", "b": 1.0}, isolated()); !r.Valid {
		t.Fatalf("all properties are evaluated; instance should pass")
	}
	if r := evaluate(t, s, map[string]any{"a": "x", "c": 1.0}, isolated()); r.Valid {
		t.Fatalf("property c is unevaluated and must be rejected")
	}
}

func TestContainsInteraction(t *testing.T) {
	s := mustSchema(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"contains": {"type": "integer"},
		"minContains": 2,
		"maxContains": 3
	}`)
	cases := []struct {
		instance []any
		valid    bool
	}{
		{[]any{1.0, "a", 2.0}, true},
		{[]any{1.0, "a"}, false},
		{[]any{1.0, 2.0, 3.0, 4.0}, false},
	}
	for _, tc := range cases {
		if r := evaluate(t, s, tc.instance, isolated()); r.Valid != tc.valid {
			t.Fatalf("instance %v: valid = %v, want %v", tc.instance, r.Valid, tc.valid)
		}
	}
}

func TestLocalizedMessages(t *testing.T) {
	defer i18n.Reset()
	i18n.Set("minItems", "de", "zu wenige Elemente: [[received]] von [[limit]]")

	s := mustSchema(t, `{"minItems": 3}`)
	opts := isolated()
	opts.OutputFormat = jsonschema.OutputHierarchical
	opts.Culture = "de-AT"
	r := evaluate(t, s, []any{}, opts)
	if r.Valid {
		t.Fatalf("empty array should fail minItems 3")
	}
	if got := r.Errors["minItems"]; got != "zu wenige Elemente: 0 von 3" {
		t.Fatalf("de-AT should fall back to de, got %q", got)
	}
}

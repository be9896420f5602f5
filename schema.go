package jsonschema

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	j "github.com/goccy/go-json"

	"github.com/reoring/jsonschema/internal/jsontext"
)

// Schema is a parsed schema document: either a boolean schema or an
// insertion-ordered collection of keywords. Schemas are immutable after
// initialization; concurrent evaluation of an initialized schema is safe.
type Schema struct {
	boolValue    *bool
	keywords     []Keyword
	keywordIndex map[string]int

	baseURI        string
	isResourceRoot bool
	declaredDraft  Draft
	anchors         map[string]anchorEntry
	recursiveAnchor *Schema
	initMu          sync.Mutex
	initialized     bool

	dynamicMemo *bool

	mu          sync.Mutex
	constraints []scopedConstraint
}

type anchorEntry struct {
	schema  *Schema
	dynamic bool
}

type scopedConstraint struct {
	scope      []string
	constraint *SchemaConstraint
}

var anonBaseCounter atomic.Uint64

func newAnonymousBase() string {
	return fmt.Sprintf("https://jsonschema.reoring.dev/anonymous/%d", anonBaseCounter.Add(1))
}

// parseSchemaValue builds a Schema from a decoded JSON value. path locates
// the value in the enclosing document for error reporting.
func parseSchemaValue(v any, path string) (*Schema, error) {
	switch t := v.(type) {
	case bool:
		b := t
		return &Schema{boolValue: &b, baseURI: newAnonymousBase()}, nil
	case *jsontext.Object:
		s := &Schema{
			baseURI:      newAnonymousBase(),
			keywordIndex: make(map[string]int, t.Len()),
		}
		for _, name := range t.Names() {
			value, _ := t.Get(name)
			kwPath := path + "/" + name
			var kw Keyword
			if entry, ok := lookupKeyword(name); ok {
				parsed, err := entry.factory(value, kwPath)
				if err != nil {
					return nil, err
				}
				kw = parsed
			} else {
				kw = &UnrecognizedKeyword{name: name, value: value}
			}
			s.keywordIndex[name] = len(s.keywords)
			s.keywords = append(s.keywords, kw)
		}
		return s, nil
	case map[string]any:
		obj := jsontext.NewObject()
		for _, name := range jsontext.ObjectMembers(t) {
			value, _ := jsontext.ObjectGet(t, name)
			obj.Set(name, value)
		}
		return parseSchemaValue(obj, path)
	}
	return nil, parseErrorf(path, "schema must be a boolean or an object, got %s", jsontext.KindOf(v))
}

// IsBool reports whether the schema is a boolean schema, and its value.
func (s *Schema) IsBool() (value, ok bool) {
	if s.boolValue == nil {
		return false, false
	}
	return *s.boolValue, true
}

// Keyword returns the keyword with the given name.
func (s *Schema) Keyword(name string) (Keyword, bool) {
	i, ok := s.keywordIndex[name]
	if !ok {
		return nil, false
	}
	return s.keywords[i], true
}

// Keywords returns the schema's keywords in document order. The slice is
// shared; callers must not mutate it.
func (s *Schema) Keywords() []Keyword { return s.keywords }

// BaseURI returns the base identifier in effect for this schema. It is
// absolute once the schema has been initialized.
func (s *Schema) BaseURI() string { return s.baseURI }

// IsResourceRoot reports whether the schema introduces a new resource via an
// identifier keyword.
func (s *Schema) IsResourceRoot() bool { return s.isResourceRoot }

// DeclaredDraft returns the draft determined for this schema during
// initialization, or DraftUnspecified before it.
func (s *Schema) DeclaredDraft() Draft { return s.declaredDraft }

// GetAnchor resolves an anchor name registered on this resource root.
func (s *Schema) GetAnchor(name string) (*Schema, bool) {
	a, ok := s.anchors[name]
	if !ok {
		return nil, false
	}
	return a.schema, true
}

func (s *Schema) dynamicAnchor(name string) (*Schema, bool) {
	a, ok := s.anchors[name]
	if !ok || !a.dynamic {
		return nil, false
	}
	return a.schema, true
}

func (s *Schema) setAnchor(name string, target *Schema, dynamic bool) {
	if s.anchors == nil {
		s.anchors = map[string]anchorEntry{}
	}
	if existing, ok := s.anchors[name]; ok && existing.dynamic && !dynamic {
		// A dynamic anchor also serves as a static one; keep the stronger entry.
		return
	}
	s.anchors[name] = anchorEntry{schema: target, dynamic: dynamic}
}

// prioritizedKeywords returns keywords ordered by priority, preserving
// document order within equal priorities.
func (s *Schema) prioritizedKeywords() []Keyword {
	out := make([]Keyword, len(s.keywords))
	copy(out, s.keywords)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Priority() < out[b].Priority()
	})
	return out
}

// isDynamic reports whether the schema transitively contains a $dynamicRef
// or $recursiveRef, which makes its constraints scope-sensitive. The result
// is memoized after initialization.
func (s *Schema) isDynamic() bool {
	if s.dynamicMemo != nil {
		return *s.dynamicMemo
	}
	seen := map[*Schema]bool{}
	result := s.computeDynamic(seen)
	s.dynamicMemo = &result
	return result
}

func (s *Schema) computeDynamic(seen map[*Schema]bool) bool {
	if seen[s] {
		return false
	}
	seen[s] = true
	for _, kw := range s.keywords {
		switch kw.Name() {
		case "$dynamicRef", "$recursiveRef":
			return true
		}
		for _, ref := range subschemasOf(kw) {
			if ref.schema.computeDynamic(seen) {
				return true
			}
		}
	}
	return false
}

// MarshalJSON reproduces the schema document, including unrecognized
// keywords, in original keyword order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if v, ok := s.IsBool(); ok {
		return j.Marshal(v)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kw := range s.keywords {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := j.Marshal(kw.Name())
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := j.Marshal(kw.ValueJSON())
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// findSubschema resolves a JSON Pointer tail against the schema structure.
// The first token names a keyword; descent below it follows the keyword's
// structural interface.
func (s *Schema) findSubschema(tail []string, reg *Registry) (*Schema, bool) {
	if len(tail) == 0 {
		return s, true
	}
	kw, ok := s.Keyword(tail[0])
	if !ok {
		return nil, false
	}
	rest := tail[1:]
	switch t := kw.(type) {
	case SubschemaLocator:
		target, consumed := t.FindSubschema(rest)
		if target == nil {
			return nil, false
		}
		return target.findSubschema(rest[consumed:], reg)
	case SubschemaContainer:
		sub := t.Subschema()
		if sub == nil {
			return nil, false
		}
		return sub.findSubschema(rest, reg)
	case SubschemaCollection:
		if len(rest) == 0 {
			return nil, false
		}
		idx, err := parseIndexToken(rest[0])
		subs := t.Subschemas()
		if err != nil || idx < 0 || idx >= len(subs) {
			return nil, false
		}
		return subs[idx].findSubschema(rest[1:], reg)
	case SubschemaMap:
		if len(rest) == 0 {
			return nil, false
		}
		sub, ok := t.SubschemaMap()[rest[0]]
		if !ok {
			return nil, false
		}
		return sub.findSubschema(rest[1:], reg)
	case *UnrecognizedKeyword:
		// $ref may target a location nested under a preserved custom
		// keyword; descend through the raw value.
		return findRawSubschema(t.value, rest, s.baseURI, reg)
	}
	return nil, false
}

func parseIndexToken(tok string) (int, error) {
	return strconv.Atoi(tok)
}

// findRawSubschema walks raw JSON preserved under an unrecognized keyword
// and, when the pointer lands on a schema-shaped value, parses and
// initializes it under the owning resource's base.
func findRawSubschema(v any, tail []string, base string, reg *Registry) (*Schema, bool) {
	for _, tok := range tail {
		switch t := v.(type) {
		case *jsontext.Object:
			next, ok := t.Get(tok)
			if !ok {
				return nil, false
			}
			v = next
		case map[string]any:
			next, ok := t[tok]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			idx, err := parseIndexToken(tok)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, false
			}
			v = t[idx]
		default:
			return nil, false
		}
	}
	sub, err := parseSchemaValue(v, "")
	if err != nil {
		return nil, false
	}
	if reg == nil {
		reg = GlobalRegistry()
	}
	if err := sub.initialize(base, sub, DraftUnspecified, reg); err != nil {
		return nil, false
	}
	return sub, true
}

package jsonschema

import (
	"sync"

	"github.com/reoring/jsonschema/internal/jsontext"
)

// Keyword is one named clause of a keyword schema. Implementations parse
// their value at construction time, serialize it back via ValueJSON, and
// compile into a KeywordConstraint on demand.
type Keyword interface {
	// Name is the canonical JSON property name, e.g. "minItems".
	Name() string
	// Priority orders compilation and evaluation; lower runs first.
	Priority() int
	// SupportedBy reports whether the keyword exists in the given draft.
	SupportedBy(d Draft) bool
	// ValueJSON returns the keyword's value for serialization.
	ValueJSON() any
	// Constrain compiles the keyword for the enclosing schema constraint.
	// siblings holds the constraints of already-compiled lower-priority
	// keywords in the same schema.
	Constrain(parent *SchemaConstraint, siblings []*KeywordConstraint, ctx *Context) (*KeywordConstraint, error)
}

// Structural interfaces used by anchor collection, initialization, and
// schema-pointer resolution.

// SubschemaContainer is a keyword owning exactly one sub-schema (e.g. not).
type SubschemaContainer interface {
	Subschema() *Schema
}

// SubschemaCollection is a keyword owning an ordered sequence of sub-schemas
// (e.g. allOf).
type SubschemaCollection interface {
	Subschemas() []*Schema
}

// SubschemaMap is a keyword owning named sub-schemas (e.g. properties).
type SubschemaMap interface {
	SubschemaMap() map[string]*Schema
}

// SubschemaLocator is a keyword with custom sub-schema addressing. It
// consumes a prefix of the pointer tail and reports how many segments it
// used; (nil, 0) means not found.
type SubschemaLocator interface {
	FindSubschema(tail []string) (*Schema, int)
}

// KeywordConstraint is the compiled form of one keyword within a schema
// constraint.
type KeywordConstraint struct {
	// Keyword is the owning keyword's name.
	Keyword string
	// SiblingDependencies names sibling keywords whose annotations this
	// constraint consumes. When a dependency is absent from the schema or
	// its evaluation was skipped, this constraint is skipped too.
	SiblingDependencies []string
	// Evaluate runs the keyword against the local instance.
	Evaluate func(e *Evaluation, ctx *Context)
}

// KeywordFactory parses a keyword's JSON value into a Keyword. The path
// argument locates the keyword inside the schema document for errors.
type KeywordFactory func(value any, path string) (Keyword, error)

type keywordEntry struct {
	name     string
	priority int
	drafts   DraftSet
	factory  KeywordFactory
}

var keywordTable = struct {
	sync.RWMutex
	m map[string]keywordEntry
}{m: map[string]keywordEntry{}}

// RegisterKeyword installs a keyword factory in the global table. Built-in
// keywords self-register; callers may add custom vocabularies before any
// schema is parsed.
func RegisterKeyword(name string, priority int, drafts DraftSet, factory KeywordFactory) {
	keywordTable.Lock()
	defer keywordTable.Unlock()
	keywordTable.m[name] = keywordEntry{name: name, priority: priority, drafts: drafts, factory: factory}
}

func lookupKeyword(name string) (keywordEntry, bool) {
	keywordTable.RLock()
	defer keywordTable.RUnlock()
	e, ok := keywordTable.m[name]
	return e, ok
}

// keywordBase supplies the metadata methods shared by built-in keywords.
type keywordBase struct {
	name     string
	priority int
	drafts   DraftSet
}

func (b keywordBase) Name() string            { return b.name }
func (b keywordBase) Priority() int           { return b.priority }
func (b keywordBase) SupportedBy(d Draft) bool { return b.drafts.Contains(d) }

func baseFor(name string) keywordBase {
	e, _ := lookupKeyword(name)
	return keywordBase{name: e.name, priority: e.priority, drafts: e.drafts}
}

// UnrecognizedKeyword preserves a property whose name is not in the keyword
// table. It round-trips through serialization and contributes no constraint
// unless custom-keyword processing is enabled, in which case it surfaces its
// raw value as an annotation.
type UnrecognizedKeyword struct {
	name  string
	value any
}

func (u *UnrecognizedKeyword) Name() string             { return u.name }
func (u *UnrecognizedKeyword) Priority() int            { return 0 }
func (u *UnrecognizedKeyword) SupportedBy(d Draft) bool { return true }
func (u *UnrecognizedKeyword) ValueJSON() any           { return u.value }

func (u *UnrecognizedKeyword) Constrain(parent *SchemaConstraint, siblings []*KeywordConstraint, ctx *Context) (*KeywordConstraint, error) {
	if !ctx.Options.ProcessCustomKeywords {
		return nil, nil
	}
	name, value := u.name, u.value
	return &KeywordConstraint{
		Keyword: name,
		Evaluate: func(e *Evaluation, _ *Context) {
			e.Annotate(name, value)
		},
	}, nil
}

// subschemasOf enumerates every sub-schema a keyword exposes through the
// structural interfaces, paired with the pointer segments that address it.
func subschemasOf(k Keyword) []subschemaRef {
	switch t := k.(type) {
	case SubschemaContainer:
		if s := t.Subschema(); s != nil {
			return []subschemaRef{{schema: s}}
		}
	case SubschemaCollection:
		subs := t.Subschemas()
		refs := make([]subschemaRef, 0, len(subs))
		for i, s := range subs {
			refs = append(refs, subschemaRef{schema: s, index: i, indexed: true})
		}
		return refs
	case SubschemaMap:
		m := t.SubschemaMap()
		refs := make([]subschemaRef, 0, len(m))
		for name, s := range m {
			refs = append(refs, subschemaRef{schema: s, key: name, keyed: true})
		}
		return refs
	}
	return nil
}

type subschemaRef struct {
	schema  *Schema
	index   int
	indexed bool
	key     string
	keyed   bool
}

// parseSubschema parses a JSON value that must itself be a schema.
func parseSubschema(v any, path string) (*Schema, error) {
	s, err := parseSchemaValue(v, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// requireObject rejects non-object keyword values.
func requireObject(v any, name, path string) (*jsontext.Object, error) {
	switch t := v.(type) {
	case *jsontext.Object:
		return t, nil
	case map[string]any:
		obj := jsontext.NewObject()
		for _, k := range jsontext.ObjectMembers(t) {
			val, _ := jsontext.ObjectGet(t, k)
			obj.Set(k, val)
		}
		return obj, nil
	}
	return nil, parseErrorf(path, "%s must be an object, got %s", name, jsontext.KindOf(v))
}

package jsonschema

import (
	"regexp"
	"strconv"

	"github.com/reoring/jsonschema/internal/jsontext"
)

// schemaListKeyword backs allOf, anyOf, and oneOf.
type schemaListKeyword struct {
	keywordBase
	schemas []*Schema
}

func parseSchemaList(name string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		arr, ok := v.([]any)
		if !ok {
			return nil, parseErrorf(path, "%s must be an array of schemas", name)
		}
		if len(arr) == 0 {
			return nil, parseErrorf(path, "%s must not be empty", name)
		}
		k := &schemaListKeyword{keywordBase: baseFor(name)}
		for i, item := range arr {
			sub, err := parseSubschema(item, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			k.schemas = append(k.schemas, sub)
		}
		return k, nil
	}
}

func (k *schemaListKeyword) Subschemas() []*Schema { return k.schemas }
func (k *schemaListKeyword) ValueJSON() any {
	out := make([]any, len(k.schemas))
	for i, s := range k.schemas {
		out[i] = s
	}
	return out
}

func (k *schemaListKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	name := k.name
	schemas := k.schemas
	return &KeywordConstraint{
		Keyword: name,
		Evaluate: func(e *Evaluation, ctx *Context) {
			matched := 0
			for i, sub := range schemas {
				child, err := e.EvaluateInPlace(ctx, sub, []string{name, strconv.Itoa(i)})
				if err != nil {
					e.abort(err)
				}
				if child.Valid() {
					matched++
				}
			}
			switch name {
			case "allOf":
				if matched != len(schemas) {
					e.Fail(ctx, name, map[string]any{"failed": len(schemas) - matched})
				}
			case "anyOf":
				if matched == 0 {
					e.Fail(ctx, name, nil)
				}
			case "oneOf":
				if matched != 1 {
					e.Fail(ctx, name, map[string]any{"matched": matched})
				}
			}
		},
	}, nil
}

// singleSchemaKeyword backs keywords owning one sub-schema applied in place
// or per element: not, if, then, else, propertyNames, contains handled
// separately where their semantics differ.
type singleSchemaKeyword struct {
	keywordBase
	schema *Schema
}

func parseSingleSchema(name string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		sub, err := parseSubschema(v, path)
		if err != nil {
			return nil, err
		}
		return &singleSchemaKeyword{keywordBase: baseFor(name), schema: sub}, nil
	}
}

func (k *singleSchemaKeyword) Subschema() *Schema { return k.schema }
func (k *singleSchemaKeyword) ValueJSON() any     { return k.schema }

func (k *singleSchemaKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	name := k.name
	sub := k.schema
	kc := &KeywordConstraint{Keyword: name}
	switch name {
	case "not":
		kc.Evaluate = func(e *Evaluation, ctx *Context) {
			child, err := e.EvaluateInPlace(ctx, sub, []string{"not"})
			if err != nil {
				e.abort(err)
			}
			if child.Valid() {
				e.Fail(ctx, "not", nil)
			}
		}
	case "if":
		kc.Evaluate = func(e *Evaluation, ctx *Context) {
			child, err := e.EvaluateInPlace(ctx, sub, []string{"if"})
			if err != nil {
				e.abort(err)
			}
			e.Annotate("if", child.Valid())
		}
	case "then", "else":
		want := name == "then"
		kc.SiblingDependencies = []string{"if"}
		kc.Evaluate = func(e *Evaluation, ctx *Context) {
			cond, ok := e.Annotation("if")
			if !ok {
				e.Skip(name)
				return
			}
			if cond != want {
				return
			}
			child, err := e.EvaluateInPlace(ctx, sub, []string{name})
			if err != nil {
				e.abort(err)
			}
			if !child.Valid() {
				e.Fail(ctx, name, nil)
			}
		}
	case "propertyNames":
		kc.Evaluate = func(e *Evaluation, ctx *Context) {
			for _, member := range jsontext.ObjectMembers(e.Instance) {
				child, err := e.EvaluateChild(ctx, sub, member, []string{member}, []string{"propertyNames"})
				if err != nil {
					e.abort(err)
				}
				if !child.Valid() {
					e.Fail(ctx, "propertyNames", map[string]any{"name": member})
				}
			}
		}
	}
	return kc, nil
}

// propertiesKeyword applies named sub-schemas to matching members.
type propertiesKeyword struct {
	keywordBase
	schemas map[string]*Schema
	order   []string
}

func parsePropertiesKeyword(v any, path string) (Keyword, error) {
	obj, err := requireObject(v, "properties", path)
	if err != nil {
		return nil, err
	}
	k := &propertiesKeyword{keywordBase: baseFor("properties"), schemas: map[string]*Schema{}}
	for _, name := range obj.Names() {
		val, _ := obj.Get(name)
		sub, err := parseSubschema(val, path+"/"+name)
		if err != nil {
			return nil, err
		}
		k.schemas[name] = sub
		k.order = append(k.order, name)
	}
	return k, nil
}

func (k *propertiesKeyword) SubschemaMap() map[string]*Schema { return k.schemas }
func (k *propertiesKeyword) ValueJSON() any {
	obj := jsontext.NewObject()
	for _, name := range k.order {
		obj.Set(name, k.schemas[name])
	}
	return obj
}

func (k *propertiesKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	schemas := k.schemas
	order := k.order
	return &KeywordConstraint{
		Keyword: "properties",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if jsontext.KindOf(e.Instance) != jsontext.KindObject {
				return
			}
			evaluated := []any{}
			failed := false
			for _, name := range order {
				value, ok := jsontext.ObjectGet(e.Instance, name)
				if !ok {
					continue
				}
				child, err := e.EvaluateChild(ctx, schemas[name], value, []string{name}, []string{"properties", name})
				if err != nil {
					e.abort(err)
				}
				evaluated = append(evaluated, name)
				if !child.Valid() {
					failed = true
				}
			}
			if failed {
				e.Fail(ctx, "properties", nil)
				return
			}
			e.Annotate("properties", evaluated)
		},
	}, nil
}

// patternPropertiesKeyword applies sub-schemas to members whose names match
// the pattern.
type patternPropertiesKeyword struct {
	keywordBase
	patterns []*regexp.Regexp
	schemas  map[string]*Schema
	order    []string
}

func parsePatternProperties(v any, path string) (Keyword, error) {
	obj, err := requireObject(v, "patternProperties", path)
	if err != nil {
		return nil, err
	}
	k := &patternPropertiesKeyword{keywordBase: baseFor("patternProperties"), schemas: map[string]*Schema{}}
	for _, pattern := range obj.Names() {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, parseErrorf(path+"/"+pattern, "invalid pattern: %v", err)
		}
		val, _ := obj.Get(pattern)
		sub, err := parseSubschema(val, path+"/"+pattern)
		if err != nil {
			return nil, err
		}
		k.patterns = append(k.patterns, re)
		k.schemas[pattern] = sub
		k.order = append(k.order, pattern)
	}
	return k, nil
}

func (k *patternPropertiesKeyword) SubschemaMap() map[string]*Schema { return k.schemas }
func (k *patternPropertiesKeyword) ValueJSON() any {
	obj := jsontext.NewObject()
	for _, pattern := range k.order {
		obj.Set(pattern, k.schemas[pattern])
	}
	return obj
}

func (k *patternPropertiesKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	kw := k
	return &KeywordConstraint{
		Keyword: "patternProperties",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if jsontext.KindOf(e.Instance) != jsontext.KindObject {
				return
			}
			evaluated := []any{}
			failed := false
			for _, member := range jsontext.ObjectMembers(e.Instance) {
				value, _ := jsontext.ObjectGet(e.Instance, member)
				matchedAny := false
				for i, re := range kw.patterns {
					if !re.MatchString(member) {
						continue
					}
					matchedAny = true
					child, err := e.EvaluateChild(ctx, kw.schemas[kw.order[i]], value, []string{member}, []string{"patternProperties", kw.order[i]})
					if err != nil {
						e.abort(err)
					}
					if !child.Valid() {
						failed = true
					}
				}
				if matchedAny {
					evaluated = append(evaluated, member)
				}
			}
			if failed {
				e.Fail(ctx, "patternProperties", nil)
				return
			}
			e.Annotate("patternProperties", evaluated)
		},
	}, nil
}

// additionalPropertiesKeyword applies to members not claimed by properties
// or patternProperties in the same schema.
type additionalPropertiesKeyword struct {
	keywordBase
	schema *Schema
}

func parseAdditionalProperties(v any, path string) (Keyword, error) {
	sub, err := parseSubschema(v, path)
	if err != nil {
		return nil, err
	}
	return &additionalPropertiesKeyword{keywordBase: baseFor("additionalProperties"), schema: sub}, nil
}

func (k *additionalPropertiesKeyword) Subschema() *Schema { return k.schema }
func (k *additionalPropertiesKeyword) ValueJSON() any     { return k.schema }

func (k *additionalPropertiesKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	sub := k.schema
	return &KeywordConstraint{
		Keyword: "additionalProperties",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if jsontext.KindOf(e.Instance) != jsontext.KindObject {
				return
			}
			claimed := annotatedNameSet(e, "properties", "patternProperties")
			evaluated := []any{}
			var invalid []any
			for _, member := range jsontext.ObjectMembers(e.Instance) {
				if claimed[member] {
					continue
				}
				value, _ := jsontext.ObjectGet(e.Instance, member)
				child, err := e.EvaluateChild(ctx, sub, value, []string{member}, []string{"additionalProperties"})
				if err != nil {
					e.abort(err)
				}
				evaluated = append(evaluated, member)
				if !child.Valid() {
					invalid = append(invalid, member)
				}
			}
			if len(invalid) > 0 {
				e.Fail(ctx, "additionalProperties", map[string]any{"properties": invalid})
				return
			}
			e.Annotate("additionalProperties", evaluated)
		},
	}, nil
}

func annotatedNameSet(e *Evaluation, keywords ...string) map[string]bool {
	set := map[string]bool{}
	for _, kw := range keywords {
		if v, ok := e.Annotation(kw); ok {
			if names, ok := v.([]any); ok {
				for _, n := range names {
					if s, ok := n.(string); ok {
						set[s] = true
					}
				}
			}
		}
	}
	return set
}

// itemsKeyword covers both forms of items: the 2020-12 single schema
// applying after prefixItems, and the legacy array form of drafts up to
// 2019-09.
type itemsKeyword struct {
	keywordBase
	single *Schema
	tuple  []*Schema
}

func parseItemsKeyword(v any, path string) (Keyword, error) {
	k := &itemsKeyword{keywordBase: baseFor("items")}
	if arr, ok := v.([]any); ok {
		for i, item := range arr {
			sub, err := parseSubschema(item, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			k.tuple = append(k.tuple, sub)
		}
		return k, nil
	}
	sub, err := parseSubschema(v, path)
	if err != nil {
		return nil, err
	}
	k.single = sub
	return k, nil
}

func (k *itemsKeyword) Subschemas() []*Schema {
	if k.single != nil {
		return []*Schema{k.single}
	}
	return k.tuple
}

// FindSubschema addresses the single form without an index segment and the
// tuple form with one.
func (k *itemsKeyword) FindSubschema(tail []string) (*Schema, int) {
	if k.single != nil {
		return k.single, 0
	}
	if len(tail) == 0 {
		return nil, 0
	}
	idx, err := parseIndexToken(tail[0])
	if err != nil || idx < 0 || idx >= len(k.tuple) {
		return nil, 0
	}
	return k.tuple[idx], 1
}

func (k *itemsKeyword) ValueJSON() any {
	if k.single != nil {
		return k.single
	}
	out := make([]any, len(k.tuple))
	for i, s := range k.tuple {
		out[i] = s
	}
	return out
}

func (k *itemsKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, ctx *Context) (*KeywordConstraint, error) {
	kw := k
	draft := parent.schema.declaredDraft
	if kw.tuple != nil && (draft == Draft202012 || draft == DraftNext) {
		return nil, &SchemaError{
			Kind:    KindUnsupportedSchema,
			Message: "array-form items is not supported from draft 2020-12; use prefixItems",
		}
	}
	prefix := 0
	if pk, ok := parent.schema.Keyword("prefixItems"); ok && pk.SupportedBy(draft) {
		if p, ok := pk.(*prefixItemsKeyword); ok {
			prefix = len(p.schemas)
		}
	}
	return &KeywordConstraint{
		Keyword: "items",
		Evaluate: func(e *Evaluation, ctx *Context) {
			arr, ok := e.Instance.([]any)
			if !ok {
				return
			}
			failed := false
			if kw.single != nil {
				start := prefix
				if start > len(arr) {
					start = len(arr)
				}
				for i := start; i < len(arr); i++ {
					child, err := e.EvaluateChild(ctx, kw.single, arr[i], []string{strconv.Itoa(i)}, []string{"items"})
					if err != nil {
						e.abort(err)
					}
					if !child.Valid() {
						failed = true
					}
				}
				if failed {
					e.Fail(ctx, "items", nil)
					return
				}
				e.Annotate("items", true)
				return
			}
			n := len(kw.tuple)
			if n > len(arr) {
				n = len(arr)
			}
			for i := 0; i < n; i++ {
				child, err := e.EvaluateChild(ctx, kw.tuple[i], arr[i], []string{strconv.Itoa(i)}, []string{"items", strconv.Itoa(i)})
				if err != nil {
					e.abort(err)
				}
				if !child.Valid() {
					failed = true
				}
			}
			if failed {
				e.Fail(ctx, "items", nil)
				return
			}
			if n >= len(arr) {
				e.Annotate("items", true)
			} else {
				e.Annotate("items", n)
			}
		},
	}, nil
}

// prefixItemsKeyword applies per-position schemas (2020-12).
type prefixItemsKeyword struct {
	keywordBase
	schemas []*Schema
}

func parsePrefixItems(v any, path string) (Keyword, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, parseErrorf(path, "prefixItems must be an array of schemas")
	}
	k := &prefixItemsKeyword{keywordBase: baseFor("prefixItems")}
	for i, item := range arr {
		sub, err := parseSubschema(item, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		k.schemas = append(k.schemas, sub)
	}
	return k, nil
}

func (k *prefixItemsKeyword) Subschemas() []*Schema { return k.schemas }
func (k *prefixItemsKeyword) ValueJSON() any {
	out := make([]any, len(k.schemas))
	for i, s := range k.schemas {
		out[i] = s
	}
	return out
}

func (k *prefixItemsKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	schemas := k.schemas
	return &KeywordConstraint{
		Keyword: "prefixItems",
		Evaluate: func(e *Evaluation, ctx *Context) {
			arr, ok := e.Instance.([]any)
			if !ok {
				return
			}
			n := len(schemas)
			if n > len(arr) {
				n = len(arr)
			}
			failed := false
			for i := 0; i < n; i++ {
				child, err := e.EvaluateChild(ctx, schemas[i], arr[i], []string{strconv.Itoa(i)}, []string{"prefixItems", strconv.Itoa(i)})
				if err != nil {
					e.abort(err)
				}
				if !child.Valid() {
					failed = true
				}
			}
			if failed {
				e.Fail(ctx, "prefixItems", nil)
				return
			}
			if n >= len(arr) {
				e.Annotate("prefixItems", true)
			} else {
				e.Annotate("prefixItems", n)
			}
		},
	}, nil
}

// additionalItemsKeyword applies beyond the array-form items (up to draft
// 2019-09).
type additionalItemsKeyword struct {
	keywordBase
	schema *Schema
}

func parseAdditionalItems(v any, path string) (Keyword, error) {
	sub, err := parseSubschema(v, path)
	if err != nil {
		return nil, err
	}
	return &additionalItemsKeyword{keywordBase: baseFor("additionalItems"), schema: sub}, nil
}

func (k *additionalItemsKeyword) Subschema() *Schema { return k.schema }
func (k *additionalItemsKeyword) ValueJSON() any     { return k.schema }

func (k *additionalItemsKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	sub := k.schema
	return &KeywordConstraint{
		Keyword:             "additionalItems",
		SiblingDependencies: []string{"items"},
		Evaluate: func(e *Evaluation, ctx *Context) {
			arr, ok := e.Instance.([]any)
			if !ok {
				return
			}
			start, ok := itemsCovered(e)
			if !ok || start >= len(arr) {
				return
			}
			failed := false
			for i := start; i < len(arr); i++ {
				child, err := e.EvaluateChild(ctx, sub, arr[i], []string{strconv.Itoa(i)}, []string{"additionalItems"})
				if err != nil {
					e.abort(err)
				}
				if !child.Valid() {
					failed = true
				}
			}
			if failed {
				e.Fail(ctx, "additionalItems", nil)
				return
			}
			e.Annotate("additionalItems", true)
		},
	}, nil
}

// itemsCovered reports how many leading items the sibling items keyword
// evaluated; false when items covered the whole array.
func itemsCovered(e *Evaluation) (int, bool) {
	v, ok := e.Annotation("items")
	if !ok {
		return 0, false
	}
	if n, isInt := v.(int); isInt {
		return n, true
	}
	return 0, false
}

// containsKeyword requires at least one matching item, modulated by
// minContains and maxContains.
type containsKeyword struct {
	keywordBase
	schema *Schema
}

func parseContains(v any, path string) (Keyword, error) {
	sub, err := parseSubschema(v, path)
	if err != nil {
		return nil, err
	}
	return &containsKeyword{keywordBase: baseFor("contains"), schema: sub}, nil
}

func (k *containsKeyword) Subschema() *Schema { return k.schema }
func (k *containsKeyword) ValueJSON() any     { return k.schema }

func (k *containsKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	sub := k.schema
	_, hasMinContains := parent.schema.Keyword("minContains")
	return &KeywordConstraint{
		Keyword: "contains",
		Evaluate: func(e *Evaluation, ctx *Context) {
			arr, ok := e.Instance.([]any)
			if !ok {
				return
			}
			matched := []any{}
			for i, item := range arr {
				child, err := e.EvaluateChild(ctx, sub, item, []string{strconv.Itoa(i)}, []string{"contains"})
				if err != nil {
					e.abort(err)
				}
				if child.Valid() {
					matched = append(matched, i)
				}
			}
			e.Annotate("contains", matched)
			if len(matched) == 0 && !hasMinContains {
				e.Fail(ctx, "contains", nil)
			}
		},
	}, nil
}

// dependentSchemasKeyword applies a sub-schema when its property is present.
type dependentSchemasKeyword struct {
	keywordBase
	schemas map[string]*Schema
	order   []string
}

func parseDependentSchemas(v any, path string) (Keyword, error) {
	obj, err := requireObject(v, "dependentSchemas", path)
	if err != nil {
		return nil, err
	}
	k := &dependentSchemasKeyword{keywordBase: baseFor("dependentSchemas"), schemas: map[string]*Schema{}}
	for _, name := range obj.Names() {
		val, _ := obj.Get(name)
		sub, err := parseSubschema(val, path+"/"+name)
		if err != nil {
			return nil, err
		}
		k.schemas[name] = sub
		k.order = append(k.order, name)
	}
	return k, nil
}

func (k *dependentSchemasKeyword) SubschemaMap() map[string]*Schema { return k.schemas }
func (k *dependentSchemasKeyword) ValueJSON() any {
	obj := jsontext.NewObject()
	for _, name := range k.order {
		obj.Set(name, k.schemas[name])
	}
	return obj
}

func (k *dependentSchemasKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	kw := k
	return &KeywordConstraint{
		Keyword: "dependentSchemas",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if jsontext.KindOf(e.Instance) != jsontext.KindObject {
				return
			}
			for _, name := range kw.order {
				if _, present := jsontext.ObjectGet(e.Instance, name); !present {
					continue
				}
				child, err := e.EvaluateInPlace(ctx, kw.schemas[name], []string{"dependentSchemas", name})
				if err != nil {
					e.abort(err)
				}
				if !child.Valid() {
					e.Fail(ctx, "dependentSchemas", map[string]any{"property": name})
				}
			}
		},
	}, nil
}

// dependenciesKeyword is the legacy mixed form of drafts 6 and 7: each value
// is either a sub-schema or a list of required property names.
type dependenciesKeyword struct {
	keywordBase
	schemas  map[string]*Schema
	required map[string][]string
	order    []string
}

func parseDependencies(v any, path string) (Keyword, error) {
	obj, err := requireObject(v, "dependencies", path)
	if err != nil {
		return nil, err
	}
	k := &dependenciesKeyword{
		keywordBase: baseFor("dependencies"),
		schemas:     map[string]*Schema{},
		required:    map[string][]string{},
	}
	for _, name := range obj.Names() {
		val, _ := obj.Get(name)
		if arr, ok := val.([]any); ok {
			names := make([]string, 0, len(arr))
			for _, item := range arr {
				s, ok := item.(string)
				if !ok {
					return nil, parseErrorf(path+"/"+name, "dependency lists must contain strings")
				}
				names = append(names, s)
			}
			k.required[name] = names
		} else {
			sub, err := parseSubschema(val, path+"/"+name)
			if err != nil {
				return nil, err
			}
			k.schemas[name] = sub
		}
		k.order = append(k.order, name)
	}
	return k, nil
}

func (k *dependenciesKeyword) SubschemaMap() map[string]*Schema { return k.schemas }
func (k *dependenciesKeyword) ValueJSON() any {
	obj := jsontext.NewObject()
	for _, name := range k.order {
		if sub, ok := k.schemas[name]; ok {
			obj.Set(name, sub)
			continue
		}
		names := k.required[name]
		out := make([]any, len(names))
		for i, n := range names {
			out[i] = n
		}
		obj.Set(name, out)
	}
	return obj
}

func (k *dependenciesKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	kw := k
	return &KeywordConstraint{
		Keyword: "dependencies",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if jsontext.KindOf(e.Instance) != jsontext.KindObject {
				return
			}
			for _, name := range kw.order {
				if _, present := jsontext.ObjectGet(e.Instance, name); !present {
					continue
				}
				if sub, ok := kw.schemas[name]; ok {
					child, err := e.EvaluateInPlace(ctx, sub, []string{"dependencies", name})
					if err != nil {
						e.abort(err)
					}
					if !child.Valid() {
						e.Fail(ctx, "dependencies", map[string]any{"property": name})
					}
					continue
				}
				for _, req := range kw.required[name] {
					if _, ok := jsontext.ObjectGet(e.Instance, req); !ok {
						e.Fail(ctx, "dependencies", map[string]any{"property": name})
						break
					}
				}
			}
		},
	}, nil
}

// unevaluatedPropertiesKeyword applies to members no in-place or local
// applicator evaluated.
type unevaluatedPropertiesKeyword struct {
	keywordBase
	schema *Schema
}

func parseUnevaluatedProperties(v any, path string) (Keyword, error) {
	sub, err := parseSubschema(v, path)
	if err != nil {
		return nil, err
	}
	return &unevaluatedPropertiesKeyword{keywordBase: baseFor("unevaluatedProperties"), schema: sub}, nil
}

func (k *unevaluatedPropertiesKeyword) Subschema() *Schema { return k.schema }
func (k *unevaluatedPropertiesKeyword) ValueJSON() any     { return k.schema }

func (k *unevaluatedPropertiesKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	sub := k.schema
	return &KeywordConstraint{
		Keyword: "unevaluatedProperties",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if jsontext.KindOf(e.Instance) != jsontext.KindObject {
				return
			}
			claimed := map[string]bool{}
			for _, kw := range []string{"properties", "patternProperties", "additionalProperties", "unevaluatedProperties"} {
				for _, v := range e.collectAnnotations(kw) {
					if names, ok := v.([]any); ok {
						for _, n := range names {
							if s, ok := n.(string); ok {
								claimed[s] = true
							}
						}
					}
				}
			}
			evaluated := []any{}
			var invalid []any
			for _, member := range jsontext.ObjectMembers(e.Instance) {
				if claimed[member] {
					continue
				}
				value, _ := jsontext.ObjectGet(e.Instance, member)
				child, err := e.EvaluateChild(ctx, sub, value, []string{member}, []string{"unevaluatedProperties"})
				if err != nil {
					e.abort(err)
				}
				evaluated = append(evaluated, member)
				if !child.Valid() {
					invalid = append(invalid, member)
				}
			}
			if len(invalid) > 0 {
				e.Fail(ctx, "unevaluatedProperties", map[string]any{"properties": invalid})
				return
			}
			e.Annotate("unevaluatedProperties", evaluated)
		},
	}, nil
}

// unevaluatedItemsKeyword applies to array positions no in-place or local
// applicator evaluated.
type unevaluatedItemsKeyword struct {
	keywordBase
	schema *Schema
}

func parseUnevaluatedItems(v any, path string) (Keyword, error) {
	sub, err := parseSubschema(v, path)
	if err != nil {
		return nil, err
	}
	return &unevaluatedItemsKeyword{keywordBase: baseFor("unevaluatedItems"), schema: sub}, nil
}

func (k *unevaluatedItemsKeyword) Subschema() *Schema { return k.schema }
func (k *unevaluatedItemsKeyword) ValueJSON() any     { return k.schema }

func (k *unevaluatedItemsKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	sub := k.schema
	return &KeywordConstraint{
		Keyword: "unevaluatedItems",
		Evaluate: func(e *Evaluation, ctx *Context) {
			arr, ok := e.Instance.([]any)
			if !ok {
				return
			}
			covered := 0
			all := false
			for _, kw := range []string{"prefixItems", "items", "additionalItems", "unevaluatedItems"} {
				for _, v := range e.collectAnnotations(kw) {
					switch t := v.(type) {
					case bool:
						all = all || t
					case int:
						if t > covered {
							covered = t
						}
					}
				}
			}
			matched := map[int]bool{}
			for _, v := range e.collectAnnotations("contains") {
				if idxs, ok := v.([]any); ok {
					for _, idx := range idxs {
						if i, ok := idx.(int); ok {
							matched[i] = true
						}
					}
				}
			}
			if all {
				return
			}
			failed := false
			evaluatedAny := false
			for i := covered; i < len(arr); i++ {
				if matched[i] {
					continue
				}
				child, err := e.EvaluateChild(ctx, sub, arr[i], []string{strconv.Itoa(i)}, []string{"unevaluatedItems"})
				if err != nil {
					e.abort(err)
				}
				evaluatedAny = true
				if !child.Valid() {
					failed = true
				}
			}
			if failed {
				e.Fail(ctx, "unevaluatedItems", nil)
				return
			}
			if evaluatedAny || covered >= len(arr) {
				e.Annotate("unevaluatedItems", true)
			}
		},
	}, nil
}

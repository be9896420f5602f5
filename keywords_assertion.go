package jsonschema

import (
	"math/big"
	"regexp"
	"unicode/utf8"

	"github.com/reoring/jsonschema/internal/jsontext"
)

// typeKeyword asserts the instance's JSON type; the value is a type name or
// a list of type names.
type typeKeyword struct {
	keywordBase
	types  []string
	single bool
}

var validTypeNames = map[string]bool{
	"null": true, "boolean": true, "object": true,
	"array": true, "number": true, "string": true, "integer": true,
}

func parseTypeKeyword(v any, path string) (Keyword, error) {
	k := &typeKeyword{keywordBase: baseFor("type")}
	switch t := v.(type) {
	case string:
		if !validTypeNames[t] {
			return nil, parseErrorf(path, "unknown type %q", t)
		}
		k.types = []string{t}
		k.single = true
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok || !validTypeNames[s] {
				return nil, parseErrorf(path, "type list must contain type names")
			}
			k.types = append(k.types, s)
		}
	default:
		return nil, parseErrorf(path, "type must be a string or an array of strings")
	}
	return k, nil
}

func (k *typeKeyword) ValueJSON() any {
	if k.single {
		return k.types[0]
	}
	out := make([]any, len(k.types))
	for i, t := range k.types {
		out[i] = t
	}
	return out
}

func (k *typeKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	types := k.types
	return &KeywordConstraint{
		Keyword: "type",
		Evaluate: func(e *Evaluation, ctx *Context) {
			actual := jsontext.KindOf(e.Instance).String()
			if e.Instance == nil {
				actual = "null"
			}
			for _, t := range types {
				if t == actual {
					return
				}
				if t == "integer" && actual == "number" {
					if r, ok := jsontext.Number(e.Instance); ok && r.IsInt() {
						return
					}
				}
			}
			expected := k.ValueJSON()
			e.Fail(ctx, "type", map[string]any{"received": actual, "expected": expected})
		},
	}, nil
}

// enumKeyword asserts membership in a fixed value set.
type enumKeyword struct {
	keywordBase
	values []any
}

func parseEnumKeyword(v any, path string) (Keyword, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, parseErrorf(path, "enum must be an array")
	}
	if len(arr) == 0 {
		return nil, parseErrorf(path, "enum must not be empty")
	}
	return &enumKeyword{keywordBase: baseFor("enum"), values: arr}, nil
}

func (k *enumKeyword) ValueJSON() any { return k.values }

func (k *enumKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	values := k.values
	return &KeywordConstraint{
		Keyword: "enum",
		Evaluate: func(e *Evaluation, ctx *Context) {
			for _, v := range values {
				if jsontext.Equal(e.Instance, v) {
					return
				}
			}
			e.Fail(ctx, "enum", map[string]any{"values": values})
		},
	}, nil
}

// constKeyword asserts equality with a fixed value, null included.
type constKeyword struct {
	keywordBase
	value any
}

func parseConstKeyword(v any, path string) (Keyword, error) {
	return &constKeyword{keywordBase: baseFor("const"), value: v}, nil
}

func (k *constKeyword) ValueJSON() any { return k.value }

func (k *constKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	value := k.value
	return &KeywordConstraint{
		Keyword: "const",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if !jsontext.Equal(e.Instance, value) {
				e.Fail(ctx, "const", map[string]any{"value": value})
			}
		},
	}, nil
}

// numberLimitKeyword backs maximum, minimum, and the exclusive variants.
type numberLimitKeyword struct {
	keywordBase
	limit *big.Rat
	raw   any
}

func parseNumberLimit(name string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		r, ok := jsontext.Number(v)
		if !ok {
			return nil, parseErrorf(path, "%s must be a number", name)
		}
		return &numberLimitKeyword{keywordBase: baseFor(name), limit: r, raw: v}, nil
	}
}

func (k *numberLimitKeyword) ValueJSON() any { return k.raw }

func (k *numberLimitKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	name := k.name
	limit := k.limit
	raw := k.raw
	return &KeywordConstraint{
		Keyword: name,
		Evaluate: func(e *Evaluation, ctx *Context) {
			r, ok := jsontext.Number(e.Instance)
			if !ok {
				return
			}
			cmp := r.Cmp(limit)
			failed := false
			switch name {
			case "maximum":
				failed = cmp > 0
			case "exclusiveMaximum":
				failed = cmp >= 0
			case "minimum":
				failed = cmp < 0
			case "exclusiveMinimum":
				failed = cmp <= 0
			}
			if failed {
				e.Fail(ctx, name, map[string]any{"received": e.Instance, "limit": raw})
			}
		},
	}, nil
}

// multipleOfKeyword asserts divisibility.
type multipleOfKeyword struct {
	keywordBase
	divisor *big.Rat
	raw     any
}

func parseMultipleOf(v any, path string) (Keyword, error) {
	r, ok := jsontext.Number(v)
	if !ok || r.Sign() <= 0 {
		return nil, parseErrorf(path, "multipleOf must be a positive number")
	}
	return &multipleOfKeyword{keywordBase: baseFor("multipleOf"), divisor: r, raw: v}, nil
}

func (k *multipleOfKeyword) ValueJSON() any { return k.raw }

func (k *multipleOfKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	divisor := k.divisor
	raw := k.raw
	return &KeywordConstraint{
		Keyword: "multipleOf",
		Evaluate: func(e *Evaluation, ctx *Context) {
			r, ok := jsontext.Number(e.Instance)
			if !ok {
				return
			}
			q := new(big.Rat).Quo(r, divisor)
			if !q.IsInt() {
				e.Fail(ctx, "multipleOf", map[string]any{"received": e.Instance, "divisor": raw})
			}
		},
	}, nil
}

// lengthLimitKeyword backs maxLength/minLength (rune counts), maxItems/
// minItems, and maxProperties/minProperties.
type lengthLimitKeyword struct {
	keywordBase
	limit int
}

func parseLengthLimit(name string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		r, ok := jsontext.Number(v)
		if !ok || !r.IsInt() || r.Sign() < 0 {
			return nil, parseErrorf(path, "%s must be a non-negative integer", name)
		}
		return &lengthLimitKeyword{keywordBase: baseFor(name), limit: int(r.Num().Int64())}, nil
	}
}

func (k *lengthLimitKeyword) ValueJSON() any { return k.limit }

func (k *lengthLimitKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	name := k.name
	limit := k.limit
	return &KeywordConstraint{
		Keyword: name,
		Evaluate: func(e *Evaluation, ctx *Context) {
			var received int
			switch name {
			case "maxLength", "minLength":
				s, ok := e.Instance.(string)
				if !ok {
					return
				}
				received = utf8.RuneCountInString(s)
			case "maxItems", "minItems":
				arr, ok := e.Instance.([]any)
				if !ok {
					return
				}
				received = len(arr)
			case "maxProperties", "minProperties":
				if jsontext.KindOf(e.Instance) != jsontext.KindObject {
					return
				}
				received = len(jsontext.ObjectMembers(e.Instance))
			}
			var failed bool
			switch name[:3] {
			case "max":
				failed = received > limit
			case "min":
				failed = received < limit
			}
			if failed {
				e.Fail(ctx, name, map[string]any{"received": received, "limit": limit})
			}
		},
	}, nil
}

// patternKeyword asserts a regular expression match.
type patternKeyword struct {
	keywordBase
	re  *regexp.Regexp
	raw string
}

func parsePatternKeyword(v any, path string) (Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, parseErrorf(path, "pattern must be a string")
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return nil, parseErrorf(path, "invalid pattern: %v", err)
	}
	return &patternKeyword{keywordBase: baseFor("pattern"), re: re, raw: s}, nil
}

func (k *patternKeyword) ValueJSON() any { return k.raw }

func (k *patternKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	re := k.re
	raw := k.raw
	return &KeywordConstraint{
		Keyword: "pattern",
		Evaluate: func(e *Evaluation, ctx *Context) {
			s, ok := e.Instance.(string)
			if !ok {
				return
			}
			if !re.MatchString(s) {
				e.Fail(ctx, "pattern", map[string]any{"pattern": raw})
			}
		},
	}, nil
}

// uniqueItemsKeyword asserts pairwise inequality of array items.
type uniqueItemsKeyword struct {
	keywordBase
	unique bool
}

func parseUniqueItems(v any, path string) (Keyword, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, parseErrorf(path, "uniqueItems must be a boolean")
	}
	return &uniqueItemsKeyword{keywordBase: baseFor("uniqueItems"), unique: b}, nil
}

func (k *uniqueItemsKeyword) ValueJSON() any { return k.unique }

func (k *uniqueItemsKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	if !k.unique {
		return nil, nil
	}
	return &KeywordConstraint{
		Keyword: "uniqueItems",
		Evaluate: func(e *Evaluation, ctx *Context) {
			arr, ok := e.Instance.([]any)
			if !ok {
				return
			}
			for i := 0; i < len(arr); i++ {
				for j := i + 1; j < len(arr); j++ {
					if jsontext.Equal(arr[i], arr[j]) {
						e.Fail(ctx, "uniqueItems", map[string]any{"duplicates": []any{i, j}})
						return
					}
				}
			}
		},
	}, nil
}

// containsLimitKeyword backs maxContains and minContains, which bound the
// match count annotated by contains.
type containsLimitKeyword struct {
	keywordBase
	limit int
}

func parseContainsLimit(name string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		r, ok := jsontext.Number(v)
		if !ok || !r.IsInt() || r.Sign() < 0 {
			return nil, parseErrorf(path, "%s must be a non-negative integer", name)
		}
		return &containsLimitKeyword{keywordBase: baseFor(name), limit: int(r.Num().Int64())}, nil
	}
}

func (k *containsLimitKeyword) ValueJSON() any { return k.limit }

func (k *containsLimitKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	name := k.name
	limit := k.limit
	return &KeywordConstraint{
		Keyword:             name,
		SiblingDependencies: []string{"contains"},
		Evaluate: func(e *Evaluation, ctx *Context) {
			v, ok := e.Annotation("contains")
			if !ok {
				e.Skip(name)
				return
			}
			matched, _ := v.([]any)
			received := len(matched)
			failed := false
			switch name {
			case "maxContains":
				failed = received > limit
			case "minContains":
				failed = received < limit
			}
			if failed {
				e.Fail(ctx, name, map[string]any{"received": received, "limit": limit})
			}
		},
	}, nil
}

// requiredKeyword asserts member presence.
type requiredKeyword struct {
	keywordBase
	names []string
}

func parseRequiredKeyword(v any, path string) (Keyword, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, parseErrorf(path, "required must be an array of strings")
	}
	k := &requiredKeyword{keywordBase: baseFor("required")}
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, parseErrorf(path, "required must contain strings")
		}
		k.names = append(k.names, s)
	}
	return k, nil
}

func (k *requiredKeyword) ValueJSON() any {
	out := make([]any, len(k.names))
	for i, n := range k.names {
		out[i] = n
	}
	return out
}

func (k *requiredKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	names := k.names
	return &KeywordConstraint{
		Keyword: "required",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if jsontext.KindOf(e.Instance) != jsontext.KindObject {
				return
			}
			var missing []any
			for _, name := range names {
				if _, ok := jsontext.ObjectGet(e.Instance, name); !ok {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				e.Fail(ctx, "required", map[string]any{"missing": missing})
			}
		},
	}, nil
}

// dependentRequiredKeyword asserts conditional member presence.
type dependentRequiredKeyword struct {
	keywordBase
	deps  map[string][]string
	order []string
}

func parseDependentRequired(v any, path string) (Keyword, error) {
	obj, err := requireObject(v, "dependentRequired", path)
	if err != nil {
		return nil, err
	}
	k := &dependentRequiredKeyword{keywordBase: baseFor("dependentRequired"), deps: map[string][]string{}}
	for _, name := range obj.Names() {
		val, _ := obj.Get(name)
		arr, ok := val.([]any)
		if !ok {
			return nil, parseErrorf(path+"/"+name, "dependentRequired values must be arrays of strings")
		}
		names := make([]string, 0, len(arr))
		for _, item := range arr {
			s, ok := item.(string)
			if !ok {
				return nil, parseErrorf(path+"/"+name, "dependentRequired values must be arrays of strings")
			}
			names = append(names, s)
		}
		k.deps[name] = names
		k.order = append(k.order, name)
	}
	return k, nil
}

func (k *dependentRequiredKeyword) ValueJSON() any {
	obj := jsontext.NewObject()
	for _, name := range k.order {
		names := k.deps[name]
		out := make([]any, len(names))
		for i, n := range names {
			out[i] = n
		}
		obj.Set(name, out)
	}
	return obj
}

func (k *dependentRequiredKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	kw := k
	return &KeywordConstraint{
		Keyword: "dependentRequired",
		Evaluate: func(e *Evaluation, ctx *Context) {
			if jsontext.KindOf(e.Instance) != jsontext.KindObject {
				return
			}
			for _, name := range kw.order {
				if _, present := jsontext.ObjectGet(e.Instance, name); !present {
					continue
				}
				var missing []any
				for _, req := range kw.deps[name] {
					if _, ok := jsontext.ObjectGet(e.Instance, req); !ok {
						missing = append(missing, req)
					}
				}
				if len(missing) > 0 {
					e.Fail(ctx, "dependentRequired", map[string]any{"property": name, "missing": missing})
				}
			}
		},
	}, nil
}

// formatKeyword annotates the declared format. Assertion behavior belongs to
// format-checker plugins, which are out of scope; the annotation is always
// produced.
type formatKeyword struct {
	keywordBase
	format string
}

func parseFormatKeyword(v any, path string) (Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, parseErrorf(path, "format must be a string")
	}
	return &formatKeyword{keywordBase: baseFor("format"), format: s}, nil
}

func (k *formatKeyword) ValueJSON() any { return k.format }

func (k *formatKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	format := k.format
	return &KeywordConstraint{
		Keyword: "format",
		Evaluate: func(e *Evaluation, ctx *Context) {
			e.Annotate("format", format)
		},
	}, nil
}

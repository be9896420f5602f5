package jsonschema

// annotationKeyword backs the purely informational keywords: title,
// description, default, deprecated, readOnly, writeOnly, examples,
// contentMediaType, and contentEncoding. The value round-trips unchanged and
// surfaces as an annotation.
type annotationKeyword struct {
	keywordBase
	value any
}

func parseAnnotationKeyword(name string, check func(v any) bool, want string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		if check != nil && !check(v) {
			return nil, parseErrorf(path, "%s must be %s", name, want)
		}
		return &annotationKeyword{keywordBase: baseFor(name), value: v}, nil
	}
}

func (k *annotationKeyword) ValueJSON() any { return k.value }

func (k *annotationKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	name := k.name
	value := k.value
	return &KeywordConstraint{
		Keyword: name,
		Evaluate: func(e *Evaluation, _ *Context) {
			e.Annotate(name, value)
		},
	}, nil
}

func isString(v any) bool { _, ok := v.(string); return ok }
func isBool(v any) bool   { _, ok := v.(bool); return ok }
func isArray(v any) bool  { _, ok := v.([]any); return ok }

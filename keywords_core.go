package jsonschema

import (
	"strings"

	"github.com/reoring/jsonschema/internal/jsonpointer"
	"github.com/reoring/jsonschema/internal/jsontext"
)

// schemaKeyword carries the $schema meta-schema identifier.
type schemaKeyword struct {
	keywordBase
	uri string
}

func parseSchemaKeyword(v any, path string) (Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, parseErrorf(path, "$schema must be a string")
	}
	return &schemaKeyword{keywordBase: baseFor("$schema"), uri: s}, nil
}

func (k *schemaKeyword) ValueJSON() any { return k.uri }
func (k *schemaKeyword) Constrain(*SchemaConstraint, []*KeywordConstraint, *Context) (*KeywordConstraint, error) {
	return nil, nil
}

// idKeyword carries $id (and the draft-6 id) identifiers; resolution happens
// during initialization.
type idKeyword struct {
	keywordBase
	uri string
}

func parseIDKeyword(name string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		s, ok := v.(string)
		if !ok {
			return nil, parseErrorf(path, "%s must be a string", name)
		}
		return &idKeyword{keywordBase: baseFor(name), uri: s}, nil
	}
}

func (k *idKeyword) ValueJSON() any { return k.uri }
func (k *idKeyword) Constrain(*SchemaConstraint, []*KeywordConstraint, *Context) (*KeywordConstraint, error) {
	return nil, nil
}

// anchorKeyword covers $anchor and $dynamicAnchor.
type anchorKeyword struct {
	keywordBase
	name string
}

func parseAnchorKeyword(name string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		s, ok := v.(string)
		if !ok {
			return nil, parseErrorf(path, "%s must be a string", name)
		}
		if !anchorNamePattern.MatchString(s) {
			return nil, parseErrorf(path, "%q is not a valid anchor name", s)
		}
		return &anchorKeyword{keywordBase: baseFor(name), name: s}, nil
	}
}

func (k *anchorKeyword) ValueJSON() any { return k.name }
func (k *anchorKeyword) Constrain(*SchemaConstraint, []*KeywordConstraint, *Context) (*KeywordConstraint, error) {
	return nil, nil
}

// recursiveAnchorKeyword is the boolean $recursiveAnchor of draft 2019-09.
type recursiveAnchorKeyword struct {
	keywordBase
	value bool
}

func parseRecursiveAnchor(v any, path string) (Keyword, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, parseErrorf(path, "$recursiveAnchor must be a boolean")
	}
	return &recursiveAnchorKeyword{keywordBase: baseFor("$recursiveAnchor"), value: b}, nil
}

func (k *recursiveAnchorKeyword) ValueJSON() any { return k.value }
func (k *recursiveAnchorKeyword) Constrain(*SchemaConstraint, []*KeywordConstraint, *Context) (*KeywordConstraint, error) {
	return nil, nil
}

// commentKeyword preserves $comment.
type commentKeyword struct {
	keywordBase
	text string
}

func parseCommentKeyword(v any, path string) (Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, parseErrorf(path, "$comment must be a string")
	}
	return &commentKeyword{keywordBase: baseFor("$comment"), text: s}, nil
}

func (k *commentKeyword) ValueJSON() any { return k.text }
func (k *commentKeyword) Constrain(*SchemaConstraint, []*KeywordConstraint, *Context) (*KeywordConstraint, error) {
	return nil, nil
}

// vocabularyKeyword preserves $vocabulary declarations.
type vocabularyKeyword struct {
	keywordBase
	vocab map[string]bool
	order []string
}

func parseVocabularyKeyword(v any, path string) (Keyword, error) {
	obj, err := requireObject(v, "$vocabulary", path)
	if err != nil {
		return nil, err
	}
	k := &vocabularyKeyword{keywordBase: baseFor("$vocabulary"), vocab: map[string]bool{}}
	for _, name := range obj.Names() {
		val, _ := obj.Get(name)
		b, ok := val.(bool)
		if !ok {
			return nil, parseErrorf(path+"/"+name, "$vocabulary values must be booleans")
		}
		k.vocab[name] = b
		k.order = append(k.order, name)
	}
	return k, nil
}

func (k *vocabularyKeyword) ValueJSON() any {
	obj := jsontext.NewObject()
	for _, name := range k.order {
		obj.Set(name, k.vocab[name])
	}
	return obj
}
func (k *vocabularyKeyword) Constrain(*SchemaConstraint, []*KeywordConstraint, *Context) (*KeywordConstraint, error) {
	return nil, nil
}

// defsKeyword holds named schema definitions ($defs and the legacy
// definitions). It contributes no constraint; its children are reachable
// through references only.
type defsKeyword struct {
	keywordBase
	schemas map[string]*Schema
	order   []string
}

func parseDefsKeyword(name string) KeywordFactory {
	return func(v any, path string) (Keyword, error) {
		obj, err := requireObject(v, name, path)
		if err != nil {
			return nil, err
		}
		k := &defsKeyword{keywordBase: baseFor(name), schemas: map[string]*Schema{}}
		for _, defName := range obj.Names() {
			val, _ := obj.Get(defName)
			sub, err := parseSubschema(val, path+"/"+defName)
			if err != nil {
				return nil, err
			}
			k.schemas[defName] = sub
			k.order = append(k.order, defName)
		}
		return k, nil
	}
}

func (k *defsKeyword) SubschemaMap() map[string]*Schema { return k.schemas }

func (k *defsKeyword) ValueJSON() any {
	obj := jsontext.NewObject()
	for _, name := range k.order {
		obj.Set(name, k.schemas[name])
	}
	return obj
}
func (k *defsKeyword) Constrain(*SchemaConstraint, []*KeywordConstraint, *Context) (*KeywordConstraint, error) {
	return nil, nil
}

// refKeyword is $ref. The target resolves lazily at evaluation time within
// the current dynamic scope.
type refKeyword struct {
	keywordBase
	ref string
}

func parseRefKeyword(v any, path string) (Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, parseErrorf(path, "$ref must be a string")
	}
	return &refKeyword{keywordBase: baseFor("$ref"), ref: s}, nil
}

func (k *refKeyword) ValueJSON() any { return k.ref }

func (k *refKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	ref := k.ref
	base := parent.SchemaBaseURI
	return &KeywordConstraint{
		Keyword: "$ref",
		Evaluate: func(e *Evaluation, ctx *Context) {
			target, location, err := resolveReference(ctx, base, ref)
			if err != nil {
				e.abort(err)
			}
			tc, err := target.constraint(jsonpointer.New("$ref"), location, ctx)
			if err != nil {
				e.abort(err)
			}
			child, err := e.evaluateResolved(ctx, tc, []string{"$ref"})
			if err != nil {
				e.abort(err)
			}
			if !child.Valid() {
				e.Fail(ctx, "$ref", nil)
			}
		},
	}, nil
}

// dynamicRefKeyword is $dynamicRef. The anchor name resolves against the
// dynamic scope outermost-first, falling back to static resolution.
type dynamicRefKeyword struct {
	keywordBase
	ref string
}

func parseDynamicRefKeyword(v any, path string) (Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, parseErrorf(path, "$dynamicRef must be a string")
	}
	return &dynamicRefKeyword{keywordBase: baseFor("$dynamicRef"), ref: s}, nil
}

func (k *dynamicRefKeyword) ValueJSON() any { return k.ref }

func (k *dynamicRefKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	ref := k.ref
	base := parent.SchemaBaseURI
	return &KeywordConstraint{
		Keyword: "$dynamicRef",
		Evaluate: func(e *Evaluation, ctx *Context) {
			var target *Schema
			var location string
			_, frag := splitFragment(ref)
			if frag != "" && anchorNamePattern.MatchString(frag) {
				if t, ok := ctx.Scope.outermostDynamicAnchor(frag, ctx.Registry()); ok {
					target, location = t, t.baseURI+"#"+frag
				}
			}
			if target == nil {
				t, loc, err := resolveReference(ctx, base, ref)
				if err != nil {
					e.abort(err)
				}
				target, location = t, loc
			}
			tc, err := target.constraint(jsonpointer.New("$dynamicRef"), location, ctx)
			if err != nil {
				e.abort(err)
			}
			child, err := e.evaluateResolved(ctx, tc, []string{"$dynamicRef"})
			if err != nil {
				e.abort(err)
			}
			if !child.Valid() {
				e.Fail(ctx, "$dynamicRef", nil)
			}
		},
	}, nil
}

// recursiveRefKeyword is the draft 2019-09 $recursiveRef. It targets the
// outermost scope entry declaring $recursiveAnchor: true.
type recursiveRefKeyword struct {
	keywordBase
	ref string
}

func parseRecursiveRefKeyword(v any, path string) (Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, parseErrorf(path, "$recursiveRef must be a string")
	}
	if s != "#" {
		return nil, parseErrorf(path, "$recursiveRef only supports the value \"#\"")
	}
	return &recursiveRefKeyword{keywordBase: baseFor("$recursiveRef"), ref: s}, nil
}

func (k *recursiveRefKeyword) ValueJSON() any { return k.ref }

func (k *recursiveRefKeyword) Constrain(parent *SchemaConstraint, _ []*KeywordConstraint, _ *Context) (*KeywordConstraint, error) {
	ref := k.ref
	base := parent.SchemaBaseURI
	return &KeywordConstraint{
		Keyword: "$recursiveRef",
		Evaluate: func(e *Evaluation, ctx *Context) {
			var target *Schema
			var location string
			if t, ok := ctx.Scope.outermostRecursiveAnchor(ctx.Registry()); ok {
				target, location = t, t.baseURI+"#"
			} else {
				t, loc, err := resolveReference(ctx, base, ref)
				if err != nil {
					e.abort(err)
				}
				target, location = t, loc
			}
			tc, err := target.constraint(jsonpointer.New("$recursiveRef"), location, ctx)
			if err != nil {
				e.abort(err)
			}
			child, err := e.evaluateResolved(ctx, tc, []string{"$recursiveRef"})
			if err != nil {
				e.abort(err)
			}
			if !child.Valid() {
				e.Fail(ctx, "$recursiveRef", nil)
			}
		},
	}, nil
}

// resolveReference locates a reference target: the document part resolves
// through the registry, the fragment as a JSON Pointer or an anchor name.
func resolveReference(ctx *Context, base, ref string) (*Schema, string, error) {
	resolved, err := resolveURI(base, ref)
	if err != nil {
		return nil, "", unresolvedRef("", ref)
	}
	doc, frag := splitFragment(resolved)
	root, err := ctx.fetchSchema(doc)
	if err != nil {
		return nil, "", err
	}
	if root == nil {
		return nil, "", unresolvedRef("", doc)
	}
	switch {
	case frag == "":
		return root, doc + "#", nil
	case strings.HasPrefix(frag, "/"):
		ptr, ok := jsonpointer.Parse(frag)
		if !ok {
			return nil, "", unresolvedRef(frag, doc)
		}
		target, found := root.findSubschema(ptr.Tokens(), ctx.Registry())
		if !found {
			return nil, "", unresolvedRef(frag, doc)
		}
		return target, doc + "#" + frag, nil
	default:
		if target, ok := root.GetAnchor(frag); ok {
			return target, doc + "#" + frag, nil
		}
		return nil, "", unresolvedRef("#"+frag, doc)
	}
}

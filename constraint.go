package jsonschema

import (
	"github.com/reoring/jsonschema/internal/jsonpointer"
)

// Context carries the evaluation-wide state shared by compilation and
// evaluation: the dynamic scope, the effective options, and the registry.
type Context struct {
	Scope   *DynamicScope
	Options EvalOptions

	registry *Registry
}

// Registry returns the registry in effect for this evaluation.
func (c *Context) Registry() *Registry { return c.registry }

// fetchSchema resolves an absolute identifier through the registry, giving
// the per-call resolver the first chance.
func (c *Context) fetchSchema(id string) (*Schema, error) {
	return c.registry.fetch(id, c.Options.Resolver)
}

// SchemaConstraint is the compiled form of one schema within one dynamic
// scope. Constraints are append-only in the owning schema's cache and never
// mutated after construction.
type SchemaConstraint struct {
	// RelativeEvaluationPath locates this constraint below its parent in
	// the evaluation path.
	RelativeEvaluationPath jsonpointer.Pointer
	// SchemaBaseURI is the base identifier in effect at compile time.
	SchemaBaseURI string
	// SchemaLocation is the absolute location of the schema, rendered as
	// base identifier plus pointer fragment.
	SchemaLocation string
	// Source, when set, is an equivalent constraint whose keyword
	// constraints are reused instead of recompiling.
	Source *SchemaConstraint

	schema      *Schema
	constraints []*KeywordConstraint
}

// Schema returns the source schema document.
func (sc *SchemaConstraint) Schema() *Schema { return sc.schema }

func (sc *SchemaConstraint) keywordConstraints() []*KeywordConstraint {
	if sc.Source != nil {
		return sc.Source.keywordConstraints()
	}
	return sc.constraints
}

// constraint returns the SchemaConstraint for s within the context's current
// dynamic scope, compiling and caching it when needed. Static schemas reuse
// any previously-built constraint via Source; dynamic schemas (those
// transitively containing $dynamicRef or $recursiveRef) cache per scope.
func (s *Schema) constraint(relEvalPath jsonpointer.Pointer, schemaLocation string, ctx *Context) (*SchemaConstraint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isDynamic() {
		for _, entry := range s.constraints {
			if scopesEqual(entry.scope, ctx.Scope.stack) {
				return derive(entry.constraint, relEvalPath, schemaLocation), nil
			}
		}
	} else if len(s.constraints) > 0 {
		return derive(s.constraints[0].constraint, relEvalPath, schemaLocation), nil
	}
	return s.compileLocked(relEvalPath, schemaLocation, ctx)
}

// derive shares an existing constraint's evaluators under a new evaluation
// path.
func derive(source *SchemaConstraint, relEvalPath jsonpointer.Pointer, schemaLocation string) *SchemaConstraint {
	if source.RelativeEvaluationPath.String() == relEvalPath.String() && source.SchemaLocation == schemaLocation {
		return source
	}
	return &SchemaConstraint{
		RelativeEvaluationPath: relEvalPath,
		SchemaBaseURI:          source.SchemaBaseURI,
		SchemaLocation:         schemaLocation,
		Source:                 source,
		schema:                 source.schema,
	}
}

func (s *Schema) compileLocked(relEvalPath jsonpointer.Pointer, schemaLocation string, ctx *Context) (*SchemaConstraint, error) {
	base := s.baseURI
	if _, ok := s.IsBool(); ok {
		base = ctx.Scope.LocalBase()
	}
	sc := &SchemaConstraint{
		RelativeEvaluationPath: relEvalPath,
		SchemaBaseURI:          base,
		SchemaLocation:         schemaLocation,
		schema:                 s,
	}
	s.constraints = append(s.constraints, scopedConstraint{scope: ctx.Scope.snapshot(), constraint: sc})

	if _, ok := s.IsBool(); ok {
		return sc, nil
	}

	// Per drafts 6 and 7, $ref suppresses every sibling keyword.
	if s.declaredDraft == Draft6 || s.declaredDraft == Draft7 {
		if kw, ok := s.Keyword("$ref"); ok {
			kc, err := kw.Constrain(sc, nil, ctx)
			if err != nil {
				return nil, err
			}
			if kc != nil {
				sc.constraints = []*KeywordConstraint{kc}
			}
			return sc, nil
		}
	}

	scopeChanged := false
	if s.baseURI != ctx.Scope.LocalBase() {
		ctx.Scope.push(s.baseURI)
		scopeChanged = true
	}
	defer func() {
		if scopeChanged {
			ctx.Scope.pop()
		}
	}()

	for _, kw := range s.prioritizedKeywords() {
		if _, unrecognized := kw.(*UnrecognizedKeyword); !unrecognized {
			if s.declaredDraft != DraftUnspecified && !kw.SupportedBy(s.declaredDraft) {
				continue
			}
		}
		kc, err := kw.Constrain(sc, sc.constraints, ctx)
		if err != nil {
			return nil, err
		}
		if kc != nil {
			sc.constraints = append(sc.constraints, kc)
		}
	}
	return sc, nil
}

// subschemaConstraint compiles a child schema addressed by pointer segments
// below the parent constraint.
func subschemaConstraint(parent *SchemaConstraint, child *Schema, ctx *Context, segments ...string) (*SchemaConstraint, error) {
	rel := jsonpointer.New(segments...)
	location := childLocation(parent, child, segments...)
	return child.constraint(rel, location, ctx)
}

func childLocation(parent *SchemaConstraint, child *Schema, segments ...string) string {
	if child.isResourceRoot {
		return child.baseURI + "#"
	}
	loc := parent.SchemaLocation
	if loc == "" {
		loc = parent.SchemaBaseURI + "#"
	}
	return loc + jsonpointer.New(segments...).String()
}

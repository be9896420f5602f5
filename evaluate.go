package jsonschema

import (
	"github.com/reoring/jsonschema/internal/jsonpointer"

	"github.com/reoring/jsonschema/i18n"
)

// OutputFormat selects the shape of the Results tree.
type OutputFormat int

const (
	// OutputFlag collapses the result to a single valid flag.
	OutputFlag OutputFormat = iota
	// OutputList flattens the result tree depth-first, keeping only nodes
	// that carry errors or annotations.
	OutputList
	// OutputHierarchical preserves the full result tree.
	OutputHierarchical
)

// EvalOptions configures a single Evaluate call. The zero value auto-detects
// the draft, produces flag output, uses the neutral culture, and the global
// registry.
type EvalOptions struct {
	// EvaluateAs requests a specific draft instead of auto-detection.
	EvaluateAs Draft
	// OutputFormat selects flag, list, or hierarchical output.
	OutputFormat OutputFormat
	// Culture selects the localized error message table (a BCP-47 tag).
	Culture string
	// Registry overrides the global schema registry for this call.
	Registry *Registry
	// Resolver is consulted for identifiers the registry does not contain.
	Resolver Resolver
	// ProcessCustomKeywords surfaces unrecognized keywords as annotations.
	ProcessCustomKeywords bool
}

// Evaluate runs the schema against an instance and returns the Results tree
// in the requested output format. The last options value wins; omitting it
// uses defaults.
func (s *Schema) Evaluate(instance any, opts ...EvalOptions) (*Results, error) {
	var opt EvalOptions
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	reg := opt.Registry
	if reg == nil {
		reg = GlobalRegistry()
	}

	if err := s.initializeAs(opt.EvaluateAs, reg); err != nil {
		return nil, err
	}

	ctx := &Context{
		Scope:    newDynamicScope(s.baseURI),
		Options:  opt,
		registry: reg,
	}
	sc, err := s.constraint(jsonpointer.Pointer{}, s.baseURI+"#", ctx)
	if err != nil {
		return nil, err
	}

	e := newEvaluation(sc, instance, jsonpointer.Pointer{}, jsonpointer.Pointer{}, false)
	if err := e.run(ctx); err != nil {
		return nil, err
	}

	results := e.buildResults()
	switch opt.OutputFormat {
	case OutputList:
		return results.ToList(), nil
	case OutputHierarchical:
		return results, nil
	default:
		return results.ToFlag(), nil
	}
}

// Evaluation binds a schema constraint to one instance location for one
// call. Evaluations are per-call state and are discarded after result
// assembly.
type Evaluation struct {
	constraint *SchemaConstraint

	// Instance is the local instance node under evaluation.
	Instance any
	// InstanceLocation is the absolute location of Instance.
	InstanceLocation jsonpointer.Pointer
	// EvaluationPath is the absolute evaluation path of this node.
	EvaluationPath jsonpointer.Pointer

	annotations map[string]any
	errors      []failure
	skipped     map[string]bool
	children    []*Evaluation
	inPlace     bool
	valid       bool
}

type failure struct {
	keyword string
	message string
}

func newEvaluation(sc *SchemaConstraint, instance any, instanceLoc, evalPath jsonpointer.Pointer, inPlace bool) *Evaluation {
	return &Evaluation{
		constraint:       sc,
		Instance:         instance,
		InstanceLocation: instanceLoc,
		EvaluationPath:   evalPath,
		inPlace:          inPlace,
	}
}

func (e *Evaluation) run(ctx *Context) error {
	sc := e.constraint
	if value, ok := sc.schema.IsBool(); ok {
		if !value {
			e.Fail(ctx, "", nil)
		}
		e.valid = len(e.errors) == 0
		return nil
	}

	scopeChanged := false
	if sc.SchemaBaseURI != ctx.Scope.LocalBase() {
		ctx.Scope.push(sc.SchemaBaseURI)
		scopeChanged = true
	}
	defer func() {
		if scopeChanged {
			ctx.Scope.pop()
		}
	}()

	for _, kc := range sc.keywordConstraints() {
		if e.dependenciesUnmet(kc) {
			e.markSkipped(kc.Keyword)
			continue
		}
		if err := e.invoke(kc, ctx); err != nil {
			return err
		}
	}
	e.valid = len(e.errors) == 0
	return nil
}

func (e *Evaluation) invoke(kc *KeywordConstraint, ctx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if abortErr, ok := r.(evalAbort); ok {
				err = abortErr.err
				return
			}
			panic(r)
		}
	}()
	kc.Evaluate(e, ctx)
	return nil
}

// evalAbort carries an engine error (not a validation failure) out of an
// evaluator.
type evalAbort struct{ err error }

// abort stops the evaluation call with an engine error such as an
// unresolved reference.
func (e *Evaluation) abort(err error) {
	panic(evalAbort{err: err})
}

func (e *Evaluation) dependenciesUnmet(kc *KeywordConstraint) bool {
	for _, dep := range kc.SiblingDependencies {
		if e.skipped[dep] {
			return true
		}
		if _, ok := e.constraint.schema.Keyword(dep); !ok {
			return true
		}
	}
	return false
}

func (e *Evaluation) markSkipped(keyword string) {
	if e.skipped == nil {
		e.skipped = map[string]bool{}
	}
	e.skipped[keyword] = true
}

// Skip records that the keyword produced no result; dependent siblings are
// skipped in turn.
func (e *Evaluation) Skip(keyword string) { e.markSkipped(keyword) }

// Annotate records an annotation visible to later keywords in the same
// schema evaluation and, on success, in the Results tree.
func (e *Evaluation) Annotate(keyword string, v any) {
	if e.annotations == nil {
		e.annotations = map[string]any{}
	}
	e.annotations[keyword] = v
}

// Annotation reads an annotation left by an earlier keyword in this schema
// evaluation.
func (e *Evaluation) Annotation(keyword string) (any, bool) {
	v, ok := e.annotations[keyword]
	return v, ok
}

// Fail records a localized failure for the keyword. Params fill the message
// template's [[name]] tokens.
func (e *Evaluation) Fail(ctx *Context, keyword string, params map[string]any) {
	key := keyword
	if key == "" {
		key = i18n.FalseSchemaKey
	}
	e.errors = append(e.errors, failure{
		keyword: keyword,
		message: i18n.Message(key, ctx.Options.Culture, params),
	})
}

// Valid reports the outcome once the evaluation has run.
func (e *Evaluation) Valid() bool { return e.valid }

// Children returns the child evaluations produced so far.
func (e *Evaluation) Children() []*Evaluation { return e.children }

// EvaluateChild compiles (or reuses) the child schema's constraint and runs
// it against the given instance value. evalSegments extend the evaluation
// path; instanceSegments extend the instance location. The child evaluation
// is recorded and returned.
func (e *Evaluation) EvaluateChild(ctx *Context, child *Schema, instance any, instanceSegments, evalSegments []string) (*Evaluation, error) {
	sc, err := subschemaConstraint(e.constraint, child, ctx, evalSegments...)
	if err != nil {
		return nil, err
	}
	return e.evaluateConstraint(ctx, sc, instance, instanceSegments, evalSegments)
}

// EvaluateInPlace is EvaluateChild for applicators that apply the child to
// the same instance location (allOf, $ref, if, ...). Annotations of valid
// in-place children are visible to unevaluated* keywords.
func (e *Evaluation) EvaluateInPlace(ctx *Context, child *Schema, evalSegments []string) (*Evaluation, error) {
	sc, err := subschemaConstraint(e.constraint, child, ctx, evalSegments...)
	if err != nil {
		return nil, err
	}
	return e.evaluateScoped(ctx, sc, e.Instance, nil, evalSegments, true)
}

// evaluateResolved runs a pre-compiled constraint in place, used by the
// reference keywords whose targets resolve at evaluation time.
func (e *Evaluation) evaluateResolved(ctx *Context, sc *SchemaConstraint, evalSegments []string) (*Evaluation, error) {
	return e.evaluateScoped(ctx, sc, e.Instance, nil, evalSegments, true)
}

func (e *Evaluation) evaluateConstraint(ctx *Context, sc *SchemaConstraint, instance any, instanceSegments, evalSegments []string) (*Evaluation, error) {
	return e.evaluateScoped(ctx, sc, instance, instanceSegments, evalSegments, false)
}

func (e *Evaluation) evaluateScoped(ctx *Context, sc *SchemaConstraint, instance any, instanceSegments, evalSegments []string, inPlace bool) (*Evaluation, error) {
	child := newEvaluation(
		sc,
		instance,
		e.InstanceLocation.Append(instanceSegments...),
		e.EvaluationPath.Append(evalSegments...),
		inPlace,
	)
	if err := child.run(ctx); err != nil {
		return nil, err
	}
	e.children = append(e.children, child)
	return child, nil
}

// collectAnnotations gathers annotation values for a keyword from this
// evaluation and every valid in-place child subtree, the visibility rule the
// unevaluated* keywords rely on.
func (e *Evaluation) collectAnnotations(keyword string) []any {
	var out []any
	if v, ok := e.annotations[keyword]; ok {
		out = append(out, v)
	}
	for _, c := range e.children {
		if c.inPlace && c.valid {
			out = append(out, c.collectAnnotations(keyword)...)
		}
	}
	return out
}

func (e *Evaluation) buildResults() *Results {
	r := &Results{
		Valid:            e.valid,
		EvaluationPath:   e.EvaluationPath.String(),
		SchemaLocation:   e.constraint.SchemaLocation,
		InstanceLocation: e.InstanceLocation.String(),
	}
	if len(e.errors) > 0 {
		r.Errors = map[string]string{}
		for _, f := range e.errors {
			r.Errors[f.keyword] = f.message
		}
	}
	if e.valid && len(e.annotations) > 0 {
		r.Annotations = map[string]any{}
		for k, v := range e.annotations {
			r.Annotations[k] = v
		}
	}
	for _, c := range e.children {
		r.Details = append(r.Details, c.buildResults())
	}
	return r
}

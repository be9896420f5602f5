package jsonschema

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures. A negative validation outcome is not
// an error; it is reported through Results with Valid set to false.
type ErrorKind string

const (
	// KindParse reports malformed schema JSON or a keyword value that does
	// not satisfy the keyword's type or range constraints.
	KindParse ErrorKind = "parse_error"
	// KindUnsupportedSchema reports a construct incompatible with the
	// detected draft.
	KindUnsupportedSchema ErrorKind = "unsupported_schema"
	// KindUnresolvedReference reports a $ref/$dynamicRef/$recursiveRef
	// target that cannot be located in the registry or via the resolver.
	KindUnresolvedReference ErrorKind = "unresolved_reference"
	// KindUnresolvableMetaSchema reports a custom meta-schema chain that
	// does not terminate at a supported draft identifier.
	KindUnresolvableMetaSchema ErrorKind = "unresolvable_meta_schema"
	// KindDuplicateRegistration reports two distinct schemas claiming the
	// same absolute identifier.
	KindDuplicateRegistration ErrorKind = "duplicate_registration"
)

// SchemaError is the structured error surfaced by parsing, initialization,
// compilation, and evaluation.
type SchemaError struct {
	Kind           ErrorKind
	Message        string
	EvaluationPath string // JSON Pointer into the schema, when known.
	ID             string // Offending identifier, when applicable.
	Cause          error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("jsonschema: %s: %s", e.Kind, e.Message)
	if e.EvaluationPath != "" {
		msg += fmt.Sprintf(" (at %s)", e.EvaluationPath)
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" (id %q)", e.ID)
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// AsSchemaError extracts a *SchemaError using errors.As internally.
func AsSchemaError(err error) (*SchemaError, bool) {
	if err == nil {
		return nil, false
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func parseErrorf(path string, format string, args ...any) error {
	return &SchemaError{Kind: KindParse, Message: fmt.Sprintf(format, args...), EvaluationPath: path}
}

func unresolvedRef(path, id string) error {
	return &SchemaError{
		Kind:           KindUnresolvedReference,
		Message:        "reference target cannot be located",
		EvaluationPath: path,
		ID:             id,
	}
}

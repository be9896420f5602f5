package jsonschema

import (
	"bytes"

	j "github.com/goccy/go-json"
)

// Results is one node of the evaluation output tree, following the JSON
// Schema 2020-12 output format.
type Results struct {
	Valid            bool
	EvaluationPath   string
	SchemaLocation   string
	InstanceLocation string
	Errors           map[string]string
	Annotations      map[string]any
	Details          []*Results
}

// ToFlag collapses the tree to a single {valid} node.
func (r *Results) ToFlag() *Results {
	return &Results{Valid: r.Valid}
}

// ToList flattens the tree depth-first, preserving path order and keeping
// only nodes that carry errors or annotations.
func (r *Results) ToList() *Results {
	root := &Results{Valid: r.Valid}
	r.flattenInto(root)
	return root
}

func (r *Results) flattenInto(root *Results) {
	if len(r.Errors) > 0 || len(r.Annotations) > 0 {
		node := &Results{
			Valid:            r.Valid,
			EvaluationPath:   r.EvaluationPath,
			SchemaLocation:   r.SchemaLocation,
			InstanceLocation: r.InstanceLocation,
			Errors:           r.Errors,
			Annotations:      r.Annotations,
		}
		root.Details = append(root.Details, node)
	}
	for _, d := range r.Details {
		d.flattenInto(root)
	}
}

// IsFlag reports whether the node carries only the valid flag.
func (r *Results) IsFlag() bool {
	return r.EvaluationPath == "" && r.SchemaLocation == "" &&
		r.Errors == nil && r.Annotations == nil && r.Details == nil
}

type resultsJSON struct {
	Valid            bool              `json:"valid"`
	EvaluationPath   *string           `json:"evaluationPath,omitempty"`
	SchemaLocation   string            `json:"schemaLocation,omitempty"`
	InstanceLocation *string           `json:"instanceLocation,omitempty"`
	Errors           map[string]string `json:"errors,omitempty"`
	Annotations      map[string]any    `json:"annotations,omitempty"`
	Details          []*Results        `json:"details,omitempty"`
}

// MarshalJSON serializes the node in the 2020-12 output shape. Flag output
// reduces to {"valid": bool}.
func (r *Results) MarshalJSON() ([]byte, error) {
	if r.IsFlag() {
		var buf bytes.Buffer
		buf.WriteString(`{"valid":`)
		if r.Valid {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	out := resultsJSON{
		Valid:          r.Valid,
		SchemaLocation: r.SchemaLocation,
		Errors:         r.Errors,
		Annotations:    r.Annotations,
		Details:        r.Details,
	}
	if r.SchemaLocation != "" {
		out.EvaluationPath = &r.EvaluationPath
		out.InstanceLocation = &r.InstanceLocation
	}
	return j.Marshal(out)
}

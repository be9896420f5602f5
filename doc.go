// Package jsonschema evaluates JSON instances against JSON Schema documents
// across drafts 6, 7, 2019-09, 2020-12, and draft-next.
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place localized messages under i18n/ and the CLI under cmd/jsonschema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s, err := jsonschema.FromText(schemaJSON)
//	results, err := s.Evaluate(instance)
//	results, err = s.Evaluate(instance, jsonschema.EvalOptions{
//		OutputFormat: jsonschema.OutputHierarchical,
//	})
package jsonschema

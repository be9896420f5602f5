package jsonschema

import (
	"fmt"
	"io"
	"os"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonschema/internal/jsontext"
)

// FromText parses a schema from UTF-8 JSON text.
func FromText(data []byte) (*Schema, error) {
	v, err := jsontext.DecodeBytes(data)
	if err != nil {
		return nil, &SchemaError{Kind: KindParse, Message: fmt.Sprintf("malformed schema JSON: %v", err), Cause: err}
	}
	return FromValue(v)
}

// FromReader parses a schema from a UTF-8 JSON stream.
func FromReader(r io.Reader) (*Schema, error) {
	v, err := jsontext.DecodeReader(r)
	if err != nil {
		return nil, &SchemaError{Kind: KindParse, Message: fmt.Sprintf("malformed schema JSON: %v", err), Cause: err}
	}
	return FromValue(v)
}

// FromFile parses a schema document from a file; .yaml/.yml files go through
// the YAML path.
func FromFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return FromYAML(data)
	}
	return FromText(data)
}

// FromYAML parses a schema authored as a YAML document. Member order is
// preserved, matching the JSON path.
func FromYAML(data []byte) (*Schema, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &SchemaError{Kind: KindParse, Message: fmt.Sprintf("malformed schema YAML: %v", err), Cause: err}
	}
	v, err := yamlToJSON(&node)
	if err != nil {
		return nil, err
	}
	return FromValue(v)
}

// FromValue parses a schema from an already-decoded JSON value: a bool, a
// *jsontext.Object, or a map[string]any.
func FromValue(v any) (*Schema, error) {
	return parseSchemaValue(v, "")
}

func yamlToJSON(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, &SchemaError{Kind: KindParse, Message: "empty YAML document"}
		}
		return yamlToJSON(node.Content[0])
	case yaml.MappingNode:
		obj := jsontext.NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, &SchemaError{Kind: KindParse, Message: "YAML mapping keys must be scalars"}
			}
			value, err := yamlToJSON(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := yamlToJSON(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	case yaml.AliasNode:
		return yamlToJSON(node.Alias)
	}
	return nil, &SchemaError{Kind: KindParse, Message: fmt.Sprintf("unsupported YAML node kind %d", node.Kind)}
}

func yamlScalar(node *yaml.Node) (any, error) {
	switch node.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, &SchemaError{Kind: KindParse, Message: fmt.Sprintf("bad YAML boolean: %v", err), Cause: err}
		}
		return b, nil
	case "!!int", "!!float":
		return j.Number(node.Value), nil
	default:
		return node.Value, nil
	}
}

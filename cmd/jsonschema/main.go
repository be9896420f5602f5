package main

import (
	"flag"
	"fmt"
	"os"

	j "github.com/goccy/go-json"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/internal/jsontext"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "jsonschema CLI\n\nUsage:\n  jsonschema validate -schema schema.json [-instance doc.json] [-output flag|list|hierarchical] [-culture tag]\n\nNotes:\n  - The schema may be JSON or YAML (.yaml/.yml).\n  - When -instance is omitted, the instance is read from stdin.")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath string
	var instancePath string
	var output string
	var culture string
	fs.StringVar(&schemaPath, "schema", "", "path to the schema document (JSON or YAML)")
	fs.StringVar(&instancePath, "instance", "", "path to the instance JSON; stdin when omitted")
	fs.StringVar(&output, "output", "flag", "output format: flag, list, or hierarchical")
	fs.StringVar(&culture, "culture", "", "BCP-47 tag selecting localized error messages")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	format, ok := parseOutputFormat(output)
	if !ok {
		fatalf("unknown output format %q", output)
	}

	schema, err := jsonschema.FromFile(schemaPath)
	if err != nil {
		fatalf("loading schema: %v", err)
	}

	var instance any
	if instancePath == "" {
		instance, err = jsontext.DecodeReader(os.Stdin)
	} else {
		var data []byte
		data, err = os.ReadFile(instancePath)
		if err == nil {
			instance, err = jsontext.DecodeBytes(data)
		}
	}
	if err != nil {
		fatalf("loading instance: %v", err)
	}

	results, err := schema.Evaluate(instance, jsonschema.EvalOptions{
		OutputFormat: format,
		Culture:      culture,
	})
	if err != nil {
		fatalf("evaluating: %v", err)
	}

	out, err := j.MarshalIndent(results, "", "  ")
	if err != nil {
		fatalf("encoding results: %v", err)
	}
	fmt.Println(string(out))
	if !results.Valid {
		os.Exit(1)
	}
}

func parseOutputFormat(s string) (jsonschema.OutputFormat, bool) {
	switch s {
	case "flag":
		return jsonschema.OutputFlag, true
	case "list":
		return jsonschema.OutputList, true
	case "hierarchical":
		return jsonschema.OutputHierarchical, true
	}
	return jsonschema.OutputFlag, false
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

package store

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names shipped with the client.
const (
	SchemaTeacher        = "teacher"
	SchemaReport         = "report"
	SchemaAnalysisResult = "analysis_result"
)

var (
	schemaOnce sync.Once
	schemas    map[string]*jsonschema.Schema
	schemaErr  error
)

func loadSchemas() {
	schemas = make(map[string]*jsonschema.Schema)
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	names := []string{SchemaTeacher, SchemaReport, SchemaAnalysisResult}
	for _, name := range names {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
		if err != nil {
			schemaErr = err
			return
		}
		if err := compiler.AddResource(schemaURL(name), bytes.NewReader(raw)); err != nil {
			schemaErr = fmt.Errorf("add schema %s: %w", name, err)
			return
		}
	}

	for _, name := range names {
		compiled, err := compiler.Compile(schemaURL(name))
		if err != nil {
			schemaErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		schemas[name] = compiled
	}
}

func schemaURL(name string) string {
	return "https://aita.local/schemas/" + name + ".schema.json"
}

// Validate checks a raw JSON document against one of the shipped schemas.
func Validate(name string, raw []byte) error {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return schemaErr
	}

	schema, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return schema.Validate(doc)
}

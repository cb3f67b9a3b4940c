package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema document used to validate model output
type Schema struct {
	Name       string
	Definition map[string]any
}

// schemaCache caches compiled JSON schemas by name
var schemaCache sync.Map // map[string]*jsonschema.Schema

// DecodeJSON extracts the JSON document from content, validates it against
// schema and unmarshals it into v. Models sometimes wrap JSON in markdown
// fences or prose, so the outermost object is located first.
func DecodeJSON(schema *Schema, content string, v any) error {
	raw := ExtractJSONObject(content)
	if raw == "" {
		return &ErrInvalidResponse{Content: content, Err: fmt.Errorf("no JSON object found")}
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return &ErrInvalidResponse{Content: content, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if schema != nil {
		compiled, err := compiledSchema(schema)
		if err != nil {
			return &ErrInvalidResponse{Content: content, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
		}
		if err := compiled.Validate(parsed); err != nil {
			return &ErrInvalidResponse{Content: content, Err: fmt.Errorf("schema validation failed: %w", err)}
		}
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ErrInvalidResponse{Content: content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// ExtractJSONObject returns the substring from the first '{' to the last
// '}' of content, or "" if there is none.
func ExtractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return ""
	}
	return content[start : end+1]
}

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a generic JSON value, not typed Go maps.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

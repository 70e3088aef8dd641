package source

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/jsonmock/pkg/resource"
)

// loadJSONSchema compiles a JSON Schema describing the whole document.
// Each root property becomes a resource: an array schema yields a collection
// with one sample item (id 1), an object schema a singleton, and anything
// else a scalar sample.
func loadJSONSchema(location string, data []byte) (resource.Document, error) {
	url := location
	if !IsRemote(location) {
		abs, err := filepath.Abs(location)
		if err != nil {
			return nil, err
		}
		url = abs
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	root := derefSchema(schema)
	out := make(resource.Document, len(root.Properties))
	for name, prop := range root.Properties {
		prop = derefSchema(prop)
		switch schemaType(prop) {
		case "array":
			item := schemaSample(itemsOf(prop), name, 1)
			if obj, ok := item.(map[string]any); ok {
				obj[resource.IDField] = int64(1)
			}
			out[name] = []any{item}
		default:
			out[name] = schemaSample(prop, name, 0)
		}
	}
	return out, nil
}

func derefSchema(s *jsonschema.Schema) *jsonschema.Schema {
	for s != nil && s.Ref != nil && len(s.Types) == 0 && len(s.Properties) == 0 {
		s = s.Ref
	}
	return s
}

func schemaType(s *jsonschema.Schema) string {
	if s == nil {
		return ""
	}
	for _, t := range s.Types {
		if t != "null" {
			return t
		}
	}
	switch {
	case len(s.Properties) > 0:
		return "object"
	case s.Items2020 != nil || s.Items != nil:
		return "array"
	}
	return ""
}

func itemsOf(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Items2020 != nil {
		return s.Items2020
	}
	switch items := s.Items.(type) {
	case *jsonschema.Schema:
		return items
	case []*jsonschema.Schema:
		if len(items) > 0 {
			return items[0]
		}
	}
	return nil
}

func schemaSample(s *jsonschema.Schema, name string, depth int) any {
	s = derefSchema(s)
	if s == nil {
		return nil
	}
	switch {
	case len(s.Constant) > 0:
		return s.Constant[0]
	case len(s.Examples) > 0:
		return s.Examples[0]
	case len(s.Enum) > 0:
		return s.Enum[0]
	case s.Default != nil:
		return s.Default
	}

	if len(s.AllOf) > 0 {
		merged := make(map[string]any)
		for _, part := range s.AllOf {
			if obj, ok := schemaSample(part, name, depth).(map[string]any); ok {
				for k, v := range obj {
					merged[k] = v
				}
			}
		}
		return merged
	}
	for _, alts := range [][]*jsonschema.Schema{s.OneOf, s.AnyOf} {
		if len(alts) > 0 {
			return schemaSample(alts[0], name, depth)
		}
	}

	switch schemaType(s) {
	case "object":
		out := make(map[string]any, len(s.Properties))
		if depth >= maxSampleDepth {
			return out
		}
		for prop, sub := range s.Properties {
			out[prop] = schemaSample(sub, prop, depth+1)
		}
		return out
	case "array":
		items := itemsOf(s)
		if items == nil || depth >= maxSampleDepth {
			return []any{}
		}
		return []any{schemaSample(items, name, depth+1)}
	case "string":
		return stringSample(s.Format, name)
	case "integer":
		return 1
	case "number":
		return 1.5
	case "boolean":
		return true
	default:
		return nil
	}
}

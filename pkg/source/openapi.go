package source

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/jsonmock/pkg/resource"
)

// loadOpenAPI turns every object schema under components.schemas into a
// resource holding one sample item with id 1. Local documents load from
// disk so relative $refs resolve.
func loadOpenAPI(ctx context.Context, location string, data []byte) (resource.Document, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx

	var (
		doc *openapi3.T
		err error
	)
	switch {
	case isHTTP(location):
		var u *url.URL
		if u, err = url.Parse(location); err == nil {
			doc, err = loader.LoadFromDataWithPath(data, u)
		}
	case isS3(location):
		doc, err = loader.LoadFromData(data)
	default:
		doc, err = loader.LoadFromFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("load OpenAPI document: %w", err)
	}

	out := make(resource.Document)
	if doc.Components == nil {
		return out, nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		item, ok := openAPISample(ref.Value, name, 0).(map[string]any)
		if !ok {
			continue
		}
		item[resource.IDField] = int64(1)
		out[name] = []any{item}
	}
	return out, nil
}

func openAPISample(s *openapi3.Schema, name string, depth int) any {
	if s == nil {
		return nil
	}
	if s.Example != nil {
		return s.Example
	}
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}
	if s.Default != nil {
		return s.Default
	}

	if len(s.AllOf) > 0 {
		merged := make(map[string]any)
		for _, part := range s.AllOf {
			if part == nil {
				continue
			}
			if obj, ok := openAPISample(part.Value, name, depth).(map[string]any); ok {
				for k, v := range obj {
					merged[k] = v
				}
			}
		}
		return merged
	}
	for _, alts := range [][]*openapi3.SchemaRef{s.OneOf, s.AnyOf} {
		if len(alts) > 0 && alts[0] != nil {
			return openAPISample(alts[0].Value, name, depth)
		}
	}

	types := s.Type.Slice()
	typ := ""
	if len(types) > 0 {
		typ = types[0]
	} else if len(s.Properties) > 0 {
		typ = openapi3.TypeObject
	}

	switch typ {
	case openapi3.TypeObject:
		out := make(map[string]any, len(s.Properties))
		if depth >= maxSampleDepth {
			return out
		}
		for prop, ref := range s.Properties {
			if ref == nil {
				continue
			}
			out[prop] = openAPISample(ref.Value, prop, depth+1)
		}
		return out
	case openapi3.TypeArray:
		if s.Items == nil || depth >= maxSampleDepth {
			return []any{}
		}
		return []any{openAPISample(s.Items.Value, name, depth+1)}
	case openapi3.TypeString:
		return stringSample(s.Format, name)
	case openapi3.TypeInteger:
		return 1
	case openapi3.TypeNumber:
		return 1.5
	case openapi3.TypeBoolean:
		return true
	default:
		return nil
	}
}

package resource

// Clone returns a deep copy of a JSON-compatible value.
// Objects and arrays are copied recursively; scalars are immutable and
// returned as-is.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneObject(val)
	case []any:
		if val == nil {
			return []any(nil)
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// CloneDocument returns a deep copy of a document.
func CloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for name, v := range doc {
		out[name] = Clone(v)
	}
	return out
}

func cloneObject(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = Clone(v)
	}
	return out
}

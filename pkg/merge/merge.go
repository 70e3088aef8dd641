// Package merge combines several JSON documents into one dataset.
//
// Sources are applied in order against an accumulator. A resource name seen
// for the first time is inserted as-is. When a name repeats and both values
// are arrays, items are matched by the textual form of their "id": a matched
// item is overwritten in place and everything else is appended. In every
// other case the later value replaces the earlier one.
//
// The engine knows nothing about where a document came from; data files,
// remote objects and schema-derived sample data all go through the same
// rules.
package merge

import (
	"github.com/getmockd/jsonmock/pkg/resource"
)

// Merger accumulates documents.
type Merger struct {
	result resource.Document
}

// New creates an empty Merger.
func New() *Merger {
	return &Merger{result: make(resource.Document)}
}

// Add merges every top-level entry of doc into the accumulator.
func (m *Merger) Add(doc resource.Document) {
	for name, incoming := range doc {
		existing, ok := m.result[name]
		if !ok {
			m.result[name] = incoming
			continue
		}
		m.result[name] = Resource(existing, incoming)
	}
}

// Result returns the accumulated document.
// The returned document is owned by the caller; the Merger must not be used
// afterwards.
func (m *Merger) Result() resource.Document {
	return m.result
}

// Documents merges docs in order and returns the result.
func Documents(docs ...resource.Document) resource.Document {
	m := New()
	for _, doc := range docs {
		m.Add(doc)
	}
	return m.Result()
}

// Resource merges two values stored under the same resource name.
// Two arrays are merged by id; any other combination yields incoming.
func Resource(existing, incoming any) any {
	current, ok := existing.([]any)
	if !ok {
		return incoming
	}
	items, ok := incoming.([]any)
	if !ok {
		return incoming
	}
	return mergeArrays(current, items)
}

func mergeArrays(existing, incoming []any) []any {
	out := make([]any, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	// Only existing items are indexed. A repeated id keeps its last position.
	index := make(map[string]int, len(out))
	for i, item := range out {
		if id, ok := resource.ItemID(item); ok {
			index[id] = i
		}
	}

	for _, item := range incoming {
		id, ok := resource.ItemID(item)
		if !ok {
			out = append(out, item)
			continue
		}
		if pos, found := index[id]; found {
			out[pos] = item
			continue
		}
		out = append(out, item)
	}

	return out
}

// Package resource provides the in-memory resource store behind the mock server.
//
// The dataset is a schema-less JSON document: every top-level key is a
// resource, and every resource is either a collection (a JSON array of items)
// or a singleton (a single JSON object). Items are JSON objects that
// conventionally carry an "id" field.
//
// Core Types:
//
//   - Document: the root mapping from resource name to value
//   - Store: owns the document and the per-resource identifier counters
//   - RouteInfo: a derived description of the endpoints a resource exposes
//
// Identifiers:
//
// Identifiers are compared by their textual form, so the numeric id 1 and the
// string id "1" refer to the same item. New identifiers are sequential
// positive integers, one counter per resource name, seeded from the largest
// numeric id present when the store is built and never reused.
//
// Thread Safety:
//
// All operations are safe for concurrent use. A single sync.RWMutex guards the
// document and the counters together, so reads proceed in parallel while
// writes are exclusive. Values passed in are copied before they are stored and
// values returned are copies, so callers never share memory with the store.
//
// Usage:
//
//	store := resource.NewStore(resource.Document{
//	    "posts": []any{map[string]any{"id": 1, "title": "Hello"}},
//	})
//
//	created := store.Create("posts", map[string]any{"title": "New"}) // id 2
//	item, ok := store.Item("posts", "2")
//	updated, ok := store.Update("posts", "2", map[string]any{"title": "Edited"})
//	deleted := store.Delete("posts", "2")
package resource

package resource

import (
	"math"
	"sort"
	"sync"
)

// Store holds the dataset and the identifier counters for every resource.
type Store struct {
	mu       sync.RWMutex
	data     Document
	counters map[string]int64
}

// NewStore creates a Store from an initial document.
// The document is copied; counters are seeded from the largest numeric id
// found in each resource (next id = max + 1, or 1 when there is none).
func NewStore(initial Document) *Store {
	s := &Store{
		data:     CloneDocument(initial),
		counters: make(map[string]int64, len(initial)),
	}

	for name, value := range s.data {
		if max, ok := maxItemID(value); ok {
			s.counters[name] = nextAfter(max)
		}
	}

	return s
}

func nextAfter(max int64) int64 {
	if max < 0 {
		return 1
	}
	return max + 1
}

// List returns all resource names in sorted order for deterministic output.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Routes returns the endpoints exposed for each resource, sorted by name.
func (s *Store) Routes() []RouteInfo {
	names := s.List()
	routes := make([]RouteInfo, len(names))
	for i, name := range names {
		routes[i] = routesFor(name)
	}
	return routes
}

// Collection returns a copy of the full value stored under name.
func (s *Store) Collection(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[name]
	if !ok {
		return nil, false
	}
	return Clone(value), true
}

// Item returns a copy of the first item of name whose id matches id textually.
// For a singleton resource the object itself is returned when its id matches.
func (s *Store) Item(name, id string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, _, ok := s.find(name, id)
	if !ok {
		return nil, false
	}
	return cloneObject(item), true
}

// Create stores item under name with the next identifier for that resource.
// Any id supplied by the caller is overwritten. A collection gets the item
// appended, a singleton (or any other non-array value) is promoted to a
// collection holding the old value followed by the new item, and an unknown
// name becomes a new collection. The stored item is returned.
func (s *Store) Create(name string, item map[string]any) map[string]any {
	stored := cloneObject(item)
	if stored == nil {
		stored = make(map[string]any, 1)
	}

	// Counter and document share one lock so the id assignment and the
	// insertion are observed together.
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.counters[name]
	if !ok {
		next = 1
	}
	stored[IDField] = next
	if next < math.MaxInt64 {
		s.counters[name] = next + 1
	}

	switch existing := s.data[name].(type) {
	case []any:
		s.data[name] = append(existing, stored)
	case nil:
		if _, present := s.data[name]; present {
			s.data[name] = []any{nil, stored}
		} else {
			s.data[name] = []any{stored}
		}
	default:
		s.data[name] = []any{existing, stored}
	}

	return cloneObject(stored)
}

// Update merges patch into the item of name matching id.
// Every key except "id" is written, unmentioned keys are left untouched and
// the stored id never changes. The updated item is returned.
func (s *Store) Update(name, id string, patch map[string]any) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, _, ok := s.find(name, id)
	if !ok {
		return nil, false
	}

	for k, v := range patch {
		if k == IDField {
			continue
		}
		item[k] = Clone(v)
	}

	return cloneObject(item), true
}

// Delete removes the item of name matching id and reports whether it did.
// Deleting a singleton leaves an empty object under the resource name.
func (s *Store) Delete(name, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, index, ok := s.find(name, id)
	if !ok {
		return false
	}

	switch existing := s.data[name].(type) {
	case []any:
		s.data[name] = append(existing[:index], existing[index+1:]...)
	case map[string]any:
		s.data[name] = map[string]any{}
	}
	return true
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneDocument(s.data)
}

// Stats returns resource and item counts.
// A singleton counts as one item unless it is empty.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Resources:   len(s.data),
		PerResource: make(map[string]int, len(s.data)),
	}
	for name, value := range s.data {
		n := 0
		switch v := value.(type) {
		case []any:
			n = len(v)
		case map[string]any:
			if len(v) > 0 {
				n = 1
			}
		}
		stats.PerResource[name] = n
		stats.Items += n
	}
	return stats
}

// find locates the item matching id. The index is -1 for singletons.
// Callers must hold the lock.
func (s *Store) find(name, id string) (map[string]any, int, bool) {
	switch value := s.data[name].(type) {
	case []any:
		for i, candidate := range value {
			if itemID, ok := ItemID(candidate); ok && itemID == id {
				return candidate.(map[string]any), i, true
			}
		}
	case map[string]any:
		if itemID, ok := ItemID(value); ok && itemID == id {
			return value, -1, true
		}
	}
	return nil, 0, false
}

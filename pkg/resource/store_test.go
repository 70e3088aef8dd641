package resource

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(Document{
		"posts": []any{
			map[string]any{"id": json.Number("1"), "title": "Test Post 1", "author": "Test Author 1"},
			map[string]any{"id": json.Number("2"), "title": "Test Post 2", "author": "Test Author 2"},
		},
		"profile": map[string]any{"id": json.Number("1"), "bio": "x"},
	})
}

// =============================================================================
// Construction
// =============================================================================

func TestNewStore_SeedsCounters(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
	}{
		{name: "numeric ids", value: []any{map[string]any{"id": 3}, map[string]any{"id": 7}}, want: 8},
		{name: "json numbers", value: []any{map[string]any{"id": json.Number("41")}}, want: 42},
		{name: "integral float", value: []any{map[string]any{"id": 5.0}}, want: 6},
		{name: "numeric string", value: []any{map[string]any{"id": "9"}}, want: 10},
		{name: "no ids", value: []any{map[string]any{"title": "x"}}, want: 1},
		{name: "non numeric ids", value: []any{map[string]any{"id": "abc"}}, want: 1},
		{name: "empty collection", value: []any{}, want: 1},
		{name: "singleton", value: map[string]any{"id": 4}, want: 5},
		{name: "singleton without id", value: map[string]any{"bio": "x"}, want: 1},
		{name: "negative ids", value: []any{map[string]any{"id": -3}}, want: 1},
		{name: "non object items", value: []any{"a", 1, nil}, want: 1},
		{name: "max int64 only", value: []any{map[string]any{"id": int64(math.MaxInt64)}}, want: 1},
		{name: "max int64 skipped", value: []any{
			map[string]any{"id": 7},
			map[string]any{"id": json.Number("9223372036854775807")},
		}, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(Document{"r": tt.value})
			created := s.Create("r", map[string]any{})
			assert.Equal(t, tt.want, created["id"])
		})
	}
}

func TestNewStore_NumericStringIDsSeedCounter(t *testing.T) {
	s := NewStore(Document{"users": []any{
		map[string]any{"id": 3, "name": "a"},
		map[string]any{"id": "50", "name": "b"},
		map[string]any{"id": "x-1", "name": "c"},
	}})

	created := s.Create("users", map[string]any{"name": "d"})
	assert.Equal(t, int64(51), created["id"])

	item, ok := s.Item("users", "50")
	require.True(t, ok)
	assert.Equal(t, "b", item["name"])
}

func TestStore_CreateNeverWrapsCounter(t *testing.T) {
	s := NewStore(Document{"posts": []any{}})
	s.counters["posts"] = math.MaxInt64

	first := s.Create("posts", map[string]any{})
	second := s.Create("posts", map[string]any{})

	assert.Equal(t, int64(math.MaxInt64), first["id"])
	assert.Positive(t, second["id"])
}

func TestNewStore_CopiesInitialDocument(t *testing.T) {
	initial := Document{"posts": []any{map[string]any{"id": 1, "title": "a"}}}
	s := NewStore(initial)

	initial["posts"].([]any)[0].(map[string]any)["title"] = "mutated"

	item, ok := s.Item("posts", "1")
	require.True(t, ok)
	assert.Equal(t, "a", item["title"])
}

// =============================================================================
// Reads
// =============================================================================

func TestStore_List(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, []string{"posts", "profile"}, s.List())

	empty := NewStore(nil)
	assert.Empty(t, empty.List())
}

func TestStore_Routes(t *testing.T) {
	s := NewStore(Document{"posts": []any{}})
	routes := s.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "posts", routes[0].Resource)
	assert.Equal(t, []Endpoint{
		{Method: "GET", URL: "/posts"},
		{Method: "GET", URL: "/posts/:id"},
		{Method: "POST", URL: "/posts"},
		{Method: "PUT", URL: "/posts/:id"},
		{Method: "PATCH", URL: "/posts/:id"},
		{Method: "DELETE", URL: "/posts/:id"},
	}, routes[0].Endpoints)
}

func TestStore_Collection(t *testing.T) {
	s := newTestStore()

	posts, ok := s.Collection("posts")
	require.True(t, ok)
	assert.Len(t, posts, 2)

	profile, ok := s.Collection("profile")
	require.True(t, ok)
	assert.Equal(t, KindSingleton, KindOf(profile))

	_, ok = s.Collection("missing")
	assert.False(t, ok)
}

func TestStore_CollectionIsSnapshot(t *testing.T) {
	s := newTestStore()

	posts, _ := s.Collection("posts")
	posts.([]any)[0].(map[string]any)["title"] = "changed"

	item, ok := s.Item("posts", "1")
	require.True(t, ok)
	assert.Equal(t, "Test Post 1", item["title"])
}

func TestStore_Item(t *testing.T) {
	s := NewStore(Document{
		"mixed": []any{
			"not an object",
			map[string]any{"title": "no id"},
			map[string]any{"id": 1, "title": "int"},
			map[string]any{"id": "abc", "title": "string"},
			map[string]any{"id": json.Number("7"), "title": "number"},
			map[string]any{"id": 1, "title": "duplicate"},
		},
		"profile": map[string]any{"id": "p1", "bio": "x"},
	})

	tests := []struct {
		name      string
		resource  string
		id        string
		wantTitle string
		wantOK    bool
	}{
		{name: "numeric id", resource: "mixed", id: "1", wantTitle: "int", wantOK: true},
		{name: "string id", resource: "mixed", id: "abc", wantTitle: "string", wantOK: true},
		{name: "json number id", resource: "mixed", id: "7", wantTitle: "number", wantOK: true},
		{name: "unknown id", resource: "mixed", id: "999", wantOK: false},
		{name: "unknown resource", resource: "nope", id: "1", wantOK: false},
		{name: "singleton match", resource: "profile", id: "p1", wantOK: true},
		{name: "singleton mismatch", resource: "profile", id: "p2", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := s.Item(tt.resource, tt.id)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantTitle != "" {
				assert.Equal(t, tt.wantTitle, item["title"])
			}
		})
	}
}

func TestStore_ItemMatchesStringIDAgainstNumericPath(t *testing.T) {
	s := NewStore(Document{"users": []any{map[string]any{"id": "1", "name": "A"}}})

	item, ok := s.Item("users", "1")
	require.True(t, ok)
	assert.Equal(t, "A", item["name"])
}

// =============================================================================
// Create
// =============================================================================

func TestStore_CreateAppends(t *testing.T) {
	s := newTestStore()

	created := s.Create("posts", map[string]any{"title": "New"})
	assert.Equal(t, map[string]any{"id": int64(3), "title": "New"}, created)

	posts, _ := s.Collection("posts")
	assert.Len(t, posts, 3)

	got, ok := s.Item("posts", "3")
	require.True(t, ok)
	assert.Equal(t, created, got)
}

func TestStore_CreateOverwritesClientID(t *testing.T) {
	s := newTestStore()

	created := s.Create("posts", map[string]any{"id": 100, "title": "New"})
	assert.Equal(t, int64(3), created["id"])

	_, ok := s.Item("posts", "100")
	assert.False(t, ok)
}

func TestStore_CreateDoesNotRetainCallerMap(t *testing.T) {
	s := NewStore(nil)
	input := map[string]any{"title": "x"}

	s.Create("posts", input)
	input["title"] = "y"

	assert.NotContains(t, input, "id")
	item, ok := s.Item("posts", "1")
	require.True(t, ok)
	assert.Equal(t, "x", item["title"])
}

func TestStore_CreateNewResource(t *testing.T) {
	s := NewStore(nil)

	created := s.Create("tags", map[string]any{"name": "go"})
	assert.Equal(t, int64(1), created["id"])

	tags, ok := s.Collection("tags")
	require.True(t, ok)
	assert.Equal(t, []any{map[string]any{"id": int64(1), "name": "go"}}, tags)
}

func TestStore_CreateNilItem(t *testing.T) {
	s := NewStore(nil)
	created := s.Create("things", nil)
	assert.Equal(t, map[string]any{"id": int64(1)}, created)
}

func TestStore_CreatePromotesSingleton(t *testing.T) {
	s := newTestStore()

	created := s.Create("profile", map[string]any{"bio": "y"})
	assert.Equal(t, int64(2), created["id"])

	profile, ok := s.Collection("profile")
	require.True(t, ok)
	assert.Equal(t, []any{
		map[string]any{"id": json.Number("1"), "bio": "x"},
		map[string]any{"id": int64(2), "bio": "y"},
	}, profile)
}

func TestStore_CreatePromotesScalar(t *testing.T) {
	s := NewStore(Document{"title": "My API"})

	s.Create("title", map[string]any{"text": "x"})

	value, ok := s.Collection("title")
	require.True(t, ok)
	assert.Equal(t, []any{"My API", map[string]any{"id": int64(1), "text": "x"}}, value)
}

func TestStore_IDsNeverReused(t *testing.T) {
	s := newTestStore()

	created := s.Create("posts", map[string]any{"title": "a"})
	require.True(t, s.Delete("posts", "3"))
	again := s.Create("posts", map[string]any{"title": "b"})

	assert.Equal(t, int64(3), created["id"])
	assert.Equal(t, int64(4), again["id"])
}

func TestStore_CountersArePerResource(t *testing.T) {
	s := newTestStore()

	a := s.Create("posts", map[string]any{})
	b := s.Create("comments", map[string]any{})
	c := s.Create("posts", map[string]any{})

	assert.Equal(t, int64(3), a["id"])
	assert.Equal(t, int64(1), b["id"])
	assert.Equal(t, int64(4), c["id"])
}

func TestStore_CountersIsolatedBetweenStores(t *testing.T) {
	first := NewStore(nil)
	second := NewStore(nil)

	first.Create("posts", map[string]any{})
	first.Create("posts", map[string]any{})

	created := second.Create("posts", map[string]any{})
	assert.Equal(t, int64(1), created["id"])
}

func TestStore_ConcurrentCreateAssignsUniqueIDs(t *testing.T) {
	s := newTestStore()

	const workers = 16
	const perWorker = 50

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]bool)
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				created := s.Create("posts", map[string]any{"worker": w})
				id := created["id"].(int64)

				mu.Lock()
				ids[id] = true
				mu.Unlock()

				// Reads interleave with writes.
				_, _ = s.Collection("posts")
			}
		}(w)
	}
	wg.Wait()

	assert.Len(t, ids, workers*perWorker)
	for id := int64(3); id < 3+workers*perWorker; id++ {
		assert.True(t, ids[id], "missing id %d", id)
	}

	posts, _ := s.Collection("posts")
	assert.Len(t, posts, 2+workers*perWorker)
}

func TestStore_SequentialCreatesIncrease(t *testing.T) {
	s := NewStore(nil)

	var last int64
	for i := 0; i < 20; i++ {
		created := s.Create("events", map[string]any{"n": i})
		id := created["id"].(int64)
		assert.Greater(t, id, last)
		last = id
	}
}

// =============================================================================
// Update
// =============================================================================

func TestStore_Update(t *testing.T) {
	s := newTestStore()

	updated, ok := s.Update("posts", "1", map[string]any{"id": 99, "title": "Updated Title", "tags": []any{"a"}})
	require.True(t, ok)

	assert.Equal(t, json.Number("1"), updated["id"])
	assert.Equal(t, "Updated Title", updated["title"])
	assert.Equal(t, "Test Author 1", updated["author"])
	assert.Equal(t, []any{"a"}, updated["tags"])

	got, ok := s.Item("posts", "1")
	require.True(t, ok)
	assert.Equal(t, updated, got)

	_, ok = s.Item("posts", "99")
	assert.False(t, ok)
}

func TestStore_UpdateSingleton(t *testing.T) {
	s := newTestStore()

	updated, ok := s.Update("profile", "1", map[string]any{"bio": "new"})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"id": json.Number("1"), "bio": "new"}, updated)
}

func TestStore_UpdateNotFound(t *testing.T) {
	s := newTestStore()

	_, ok := s.Update("posts", "999", map[string]any{"title": "x"})
	assert.False(t, ok)

	_, ok = s.Update("missing", "1", map[string]any{"title": "x"})
	assert.False(t, ok)

	_, ok = s.Update("profile", "2", map[string]any{"bio": "x"})
	assert.False(t, ok)
}

func TestStore_UpdateDoesNotRetainPatch(t *testing.T) {
	s := newTestStore()
	nested := map[string]any{"k": "v"}

	_, ok := s.Update("posts", "1", map[string]any{"meta": nested})
	require.True(t, ok)
	nested["k"] = "changed"

	item, _ := s.Item("posts", "1")
	assert.Equal(t, map[string]any{"k": "v"}, item["meta"])
}

// =============================================================================
// Delete
// =============================================================================

func TestStore_Delete(t *testing.T) {
	s := newTestStore()

	assert.True(t, s.Delete("posts", "1"))
	_, ok := s.Item("posts", "1")
	assert.False(t, ok)
	assert.False(t, s.Delete("posts", "1"))

	posts, _ := s.Collection("posts")
	assert.Len(t, posts, 1)
}

func TestStore_DeleteRemovesFirstMatchOnly(t *testing.T) {
	s := NewStore(Document{"dupes": []any{
		map[string]any{"id": 1, "n": "first"},
		map[string]any{"id": 1, "n": "second"},
	}})

	require.True(t, s.Delete("dupes", "1"))
	item, ok := s.Item("dupes", "1")
	require.True(t, ok)
	assert.Equal(t, "second", item["n"])
}

func TestStore_DeleteSingletonLeavesEmptyObject(t *testing.T) {
	s := newTestStore()

	assert.True(t, s.Delete("profile", "1"))

	value, ok := s.Collection("profile")
	require.True(t, ok)
	assert.Equal(t, map[string]any{}, value)
	assert.Contains(t, s.List(), "profile")

	assert.False(t, s.Delete("profile", "1"))
}

func TestStore_DeleteNotFound(t *testing.T) {
	s := newTestStore()
	assert.False(t, s.Delete("posts", "999"))
	assert.False(t, s.Delete("missing", "1"))
}

// =============================================================================
// Snapshot and stats
// =============================================================================

func TestStore_Stats(t *testing.T) {
	s := newTestStore()
	s.Delete("profile", "1")

	stats := s.Stats()
	assert.Equal(t, 2, stats.Resources)
	assert.Equal(t, 2, stats.Items)
	assert.Equal(t, map[string]int{"posts": 2, "profile": 0}, stats.PerResource)
}

func TestStore_Snapshot(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot()
	snap["posts"] = nil

	posts, ok := s.Collection("posts")
	require.True(t, ok)
	assert.Len(t, posts, 2)
}

func ExampleStore() {
	s := NewStore(Document{
		"posts": []any{
			map[string]any{"id": 1, "title": "First"},
			map[string]any{"id": 2, "title": "Second"},
		},
	})

	created := s.Create("posts", map[string]any{"title": "New"})
	fmt.Println(created["id"], created["title"])
	// Output: 3 New
}

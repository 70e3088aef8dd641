package resource

import "net/http"

// IDField is the item field that holds the identifier.
const IDField = "id"

// Document is the root of the dataset, mapping resource names to values.
// A value is a collection ([]any of items) or a singleton (map[string]any).
type Document = map[string]any

// Kind describes the shape of a resource value.
type Kind string

// Resource kinds.
const (
	KindCollection Kind = "collection"
	KindSingleton  Kind = "singleton"
	KindScalar     Kind = "scalar"
)

// Endpoint describes one HTTP route exposed for a resource.
type Endpoint struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// RouteInfo lists the endpoints derived for a single resource.
type RouteInfo struct {
	Resource  string     `json:"resource"`
	Endpoints []Endpoint `json:"endpoints"`
}

// Stats summarizes the current contents of a store.
type Stats struct {
	// Resources is the number of resource names in the document
	Resources int `json:"resources"`
	// Items is the total number of items across all resources
	Items int `json:"items"`
	// PerResource maps each resource name to its item count
	PerResource map[string]int `json:"perResource"`
}

// KindOf reports the kind of a resource value.
func KindOf(v any) Kind {
	switch v.(type) {
	case []any:
		return KindCollection
	case map[string]any:
		return KindSingleton
	default:
		return KindScalar
	}
}

// routesFor returns the six endpoints every resource exposes.
func routesFor(name string) RouteInfo {
	base := "/" + name
	item := base + "/:id"
	return RouteInfo{
		Resource: name,
		Endpoints: []Endpoint{
			{Method: http.MethodGet, URL: base},
			{Method: http.MethodGet, URL: item},
			{Method: http.MethodPost, URL: base},
			{Method: http.MethodPut, URL: item},
			{Method: http.MethodPatch, URL: item},
			{Method: http.MethodDelete, URL: item},
		},
	}
}

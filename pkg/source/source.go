package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/jsonmock/pkg/logging"
	"github.com/getmockd/jsonmock/pkg/merge"
	"github.com/getmockd/jsonmock/pkg/resource"
)

// Kind identifies how a source is turned into a document.
type Kind string

// Source kinds.
const (
	KindData       Kind = "data"
	KindProto      Kind = "proto"
	KindOpenAPI    Kind = "openapi"
	KindJSONSchema Kind = "jsonschema"
)

// Spec is one operator-supplied source.
type Spec struct {
	Kind     Kind
	Location string
}

// Specs builds a Spec of kind for every location.
func Specs(kind Kind, locations ...string) []Spec {
	out := make([]Spec, len(locations))
	for i, loc := range locations {
		out[i] = Spec{Kind: kind, Location: loc}
	}
	return out
}

// DefaultHTTPTimeout bounds a single remote fetch.
const DefaultHTTPTimeout = 30 * time.Second

// Loader reads sources from the local filesystem, S3 and HTTP(S).
type Loader struct {
	httpClient  *http.Client
	s3          ObjectGetter
	s3Config    S3Config
	s3Once      sync.Once
	s3Err       error
	importPaths []string
	log         *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) locations.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.httpClient = c }
}

// WithS3Client sets the client used for s3 locations.
// Without it a client is built from S3Config on first use.
func WithS3Client(c ObjectGetter) Option {
	return func(l *Loader) { l.s3 = c }
}

// WithS3Config sets the configuration for the lazily built S3 client.
func WithS3Config(cfg S3Config) Option {
	return func(l *Loader) { l.s3Config = cfg }
}

// WithImportPaths adds directories searched for proto imports.
func WithImportPaths(paths ...string) Option {
	return func(l *Loader) { l.importPaths = append(l.importPaths, paths...) }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		s3Config:   S3ConfigFromEnv(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = logging.WithComponent(l.log, "source")
	return l
}

// Load reads one source and returns the document it describes.
func (l *Loader) Load(ctx context.Context, spec Spec) (resource.Document, error) {
	data, err := l.read(ctx, spec.Location)
	if err != nil {
		return nil, &Error{Kind: spec.Kind, Location: spec.Location, Err: err}
	}

	var doc resource.Document
	switch spec.Kind {
	case KindData, "":
		doc, err = decodeDocument(spec.Location, data)
	case KindProto:
		doc, err = l.loadProto(ctx, spec.Location, data)
	case KindOpenAPI:
		doc, err = loadOpenAPI(ctx, spec.Location, data)
	case KindJSONSchema:
		doc, err = loadJSONSchema(spec.Location, data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedKind, spec.Kind)
	}
	if err != nil {
		return nil, &Error{Kind: spec.Kind, Location: spec.Location, Err: err}
	}

	l.log.Debug("loaded source",
		"kind", spec.Kind,
		"location", spec.Location,
		"resources", len(doc),
	)
	return doc, nil
}

// LoadAll loads specs in order and merges them into one document.
// The first failure aborts loading.
func (l *Loader) LoadAll(ctx context.Context, specs []Spec) (resource.Document, error) {
	if len(specs) == 0 {
		return nil, ErrNoSources
	}

	m := merge.New()
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := l.Load(ctx, spec)
		if err != nil {
			return nil, err
		}
		m.Add(doc)
	}
	return m.Result(), nil
}

// IsRemote reports whether location names an S3 object or an HTTP(S) URL.
func IsRemote(location string) bool {
	return isS3(location) || isHTTP(location)
}

func isS3(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

func isHTTP(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	switch {
	case isS3(location):
		client, err := l.s3Client(ctx)
		if err != nil {
			return nil, err
		}
		return getS3Object(ctx, client, location)
	case isHTTP(location):
		return l.fetchHTTP(ctx, location)
	default:
		return os.ReadFile(location)
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// ext returns the lowercased extension of a path or URL, ignoring any query.
func ext(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 && IsRemote(location) {
		location = location[:i]
	}
	if IsRemote(location) {
		return strings.ToLower(path.Ext(location))
	}
	return strings.ToLower(filepath.Ext(location))
}

func isYAML(location string) bool {
	e := ext(location)
	return e == ".yaml" || e == ".yml"
}

// decodeDocument parses JSON, or YAML for .yaml/.yml locations.
// JSON numbers keep their literal text so "id": 1 and "id": 1.0 stay distinct.
func decodeDocument(location string, data []byte) (resource.Document, error) {
	var root any
	if isYAML(location) {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		root = normalizeYAML(root)
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&root); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse JSON: %w", ErrTrailingData)
		}
	}

	doc, ok := root.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return doc, nil
}

// normalizeYAML converts values produced by yaml.v3 into the shapes the JSON
// decoder produces.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeYAML(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = normalizeYAML(child)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

package source

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotObject is returned when a document root is not a JSON object.
	ErrNotObject = errors.New("document root must be an object")

	// ErrTrailingData is returned when a JSON source has content after its root value.
	ErrTrailingData = errors.New("unexpected data after JSON document")

	// ErrUnsupportedKind is returned for a Spec with an unknown Kind.
	ErrUnsupportedKind = errors.New("unsupported source kind")

	// ErrInvalidS3URL is returned for a malformed s3:// location.
	ErrInvalidS3URL = errors.New("invalid s3 location")

	// ErrNoSources is returned by LoadAll when no specs are given.
	ErrNoSources = errors.New("no sources given")
)

// MissingFilesError lists every local source that does not exist.
type MissingFilesError struct {
	Paths []string
}

func (e *MissingFilesError) Error() string {
	if len(e.Paths) == 1 {
		return "file not found: " + e.Paths[0]
	}
	return fmt.Sprintf("%d files not found: %s", len(e.Paths), strings.Join(e.Paths, ", "))
}

// Error wraps a failure to load one source with its location.
type Error struct {
	Kind     Kind
	Location string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("load %s source %s: %v", e.Kind, e.Location, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned when a remote source answers with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

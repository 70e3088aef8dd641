package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves glob patterns (including "**") in local locations.
// Remote locations and patterns that match nothing are returned unchanged so
// CheckExists can report them. Matches of one pattern are sorted; duplicates
// across patterns are dropped keeping the first occurrence.
func Expand(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	seen := make(map[string]bool, len(patterns))
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if IsRemote(pattern) || !hasMeta(pattern) {
			add(pattern)
			continue
		}

		base, rel := doublestar.SplitPattern(filepath.ToSlash(pattern))
		matches, err := doublestar.Glob(os.DirFS(base), rel, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(filepath.Join(filepath.FromSlash(base), filepath.FromSlash(m)))
		}
	}
	return out, nil
}

// ExpandSpecs expands the locations of specs, keeping each match's kind.
func ExpandSpecs(specs []Spec) ([]Spec, error) {
	out := make([]Spec, 0, len(specs))
	for _, spec := range specs {
		locations, err := Expand([]string{spec.Location})
		if err != nil {
			return nil, &Error{Kind: spec.Kind, Location: spec.Location, Err: err}
		}
		for _, loc := range locations {
			out = append(out, Spec{Kind: spec.Kind, Location: loc})
		}
	}
	return out, nil
}

// CheckExists reports every local location that does not exist in a single
// *MissingFilesError. Remote locations are not checked.
func CheckExists(specs []Spec) error {
	var missing []string
	for _, spec := range specs {
		if IsRemote(spec.Location) {
			continue
		}
		if _, err := os.Stat(spec.Location); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, spec.Location)
		}
	}
	if len(missing) > 0 {
		return &MissingFilesError{Paths: missing}
	}
	return nil
}

func hasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/jsonmock/pkg/server"
	"github.com/getmockd/jsonmock/pkg/source"
)

// runRootCommandForTest resets every flag to its default, executes rootCmd
// with args and returns what was written to stdout.
func runRootCommandForTest(ctx context.Context, args ...string) (string, error) {
	jsonOutput = false
	mergeYAML = false

	for _, cmd := range []*cobra.Command{rootCmd, serveCmd, mergeCmd, versionCmd} {
		cmd.Flags().VisitAll(resetFlag)
		cmd.SetContext(ctx)
	}
	rootCmd.PersistentFlags().VisitAll(resetFlag)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), err
}

func resetFlag(f *pflag.Flag) {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		_ = sv.Replace(nil)
	} else {
		_ = f.Value.Set(f.DefValue)
	}
	f.Changed = false
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCmd(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := runRootCommandForTest(context.Background(), "version")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "jsonmock "), out)
		assert.Contains(t, out, runtime.Version())
	})

	t.Run("json", func(t *testing.T) {
		out, err := runRootCommandForTest(context.Background(), "version", "--json")
		require.NoError(t, err)

		var v VersionOutput
		require.NoError(t, json.Unmarshal([]byte(out), &v))
		assert.Equal(t, runtime.Version(), v.Go)
		assert.Equal(t, runtime.GOOS, v.OS)
		assert.NotEmpty(t, v.Version)
	})

	t.Run("rejects args", func(t *testing.T) {
		_, err := runRootCommandForTest(context.Background(), "version", "extra")
		require.Error(t, err)
	})
}

func TestMergeCmd(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "users.json", `{"users": [{"id": 1, "name": "Ann"}], "settings": {"theme": "dark"}}`)
	more := writeFile(t, dir, "more.yaml", "users:\n  - id: 1\n    name: Annie\n  - id: 2\n    name: Bob\nposts: []\n")

	t.Run("json", func(t *testing.T) {
		out, err := runRootCommandForTest(context.Background(), "merge", "-d", users, "-d", more)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, []any{
			map[string]any{"id": float64(1), "name": "Annie"},
			map[string]any{"id": float64(2), "name": "Bob"},
		}, doc["users"])
		assert.Equal(t, map[string]any{"theme": "dark"}, doc["settings"])
		assert.Equal(t, []any{}, doc["posts"])
	})

	t.Run("glob", func(t *testing.T) {
		out, err := runRootCommandForTest(context.Background(), "merge", "-d", filepath.Join(dir, "*.json"))
		require.NoError(t, err)
		assert.Contains(t, out, `"Ann"`)
		assert.NotContains(t, out, "Bob")
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := runRootCommandForTest(context.Background(), "merge", "-d", users, "--yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "settings:\n  theme: dark\n")
		assert.Contains(t, out, "id: 1\n")
	})

	t.Run("no sources", func(t *testing.T) {
		_, err := runRootCommandForTest(context.Background(), "merge")
		assert.ErrorIs(t, err, ErrNoSources)
	})
}

func TestServeCmd_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("no sources", func(t *testing.T) {
		_, err := runRootCommandForTest(context.Background(), "serve")
		assert.ErrorIs(t, err, ErrNoSources)
	})

	t.Run("missing files listed together", func(t *testing.T) {
		a := filepath.Join(dir, "a.json")
		b := filepath.Join(dir, "b.yaml")
		_, err := runRootCommandForTest(context.Background(), "serve", "-d", a, "-d", b)

		var missing *source.MissingFilesError
		require.True(t, errors.As(err, &missing), "got %v", err)
		assert.Equal(t, []string{a, b}, missing.Paths)
		assert.Contains(t, err.Error(), "2 files not found")
	})

	t.Run("non-object root", func(t *testing.T) {
		list := writeFile(t, dir, "list.json", `[1, 2, 3]`)
		_, err := runRootCommandForTest(context.Background(), "serve", "-d", list)
		assert.ErrorIs(t, err, source.ErrNotObject)
	})

	t.Run("invalid port", func(t *testing.T) {
		db := writeFile(t, dir, "db.json", `{"users": []}`)
		_, err := runRootCommandForTest(context.Background(), "serve", "-d", db, "--port", "70000")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("unknown log format", func(t *testing.T) {
		db := writeFile(t, dir, "db2.json", `{"users": []}`)
		_, err := runRootCommandForTest(context.Background(), "serve", "-d", db, "--log-format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logFormat")
	})
}

func TestRootCmd_HelpWithoutSources(t *testing.T) {
	out, err := runRootCommandForTest(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "serve")
}

func TestRootCmd_Serves(t *testing.T) {
	db := writeFile(t, t.TempDir(), "db.json", `{"users": [{"id": 1, "name": "Ann"}]}`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		status int
		body   string
		getErr error
	)
	serveReadyHook = func(srv *server.Server) {
		defer cancel()
		resp, err := http.Get(srv.URL() + "/users/1")
		if err != nil {
			getErr = err
			return
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		status, body = resp.StatusCode, string(b)
	}
	defer func() { serveReadyHook = nil }()

	out, err := runRootCommandForTest(ctx, "-d", db, "--port", "0", "--log-level", "error")
	require.NoError(t, err)
	require.NoError(t, getErr)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id": 1, "name": "Ann"}`, body)
	assert.Contains(t, out, "jsonmock is running at http://127.0.0.1:")
	assert.Contains(t, out, "/users\n")
	assert.Contains(t, out, "Press Ctrl+C to stop")
}

func TestServeCmd_JSONBanner(t *testing.T) {
	db := writeFile(t, t.TempDir(), "db.json", `{"users": [], "profile": {"name": "x"}}`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	serveReadyHook = func(*server.Server) { cancel() }
	defer func() { serveReadyHook = nil }()

	out, err := runRootCommandForTest(ctx, "serve", "-d", db, "-P", "0", "--metrics", "--json", "--log-level", "error")
	require.NoError(t, err)

	var banner ServeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &banner))
	assert.True(t, strings.HasPrefix(banner.URL, "http://127.0.0.1:"))
	assert.Equal(t, []string{"profile", "users"}, banner.Resources)
	assert.Len(t, banner.Routes, 2)
	assert.True(t, banner.Metrics)
}

func TestShadowedResources(t *testing.T) {
	doc := map[string]any{"users": []any{}, "__health": map[string]any{}, "__metrics": []any{}}
	assert.Equal(t, []string{"__health", "__metrics"}, shadowedResources(doc))
	assert.Empty(t, shadowedResources(map[string]any{"users": []any{}}))
}

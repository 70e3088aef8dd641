package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".jsonmockrc.yaml", ".jsonmockrc.yml"}

// FindLocalConfig searches the current directory for a local config file.
// Returns an empty string when there is none.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findConfigIn(cwd), nil
}

func findConfigIn(dir string) string {
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigFile loads a CLIConfig from a YAML or JSON file.
// YAML is a superset of JSON, so one decoder handles both.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, newConfigError(path, err)
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, newConfigError(path, err)
	}

	cfg.SetFields = make(map[string]bool, len(keys))
	for k := range keys {
		cfg.SetFields[k] = true
	}
	cfg.Sources = make(map[string]string)
	cfg.ConfigFile = path

	// Relative source paths resolve against the config file's directory.
	base := filepath.Dir(path)
	cfg.Data = resolvePaths(base, cfg.Data)
	cfg.Proto = resolvePaths(base, cfg.Proto)
	cfg.OpenAPI = resolvePaths(base, cfg.OpenAPI)
	cfg.JSONSchema = resolvePaths(base, cfg.JSONSchema)

	return &cfg, nil
}

func resolvePaths(base string, paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) || strings.Contains(p, "://") {
			out[i] = p
			continue
		}
		out[i] = filepath.Join(base, p)
	}
	return out
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Message)
	}
	return e.Path + ": " + e.Message
}

func newConfigError(path string, err error) *ConfigError {
	cerr := &ConfigError{Path: path, Message: err.Error()}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		cerr.Message = strings.Join(typeErr.Errors, "; ")
	}
	return cerr
}

// LoadAll loads configuration from all sources and merges them.
// Precedence: env > config file > defaults. An explicit configFile (from the
// --config flag) wins over JSONMOCK_CONFIG and the local .jsonmockrc.yaml.
// Flags are merged by the caller afterwards with SourceFlag.
func LoadAll(configFile string) (*CLIConfig, error) {
	cfg := NewDefault()

	path := configFile
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		local, err := FindLocalConfig()
		if err != nil {
			return nil, err
		}
		path = local
	}

	if path != "" {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, fileCfg, SourceFile)
		cfg.ConfigFile = path
	}

	LoadEnvConfig(cfg)

	return cfg, nil
}

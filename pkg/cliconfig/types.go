// Package cliconfig provides configuration types and loading for the jsonmock CLI.
package cliconfig

// CLIConfig represents the complete configuration for the jsonmock server.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Config file (--config, or .jsonmockrc.yaml in the current directory)
// 4. Default values (lowest priority)
type CLIConfig struct {
	// Server settings
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	ReadTimeout  int    `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout" json:"writeTimeout"`
	MaxBodySize  int64  `yaml:"maxBodySize" json:"maxBodySize"`
	ConfigFile   string `yaml:"-" json:"configFile,omitempty"`

	// Sources of data, merged in the order data, proto, openapi, jsonschema
	Data       []string `yaml:"data,omitempty" json:"data,omitempty"`
	Proto      []string `yaml:"proto,omitempty" json:"proto,omitempty"`
	OpenAPI    []string `yaml:"openapi,omitempty" json:"openapi,omitempty"`
	JSONSchema []string `yaml:"jsonschema,omitempty" json:"jsonschema,omitempty"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Metrics exposes Prometheus metrics at /__metrics
	Metrics bool `yaml:"metrics" json:"metrics"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which keys were present in a loaded file, so an
	// explicit false can override a true from a lower layer.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceFlag    = "flag"
)

// HasSources reports whether at least one data or schema source is configured.
func (c *CLIConfig) HasSources() bool {
	return len(c.Data)+len(c.Proto)+len(c.OpenAPI)+len(c.JSONSchema) > 0
}

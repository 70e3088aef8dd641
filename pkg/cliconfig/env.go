package cliconfig

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvHost         = "JSONMOCK_HOST"
	EnvPort         = "JSONMOCK_PORT"
	EnvConfig       = "JSONMOCK_CONFIG"
	EnvData         = "JSONMOCK_DATA"
	EnvProto        = "JSONMOCK_PROTO"
	EnvOpenAPI      = "JSONMOCK_OPENAPI"
	EnvJSONSchema   = "JSONMOCK_SCHEMA"
	EnvLogLevel     = "JSONMOCK_LOG_LEVEL"
	EnvLogFormat    = "JSONMOCK_LOG_FORMAT"
	EnvMetrics      = "JSONMOCK_METRICS"
	EnvReadTimeout  = "JSONMOCK_READ_TIMEOUT"
	EnvWriteTimeout = "JSONMOCK_WRITE_TIMEOUT"
	EnvMaxBodySize  = "JSONMOCK_MAX_BODY_SIZE"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment. List variables
// (data, proto, openapi, schema) are comma separated.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host = v
		cfg.Sources["host"] = SourceEnv
	}

	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
			cfg.Sources["port"] = SourceEnv
		}
	}

	if v := os.Getenv(EnvConfig); v != "" {
		cfg.ConfigFile = v
		cfg.Sources["configFile"] = SourceEnv
	}

	if v := splitList(os.Getenv(EnvData)); len(v) > 0 {
		cfg.Data = v
		cfg.Sources["data"] = SourceEnv
	}

	if v := splitList(os.Getenv(EnvProto)); len(v) > 0 {
		cfg.Proto = v
		cfg.Sources["proto"] = SourceEnv
	}

	if v := splitList(os.Getenv(EnvOpenAPI)); len(v) > 0 {
		cfg.OpenAPI = v
		cfg.Sources["openapi"] = SourceEnv
	}

	if v := splitList(os.Getenv(EnvJSONSchema)); len(v) > 0 {
		cfg.JSONSchema = v
		cfg.Sources["jsonschema"] = SourceEnv
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}

	if v := os.Getenv(EnvMetrics); v != "" {
		cfg.Metrics = parseBool(v)
		cfg.Sources["metrics"] = SourceEnv
	}

	if v := os.Getenv(EnvReadTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.ReadTimeout = timeout
			cfg.Sources["readTimeout"] = SourceEnv
		}
	}

	if v := os.Getenv(EnvWriteTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.WriteTimeout = timeout
			cfg.Sources["writeTimeout"] = SourceEnv
		}
	}

	if v := os.Getenv(EnvMaxBodySize); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxBodySize = size
			cfg.Sources["maxBodySize"] = SourceEnv
		}
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

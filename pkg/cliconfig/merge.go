package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Host != "" {
		target.Host = source.Host
		target.Sources["host"] = sourceType
	}
	if source.Port != 0 || fieldIsSet(source, "port") {
		target.Port = source.Port
		target.Sources["port"] = sourceType
	}
	if source.ReadTimeout != 0 {
		target.ReadTimeout = source.ReadTimeout
		target.Sources["readTimeout"] = sourceType
	}
	if source.WriteTimeout != 0 {
		target.WriteTimeout = source.WriteTimeout
		target.Sources["writeTimeout"] = sourceType
	}
	if source.MaxBodySize != 0 {
		target.MaxBodySize = source.MaxBodySize
		target.Sources["maxBodySize"] = sourceType
	}
	if len(source.Data) > 0 {
		target.Data = source.Data
		target.Sources["data"] = sourceType
	}
	if len(source.Proto) > 0 {
		target.Proto = source.Proto
		target.Sources["proto"] = sourceType
	}
	if len(source.OpenAPI) > 0 {
		target.OpenAPI = source.OpenAPI
		target.Sources["openapi"] = sourceType
	}
	if len(source.JSONSchema) > 0 {
		target.JSONSchema = source.JSONSchema
		target.Sources["jsonschema"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	// For booleans, checking `if source.Metrics` cannot detect an explicit
	// false, so SetFields (populated during file loading) decides.
	if boolIsSet(source, "metrics", source.Metrics) {
		target.Metrics = source.Metrics
		target.Sources["metrics"] = sourceType
	}
}

// boolIsSet reports whether a boolean should be merged. With SetFields
// available only keys present in the file count; without it only true
// values are merged.
func boolIsSet(cfg *CLIConfig, yamlKey string, value bool) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	return value
}

func fieldIsSet(cfg *CLIConfig, yamlKey string) bool {
	return cfg.SetFields != nil && cfg.SetFields[yamlKey]
}

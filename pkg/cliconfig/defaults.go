package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultHost is the default bind address. The server listens on loopback
// unless told otherwise.
const DefaultHost = "127.0.0.1"

// DefaultPort is the default HTTP server port.
const DefaultPort = 3000

// DefaultReadTimeout is the default read timeout in seconds.
const DefaultReadTimeout = 30

// DefaultWriteTimeout is the default write timeout in seconds.
const DefaultWriteTimeout = 30

// DefaultMaxBodySize is the default request body limit in bytes (10 MiB).
const DefaultMaxBodySize int64 = 10 << 20

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// DefaultLogFormat is the default log format.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		Host:         DefaultHost,
		Port:         DefaultPort,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		MaxBodySize:  DefaultMaxBodySize,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Sources:      make(map[string]string),
	}

	for _, key := range []string{"host", "port", "readTimeout", "writeTimeout", "maxBodySize", "logLevel", "logFormat", "metrics"} {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}

// Addr returns the host:port listen address.
func (c *CLIConfig) Addr() string {
	host := c.Host
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		host = "[" + host + "]"
	}
	return host + ":" + strconv.Itoa(c.Port)
}

// Validate checks that the configuration values are usable.
func (c *CLIConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range (0-65535)", c.Port)
	}
	if c.ReadTimeout < 0 || c.ReadTimeout > 3600 {
		return fmt.Errorf("readTimeout %d is out of range (0-3600)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 || c.WriteTimeout > 3600 {
		return fmt.Errorf("writeTimeout %d is out of range (0-3600)", c.WriteTimeout)
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("maxBodySize %d must not be negative", c.MaxBodySize)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not supported (use text or json)", c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel %q is not supported (use debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

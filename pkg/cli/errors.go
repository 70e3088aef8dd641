package cli

import "errors"

// Common CLI errors
var (
	ErrNoSources = errors.New("no data sources given - use --data, --proto, --openapi or --schema")
)

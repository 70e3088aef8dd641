package source

import (
	"github.com/google/uuid"
)

// stringSample returns a deterministic sample for a string with the given
// format. Field names seed uuid samples so repeated loads agree.
func stringSample(format, field string) string {
	switch format {
	case "email":
		return "user@example.com"
	case "uri", "url":
		return "https://example.com"
	case "uuid":
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(field)).String()
	case "date":
		return "2024-01-01"
	case "date-time":
		return "2024-01-01T00:00:00Z"
	case "time":
		return "12:00:00"
	case "hostname":
		return "example.com"
	case "ipv4":
		return "192.168.1.1"
	case "ipv6":
		return "::1"
	case "byte":
		return "c2FtcGxl"
	default:
		return "sample " + field
	}
}

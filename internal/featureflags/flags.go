// Package featureflags gates optional behavior on environment variables.
package featureflags

import (
	"os"
	"strings"
)

// Flags in use. The audit feed flag controls the /ws/events endpoint.
const (
	AuditFeed    = "audit_feed"
	SessionSweep = "session_sweep"
)

// Enabled reports whether FLAG_<NAME> is set to a truthy value
// (1/true/yes/on, case-insensitive).
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// EnabledDefault is like Enabled but treats an unset variable as def
func EnabledDefault(name string, def bool) bool {
	v, ok := os.LookupEnv("FLAG_" + strings.ToUpper(name))
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

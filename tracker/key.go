package tracker

import "strings"

// Key returns the canonical deduplication key "<kind>:<value>" where value is
// trimmed and lower-cased, so "  Test@Example.com " and "test@example.com"
// collide.
func Key(kind Kind, value string) string {
	return string(kind) + ":" + strings.ToLower(strings.TrimSpace(value))
}

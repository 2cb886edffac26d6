package search

import (
	"strings"
)

// normalize lower-cases the query for containment matching. A query with
// nothing but whitespace normalizes to "".
func normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return strings.ToLower(raw)
}

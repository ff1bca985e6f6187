package app

import (
	"regexp"
	"strings"
)

// Span attributes carry at most this many bytes of SQL.
const traceQueryLimit = 512

var sqlWhitespace = regexp.MustCompile(`\s+`)

// traceQuery collapses a statement onto one trimmed line so the
// indented multi-line constants in the repositories stay readable in
// trace attributes.
func traceQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	flat := sqlWhitespace.ReplaceAllString(query, " ")
	if len(flat) <= traceQueryLimit {
		return flat
	}

	return flat[:traceQueryLimit] + "..."
}

package app

import (
	"regexp"
	"strings"
)

// Multi-row corpus upserts produce statements far larger than a span
// attribute should carry; traced queries are collapsed to one line and
// truncated.
const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace is the otelsql query formatter for the audit store's
// traced connection.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

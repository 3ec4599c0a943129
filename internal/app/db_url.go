package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL optionally tags the DSN with
// disable_prepared_binary_result=yes. Needed when the audit store sits
// behind a transaction-pooling pgbouncer, where lib/pq's binary result
// negotiation breaks. Unparseable DSNs pass through untouched and fail
// later at connect time with a clearer error.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// dbNameFromURL extracts the database name for the traced connection's
// db.name attribute. Handles both URL DSNs and key=value DSNs; returns ""
// when neither form names a database.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, found := strings.CutPrefix(token, "dbname=")
		if !found {
			continue
		}
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

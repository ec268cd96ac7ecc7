package db

import (
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts a URL style DSN (postgres://...), a lib/pq key=value
// list, or a sqlite path. It trims quotes and whitespace and, if given
// key=value form, returns it cleaned with sslmode defaulted.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	if IsPostgresDSN(s) {
		lower := strings.ToLower(s)
		if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
			return s
		}
		fields := strings.Fields(s)
		cleaned := strings.Join(fields, " ")
		if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
			cleaned += " sslmode=disable"
		}
		return cleaned
	}
	return s
}

// IsPostgresDSN reports whether the DSN targets Postgres rather than a
// sqlite file. Plain paths and file: URIs are treated as sqlite.
func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return true
	}
	return kvPairRegex.MatchString(dsn)
}

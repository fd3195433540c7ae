// Package report renders reconciliation and ownership reports as table,
// JSON, or CSV text. Report bodies are the only thing written to stdout;
// everything diagnostic belongs on the logger.
package report

import "strings"

// Format selects a report output format.
type Format string

const (
	// FormatTable represents human-readable table output.
	FormatTable Format = "table"
	// FormatJSON represents JSON output.
	FormatJSON Format = "json"
	// FormatCSV represents CSV output.
	FormatCSV Format = "csv"
)

// Normalize maps a user-supplied format string onto a known Format.
// Unrecognized values silently fall back to the given default; they are
// aliases for it, not errors.
func Normalize(s string, def Format) Format {
	switch Format(strings.ToLower(s)) {
	case FormatTable:
		return FormatTable
	case FormatJSON:
		return FormatJSON
	case FormatCSV:
		return FormatCSV
	default:
		return def
	}
}

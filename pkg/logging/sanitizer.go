package logging

import (
	"regexp"
)

const (
	// MaxDumpLogLength is the maximum length of dump-derived text to log
	MaxDumpLogLength = 120
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in connection strings
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Pattern to match connection string credentials (user:pass@host format)
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)

	// Pattern to match legacy portable password hashes ($P$ / $H$ phpass)
	legacyHashPattern = regexp.MustCompile(`\$[PH]\$[./0-9A-Za-z]+`)

	// Pattern to match email addresses
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// SanitizeConnectionString removes sensitive data from connection strings
// Use this before logging any connection string
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	// Replace password values
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)

	// Replace user:pass@host format
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeError sanitizes error messages that might contain sensitive data
// Use this before logging any error from database or dump operations
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()

	// Remove potential passwords
	sanitized := passwordPattern.ReplaceAllString(errStr, "${1}="+RedactedText)

	// Remove connection string details
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	// Remove account data an error may quote from the export
	sanitized = legacyHashPattern.ReplaceAllString(sanitized, RedactedText)
	sanitized = emailPattern.ReplaceAllString(sanitized, RedactedText)

	return sanitized
}

// SanitizeDumpText prepares a snippet of export content for logging. The
// export holds real account data; password hashes and email addresses are
// redacted and the snippet is truncated. Use this before logging any value
// that originated in the dump file.
func SanitizeDumpText(s string) string {
	if s == "" {
		return ""
	}

	sanitized := legacyHashPattern.ReplaceAllString(s, RedactedText)
	sanitized = emailPattern.ReplaceAllString(sanitized, RedactedText)

	return TruncateString(sanitized, MaxDumpLogLength)
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

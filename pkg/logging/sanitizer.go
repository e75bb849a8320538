package logging

import (
	"regexp"
	"strings"
)

const (
	// MaxBodyLogLength is the maximum length of a response body to log
	MaxBodyLogLength = 200
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in connection strings and query strings
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Pattern to match the password flag of a mysql command line: -p'secret'
	mysqlPasswordFlagPattern = regexp.MustCompile(`-p'(?:[^']|'\\'')*'`)

	// Pattern to match the signature value of a JumpServer Authorization header
	signaturePattern = regexp.MustCompile(`signature="[^"]*"`)

	// Pattern to match token values in JSON payloads
	tokenValuePattern = regexp.MustCompile(`"(value|secret|password|input_secret)"\s*:\s*"[^"]*"`)

	// Pattern to match connection string credentials (user:pass@host format)
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@`)

	// Pattern to match go-sql-driver DSN credentials (user:pass@tcp(...))
	dsnPattern = regexp.MustCompile(`^[^:@\s]+:.*@(tcp|unix)\(`)
)

// SanitizeConnectionString removes sensitive data from connection strings
// (JDBC URLs, mysql command lines, DSNs). Use this before logging any connection string.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = mysqlPasswordFlagPattern.ReplaceAllString(sanitized, "-p"+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@")
	sanitized = dsnPattern.ReplaceAllString(sanitized, RedactedText+"@${1}(")

	return sanitized
}

// SanitizeError sanitizes error messages that might contain sensitive data.
// JumpServer API errors carry raw response bodies, so run them through this before logging.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeBody(err.Error())
}

// SanitizeBody redacts secrets from a response body or error text and truncates it for logging.
func SanitizeBody(body string) string {
	sanitized := passwordPattern.ReplaceAllString(body, "${1}="+RedactedText)
	sanitized = signaturePattern.ReplaceAllString(sanitized, `signature="`+RedactedText+`"`)
	sanitized = tokenValuePattern.ReplaceAllString(sanitized, `"${1}":"`+RedactedText+`"`)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@")
	return TruncateString(sanitized, MaxBodyLogLength)
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// sensitiveArgumentKeywords mark argument names whose values are never logged.
var sensitiveArgumentKeywords = []string{"password", "secret", "token", "key", "credential"}

// SanitizeArguments redacts sensitive tool arguments and truncates long string values.
// The input map is not modified.
func SanitizeArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	result := make(map[string]any, len(args))
	for k, v := range args {
		if isSensitiveKey(k) {
			result[k] = RedactedText
			continue
		}
		if str, ok := v.(string); ok {
			result[k] = TruncateString(str, MaxBodyLogLength)
			continue
		}
		result[k] = v
	}
	return result
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, keyword := range sensitiveArgumentKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}

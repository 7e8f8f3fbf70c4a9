package validation

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// TokenPattern matches the redirect tokens we issue: UUID-shaped, lowercase.
var TokenPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// ValidateToken checks if a string looks like an issued redirect token.
func ValidateToken(token string) bool {
	return TokenPattern.MatchString(token)
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateDate checks a YYYY-MM-DD travel date. Empty is allowed; optional
// date parameters are validated only when present.
func ValidateDate(date string) (bool, string) {
	if date == "" {
		return true, ""
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return false, "Date must be in YYYY-MM-DD format"
	}
	return true, ""
}

// ValidateDateRange checks that end does not precede start. Both must already
// be valid dates.
func ValidateDateRange(start, end string) (bool, string) {
	if start == "" || end == "" {
		return true, ""
	}
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return false, "Start date must be in YYYY-MM-DD format"
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return false, "End date must be in YYYY-MM-DD format"
	}
	if e.Before(s) {
		return false, "End date must not be before start date"
	}
	return true, ""
}

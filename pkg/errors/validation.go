package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateSegment checks one coordinate field (group, name, extension,
// classifier or version) before it is used to build repository paths.
//
// The rules are conservative:
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - No colons (the coordinate delimiter)
//   - Maximum length of 256 characters
func ValidateSegment(field, value string) error {
	if len(value) > 256 {
		return New(ErrCodeMalformedCoordinate, "%s too long (max 256 characters)", field)
	}
	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeMalformedCoordinate, "%s contains invalid characters: %q", field, value)
		}
	}
	for _, pattern := range []string{"..", "/", "\\", ":"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeMalformedCoordinate, "%s contains invalid characters: %q", field, pattern)
		}
	}
	return nil
}

// ValidateRepositoryURL checks that raw is an absolute http, https or file URL.
func ValidateRepositoryURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidConfig, "repository url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid repository url %q", raw)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return New(ErrCodeInvalidConfig, "repository url %q has no host", raw)
		}
	case "file":
	default:
		return New(ErrCodeInvalidConfig, "unsupported repository scheme %q", u.Scheme)
	}
	return nil
}

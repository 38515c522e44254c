package label

import (
	"net/url"
	"strings"
)

// keyPartReplacer neutralizes every character that could alter key structure:
// path separators, dots (traversal), percent signs (double encoding) and NUL.
var keyPartReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	".", "_",
	"%", "_",
	"\x00", "_",
)

// SanitizeKeyPart prepares a user-supplied identifier for embedding in a
// storage key. It percent-decodes the value when possible (falling back to
// the raw value on a decode failure), then replaces path-structure
// characters with underscores. Returns the sanitized value and whether it
// differs from the input. Empty or all-whitespace input fails with
// ErrInvalidInput.
//
// Sanitization is idempotent: applying it twice yields the same value.
func SanitizeKeyPart(value string) (string, bool, error) {
	if strings.TrimSpace(value) == "" {
		return "", false, ErrInvalidInput
	}

	decoded, err := url.PathUnescape(value)
	if err != nil {
		// Not valid percent-encoding. Use the raw value; the replacer
		// below still neutralizes the percent signs themselves.
		decoded = value
	}

	sanitized := keyPartReplacer.Replace(decoded)
	return sanitized, sanitized != value, nil
}

// sanitizeKeyPart applies SanitizeKeyPart and logs a warning when the value
// had to be rewritten. Changed identifiers are legitimate (emails contain
// dots) but worth an audit trail since they also defeat path traversal.
func (s *Store) sanitizeKeyPart(field, value string) (string, error) {
	sanitized, changed, err := SanitizeKeyPart(value)
	if err != nil {
		return "", err
	}
	if changed {
		s.logger.Warn("identifier rewritten for storage key", "field", field, "value", value, "sanitized", sanitized)
	}
	return sanitized, nil
}

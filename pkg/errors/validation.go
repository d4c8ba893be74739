package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// elementIDRegex matches identifiers that are safe as an HTML id and a CSS selector.
var elementIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateElementID validates the identifier of the rendering container.
//
// The id is interpolated into markup and CSS, so the rules are conservative:
//   - No empty ids
//   - Must start with a letter
//   - Only letters, digits, '-' and '_'
//   - Maximum length of 64 characters
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidConfig, "container id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidConfig, "container id too long (max 64 characters)")
	}
	if !elementIDRegex.MatchString(id) {
		return New(ErrCodeInvalidConfig, "invalid container id: %q", id)
	}
	return nil
}

// ValidateAttributeValue rejects strings that would break out of a quoted
// SVG or HTML attribute.
func ValidateAttributeValue(value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "attribute value cannot be empty")
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "attribute value contains invalid control characters")
		}
	}

	if strings.ContainsAny(value, "\"'<>&") {
		return New(ErrCodeInvalidInput, "attribute value contains markup characters: %q", value)
	}

	return nil
}

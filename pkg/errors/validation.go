package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a dot-separated option path such as
// "chart.toolbar.export.csv.filename".
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No control characters
//   - No empty segments (leading, trailing or doubled dots)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for i, seg := range strings.Split(path, ".") {
		if seg == "" {
			return New(ErrCodeInvalidPath, "path %q has an empty segment at position %d", path, i)
		}
	}

	return nil
}

// chartIDRegex matches ids that are safe inside a JavaScript identifier
// (chart ids become part of the "chart_<id>" variable name).
var chartIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateChartID validates a chart id.
func ValidateChartID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidChartID, "chart id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidChartID, "chart id too long (max 128 characters)")
	}
	if !chartIDRegex.MatchString(id) {
		return New(ErrCodeInvalidChartID, "invalid chart id: %q", id)
	}
	return nil
}

// ValidateSelector validates a CSS selector embedded in a generated script.
// It rejects characters that would terminate the surrounding string literal.
func ValidateSelector(sel string) error {
	if sel == "" {
		return New(ErrCodeInvalidSelector, "selector cannot be empty")
	}
	if strings.ContainsAny(sel, "\"\\\n\r<") {
		return New(ErrCodeInvalidSelector, "selector contains invalid characters: %q", sel)
	}
	return nil
}

package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from free text (status notes, remarks, subjects)
// and trims surrounding whitespace.
func SanitizeText(s string) string {
	cleaned := strictPolicy.Sanitize(s)
	// StrictPolicy escapes entities; store the plain text
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

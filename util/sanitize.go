package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var XSSPolicy = bluemonday.UGCPolicy()

// XSSSanitize sanitizes of HTML and returns the unescaped HTML
func XSSSanitize(val string) string {
	return html.UnescapeString(XSSPolicy.Sanitize(val))
}

// SanitizeText strips markup and surrounding whitespace from a single line field
func SanitizeText(val string) string {
	return strings.TrimSpace(XSSSanitize(val))
}

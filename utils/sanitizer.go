package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy strips every tag from typed input
var StrictPolicy = bluemonday.StrictPolicy()

// SanitizeText removes markup from user input and trims surrounding space.
// bluemonday escapes the remaining text, which is unescaped again here
// because html/template escapes on output.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(s)))
}

// SanitizeValues applies SanitizeText to every value of a form map
func SanitizeValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = SanitizeText(v)
	}
	return out
}

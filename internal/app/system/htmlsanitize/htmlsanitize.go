// Package htmlsanitize strips markup from free text that came from the
// upstream API before it leaves the service in an export file.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes every tag and keeps the text content.
var strictPolicy = bluemonday.StrictPolicy()

// Plain returns s with all markup removed and entities decoded, trimmed.
func Plain(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

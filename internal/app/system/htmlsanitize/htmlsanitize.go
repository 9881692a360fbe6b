// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips unsafe HTML from user-supplied text before
// it is stored. Application messages, completion feedback, and project
// descriptions all pass through here.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps common formatting markup (paragraphs, emphasis, links)
// and removes scripts, event handlers, and javascript: URLs.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all markup and trims the result.
// Use for fields that should never contain HTML at all.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

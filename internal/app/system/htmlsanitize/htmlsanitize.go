// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from free-text input fields.
//
// Bios are authored as Markdown and rendered by the clients, so the stored
// text must never contain raw HTML: anything tag-shaped a member pastes in
// is hostile or accidental either way. StripTags is also applied to form
// field labels, event descriptions, and favorite-link titles.
package htmlsanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes every HTML element and attribute from s, keeping only
// the text content. Entities introduced by the sanitizer are decoded back so
// plain text like "R&D" round-trips unchanged.
func StripTags(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

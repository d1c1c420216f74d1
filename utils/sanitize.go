package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// UGC policy keeps the formatting a user may legitimately post and strips
// scripts, styles and event handlers.
var sanitizer = bluemonday.UGCPolicy()

// entity-encoded markup unescapes into new markup, so cleaning repeats until
// the text stops changing
const maxSanitizePasses = 4

// Sanitize cleans user supplied text before it is validated and stored.
// The result is plain text: disallowed markup is removed and HTML entities
// are decoded, so "Tom & Jerry's" is kept as typed and lengths are counted
// on what the client sent. Input made only of disallowed markup comes back empty.
func Sanitize(input string) string {
	out := input
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(sanitizer.Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	return out
}

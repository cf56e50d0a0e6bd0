package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all HTML from user-supplied text. Task and reward fields
// are plain text; nothing richer is ever rendered.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

package core

import (
	"regexp"
	"strings"
)

var nonSlugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Slugify lowers `s` and joins its alphanumeric runs with dashes: "Sunshine Elementary!" -> "sunshine-elementary".
func Slugify(s string) string {
	return strings.Trim(nonSlugRegex.ReplaceAllString(CleanString(s, true /* lower */), "-"), "-")
}

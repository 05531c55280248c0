package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile("[^a-z0-9]+")

// Slugify lowercases s and joins its alphanumeric runs with hyphens, the way
// the backend derives tag and plan slugs.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	combiningMarks = regexp.MustCompile(`[\x{0300}-\x{036F}]`)
	nonWord        = regexp.MustCompile(`[^a-z0-9]+`)
)

// GenerateSlug joins parts into a URL-friendly slug.
// Example: ("Anna van Hecke", "1607") -> "anna-van-hecke-1607"
func GenerateSlug(parts ...string) string {
	joined := strings.Join(parts, " ")

	// Decompose so accents become separate combining marks, then drop them
	slug := norm.NFKD.String(joined)
	slug = combiningMarks.ReplaceAllString(slug, "")

	slug = strings.ToLower(slug)
	slug = nonWord.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

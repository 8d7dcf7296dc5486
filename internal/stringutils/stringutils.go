package stringutils

import (
	"regexp"
	"strings"
)

// illegalFilenameChars matches characters that cannot appear in filenames on
// common filesystems.
var illegalFilenameChars = regexp.MustCompile(`[/\\:*?"<>|]`)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Slugify turns a sprint label into a safe lowercase filename stem.
// Illegal filename characters are stripped, whitespace runs collapse to a
// single dash, and an empty result falls back to "report".
func Slugify(label string) string {
	s := illegalFilenameChars.ReplaceAllString(label, "")
	s = strings.TrimSpace(s)
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = strings.ToLower(s)
	if s == "" {
		return "report"
	}
	return s
}

// NormalizeKey lowercases and trims a string for case-insensitive matching.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

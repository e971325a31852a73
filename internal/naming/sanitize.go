package naming

import "regexp"

var (
	reUnsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-]`)
	reDashRuns    = regexp.MustCompile(`-+`)
)

// Sanitize makes s safe as a name component: every character outside
// [A-Za-z0-9-] becomes a hyphen and runs of hyphens collapse to one.
// Underscores and dots, the convention's separators, never survive.
func Sanitize(s string) string {
	s = reUnsafeChars.ReplaceAllString(s, "-")
	return reDashRuns.ReplaceAllString(s, "-")
}

// Package slugify derives URL-safe identifiers for posts and tags.
//
// The same function backs server-side validation and the admin editor preview endpoint,
// so a slug shown while typing is exactly the slug that gets stored.
package slugify

import (
	"regexp"
	"strings"
)

// space covers ASCII whitespace plus the Unicode space separators and line breaks.
const space = `\s\v\p{Zs}\x{2028}\x{2029}\x{feff}`

var (
	disallowed = regexp.MustCompile(`[^a-z0-9_` + space + `-]`)
	separators = regexp.MustCompile(`[` + space + `_-]+`)
	validSlug  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make lower-cases text, strips anything that is not a word character, whitespace or hyphen,
// collapses separator runs into a single hyphen and trims hyphens from both ends.
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = disallowed.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether slug is already in canonical form.
func Valid(slug string) bool {
	return validSlug.MatchString(slug)
}

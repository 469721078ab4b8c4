package discovery

import "strings"

// Normalize canonicalizes a category name for fuzzy comparison: lower-case,
// "&" becomes the word "and", everything outside [a-z0-9 whitespace] is
// stripped, and whitespace runs collapse to a single space. Idempotent:
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

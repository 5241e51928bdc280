// Package slug derives URL-safe identifiers from post titles.
package slug

import "strings"

// Make lowercases title, replaces every run of characters outside [a-z0-9]
// with a single hyphen and trims hyphens from both ends.
//
// Lowercasing happens first, so non-ASCII letters that have no ASCII
// lowercase form are treated as separators.
func Make(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for i := 0; i < len(lower); i++ {
		ch := lower[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(ch)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}

// Numeric reports whether s is made of digits only. Post routes read such a
// key as an id, so a numeric slug could never be looked up.
func Numeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

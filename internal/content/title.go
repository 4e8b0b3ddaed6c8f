package content

import "strings"

// Title is the display title for a specimen key: every hyphen becomes a
// space and the result is upper-cased.
func Title(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", " "))
}

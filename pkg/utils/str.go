package utils

import "strings"

// FirstNonEmpty returns the first argument that is not the empty string,
// or "" when all of them are.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SplitAny splits s on any rune contained in seps. Empty fields are
// dropped, so trailing or doubled separators are harmless.
func SplitAny(s, seps string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}

package categorize

import (
	"strings"
	"unicode"
)

// Tokenize lowercases a description and splits it on non-alphanumeric runes.
// Single-character fragments are noise in merchant strings and are dropped.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

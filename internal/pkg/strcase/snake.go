// Package strcase converts Go identifiers to the snake_case keys used in
// JSON payloads and error maps.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake turns "UserID" into "user_id" and "HTTPServer" into
// "http_server". Existing underscores are kept.
func ToLowerSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && startsWord(runes, i) && runes[i-1] != '_' {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// startsWord reports whether the upper-case rune at i opens a new word:
// it follows a lower-case letter or digit, or it ends an acronym that is
// followed by a lower-case letter.
func startsWord(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

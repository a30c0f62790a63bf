package console

import (
	"strings"
	"unicode"
)

// SplitCommand splits a raw command line into tokens. Single- and
// double-quoted substrings form one token, so titles and names with spaces
// survive. A backslash escapes the next character outside single quotes.
func SplitCommand(line string) []string {
	var tokens []string
	var current strings.Builder
	inToken := false
	var quote rune
	escaped := false

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			current.Reset()
			inToken = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			inToken = true
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inToken = true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	flush()
	return tokens
}

// Package tokenizer normalizes raw text into terms. Documents and queries
// must pass through the identical normalization or similarity scores are
// meaningless, so this is the single tokenizer in the program.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text, turns every rune that is not an ASCII lowercase
// letter, ASCII digit, or whitespace into a single space, and splits on
// whitespace runs. The output preserves input order and never contains
// empty tokens.
func Tokenize(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, strings.ToLower(text))
	return strings.Fields(normalized)
}

// Frequencies tokenizes text and counts raw occurrences per distinct term.
func Frequencies(text string) map[string]int {
	tokens := Tokenize(text)
	counts := make(map[string]int, len(tokens))
	for _, term := range tokens {
		counts[term]++
	}
	return counts
}

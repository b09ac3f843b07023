package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold returns the Unicode case-folded form of s.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Words splits s into case-folded tokens of letters and digits. Apostrophes
// inside a word are kept so "don't" stays one token.
func Words(s string) []string {
	folded := Fold(s)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// PhraseIndex finds phrase (one or more words) in tokens on word boundaries
// and returns the index of its first token, or -1.
func PhraseIndex(tokens []string, phrase string) int {
	needle := Words(phrase)
	if len(needle) == 0 || len(needle) > len(tokens) {
		return -1
	}
	for i := 0; i+len(needle) <= len(tokens); i++ {
		match := true
		for j, word := range needle {
			if tokens[i+j] != word {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Title renders s in English title case.
func Title(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

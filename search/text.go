package search

import (
	"strings"
	"unicode"
)

const punctCutset = ".,!?;:'\"-()[]{}"

// queryWords splits a query into whitespace-delimited tokens with surrounding
// punctuation trimmed. Empty tokens after trimming are dropped.
func queryWords(query string) []string {
	fields := strings.Fields(query)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, punctCutset)
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// hasUpper reports whether the word contains at least one uppercase letter.
// Capitalized words in a query are usually proper nouns (names, places) and
// carry extra weight in keyword scoring.
func hasUpper(word string) bool {
	for _, r := range word {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

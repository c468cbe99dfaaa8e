package services

import (
	"strings"
	"unicode"
)

// TextAnalyzer provides the tokenization used to vectorize card content
// This is a domain service that encapsulates text processing logic
type TextAnalyzer interface {
	// Tokenize breaks text into ordered lowercase tokens, keeping
	// duplicates so term frequencies can be counted
	Tokenize(text string) []string
}

// DefaultTextAnalyzer provides a default implementation of TextAnalyzer
type DefaultTextAnalyzer struct{}

// NewDefaultTextAnalyzer creates a new text analyzer
func NewDefaultTextAnalyzer() *DefaultTextAnalyzer {
	return &DefaultTextAnalyzer{}
}

// Tokenize lowercases the text, strips non-word characters and splits on
// the boundaries, dropping tokens of two characters or fewer
func (ta *DefaultTextAnalyzer) Tokenize(text string) []string {
	text = strings.ToLower(text)

	tokens := make([]string, 0)
	var current strings.Builder
	flush := func() {
		if current.Len() > 2 {
			tokens = append(tokens, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

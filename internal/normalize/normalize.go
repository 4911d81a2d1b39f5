// Package normalize turns raw article text into the cleaned form every
// model input goes through. Training and inference must share it.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlExpr        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	annotationExpr = regexp.MustCompile(`\[.*?\]`)
	nonLetterExpr  = regexp.MustCompile(`[^a-zA-Z\s]`)
	spaceExpr      = regexp.MustCompile(`\s+`)
)

// Clean lowercases text, strips URLs, bracketed annotations and every
// character that is not an ASCII letter or whitespace, then collapses
// whitespace. Unicode spaces such as NBSP and the ASCII \v and separator
// controls count as whitespace. It is pure and idempotent.
func Clean(text string) string {
	text = strings.Map(foldSpace, text)
	text = strings.ToLower(text)
	text = urlExpr.ReplaceAllString(text, "")
	text = annotationExpr.ReplaceAllString(text, "")
	text = nonLetterExpr.ReplaceAllString(text, "")
	text = spaceExpr.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// foldSpace maps every whitespace rune except newline to a plain space.
// Newlines are kept so annotations never span lines.
func foldSpace(r rune) rune {
	switch {
	case r == '\n':
		return r
	case unicode.IsSpace(r), r >= 0x1c && r <= 0x1f:
		return ' '
	}
	return r
}

// Words splits cleaned text on whitespace.
func Words(cleaned string) []string {
	return strings.Fields(cleaned)
}

// WordCount is len(Words(cleaned)) without the allocation.
func WordCount(cleaned string) int {
	count := 0
	inWord := false
	for i := 0; i < len(cleaned); i++ {
		if cleaned[i] == ' ' || cleaned[i] == '\t' || cleaned[i] == '\n' || cleaned[i] == '\r' || cleaned[i] == '\f' || cleaned[i] == '\v' {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}

// Tokens returns the words eligible as vocabulary terms: at least two letters long.
func Tokens(cleaned string) []string {
	words := strings.Fields(cleaned)
	tokens := words[:0]
	for _, w := range words {
		if len(w) >= 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

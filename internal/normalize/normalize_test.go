package normalize

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Hello WORLD", "hello world"},
		{"strips http url", "see https://example.com/a?b=1 now", "see now"},
		{"strips www url", "visit www.example.org today", "visit today"},
		{"strips annotation", "breaking [Reuters] news [edited]", "breaking news"},
		{"annotation is non greedy", "a [x] b [y] c", "a b c"},
		{"drops digits and punctuation", "It's 2024, wow!!!", "its wow"},
		{"collapses whitespace", "  one\t\ttwo \n three  ", "one two three"},
		{"empty", "", ""},
		{"only noise", "123 !!! [note]", ""},
		{"vertical tab separates", "foo\vbar", "foo bar"},
		{"nbsp separates", "foo\u00a0bar", "foo bar"},
		{"em space separates", "foo\u2003bar", "foo bar"},
		{"ideographic space separates", "foo\u3000bar", "foo bar"},
		{"line separator separates", "foo\u2028bar", "foo bar"},
		{"unit separator separates", "foo\x1fbar", "foo bar"},
		{"url ends at nbsp", "see https://x.example/a\u00a0now", "see now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestCleanIdempotentAndAlphabetic(t *testing.T) {
	t.Parallel()

	valid := regexp.MustCompile(`^[a-z ]*$`)
	inputs := []string{
		"BREAKING: aliens have landed in the capital city according to unnamed officials",
		"Ünïcödé text — with dashes… and “quotes”",
		"http://a.b www.c.d [x] 42 (y)",
		"mixed\r\nline\vbreaks\fhere",
		"a]b[c]d",
		"İstanbul KELVIN sign",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "clean should be idempotent for %q", in)
		assert.Regexp(t, valid, once)
	}
}

func TestWordsAndTokens(t *testing.T) {
	t.Parallel()

	cleaned := Clean("A quick fox, a lazy dog.")
	assert.Equal(t, []string{"a", "quick", "fox", "a", "lazy", "dog"}, Words(cleaned))
	assert.Equal(t, 6, WordCount(cleaned))
	assert.Equal(t, []string{"quick", "fox", "lazy", "dog"}, Tokens(cleaned))
	assert.Equal(t, 0, WordCount(""))

	spaced := Clean("one\u00a0two\vthree\u2009four five six seven eight nine ten")
	assert.Equal(t, 10, WordCount(spaced))
}

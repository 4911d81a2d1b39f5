package corpus

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CredibilityScanner/internal/domain"
)

const body = "officials confirmed the report after a long review of the evidence gathered"

func rows(n int, label domain.Label) []domain.RawArticle {
	out := make([]domain.RawArticle, n)
	for i := range out {
		out[i] = domain.RawArticle{Title: fmt.Sprintf("Story %s", strings.Repeat("x", i+1)), Text: body, Label: label}
	}
	return out
}

func TestBuildFiltersRows(t *testing.T) {
	t.Parallel()

	input := []domain.RawArticle{
		{Title: "Headline", Text: body, Label: domain.HighCredibility},
		{Title: "HEADLINE!", Text: body + " [Reuters] 2024", Label: domain.LowCredibility},
		{Title: "", Text: body, Label: domain.LowCredibility},
		{Title: "Short", Text: "too few words here", Label: domain.LowCredibility},
		{Title: "Other", Text: body, Label: domain.LowCredibility},
	}

	examples, stats := Build(input, 42)
	assert.Equal(t, Stats{Rows: 5, Missing: 1, Duplicates: 1, TooShort: 1, Kept: 2}, stats)
	require.Len(t, examples, 2)
	for _, ex := range examples {
		assert.GreaterOrEqual(t, len(strings.Fields(ex.Content)), domain.MinWords)
	}

	// The first occurrence of duplicated content keeps its label.
	for _, ex := range examples {
		if strings.HasPrefix(ex.Content, "headline") {
			assert.Equal(t, domain.HighCredibility, ex.Label)
		}
	}
}

func TestBuildIsReproducible(t *testing.T) {
	t.Parallel()

	input := append(rows(30, domain.LowCredibility), rows(30, domain.HighCredibility)...)
	a, _ := Build(input, 42)
	b, _ := Build(input, 42)
	assert.Equal(t, a, b)

	c, _ := Build(input, 7)
	assert.NotEqual(t, a, c)
}

func TestStratifyPreservesClassBalance(t *testing.T) {
	t.Parallel()

	input := append(rows(100, domain.LowCredibility), rows(50, domain.HighCredibility)...)
	examples, _ := Build(input, 42)

	split, err := Stratify(examples, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, split.Test, 30)
	assert.Len(t, split.Train, 120)

	count := func(xs []domain.LabeledExample, label domain.Label) int {
		n := 0
		for _, x := range xs {
			if x.Label == label {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 20, count(split.Test, domain.LowCredibility))
	assert.Equal(t, 10, count(split.Test, domain.HighCredibility))

	again, err := Stratify(examples, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, split, again)
}

func TestStratifyErrors(t *testing.T) {
	t.Parallel()

	_, err := Stratify(nil, 0.2, 42)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)

	examples, _ := Build(rows(10, domain.LowCredibility), 42)
	_, err = Stratify(examples, 0.2, 42)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)

	_, err = Stratify(examples, 1.5, 42)
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	truth := []domain.Label{1, 1, 1, 0, 0, 0}
	pred := []domain.Label{1, 1, 0, 1, 0, 0}
	m := Evaluate(truth, pred)
	assert.InDelta(t, 4.0/6, m.Accuracy, 1e-12)
	assert.InDelta(t, 2.0/3, m.Precision, 1e-12)
	assert.InDelta(t, 2.0/3, m.Recall, 1e-12)
	assert.InDelta(t, 2.0/3, m.F1, 1e-12)

	none := Evaluate([]domain.Label{0, 0}, []domain.Label{0, 0})
	assert.Equal(t, domain.ModelMetrics{Accuracy: 1}, none)
}

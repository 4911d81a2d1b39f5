package features

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CredibilityScanner/internal/domain"
)

func smallCorpus() []string {
	return []string{
		"common apple banana",
		"common apple cherry",
		"common banana cherry",
		"common apple banana rare",
		"common cherry apple x",
	}
}

func TestFitPrunesByDocumentFrequency(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Options{MaxFeatures: 10, MaxDocFraction: 0.9, MinDocCount: 2})
	require.NoError(t, v.Fit(smallCorpus()))

	// "common" is in every document, "rare" in one, "x" is a single letter.
	assert.Equal(t, 3, v.Size())
	for _, term := range []string{"apple", "banana", "cherry"} {
		_, ok := v.Index(term)
		assert.True(t, ok, "expected %s in vocabulary", term)
	}
	for _, term := range []string{"common", "rare", "x"} {
		_, ok := v.Index(term)
		assert.False(t, ok, "did not expect %s in vocabulary", term)
	}
	assert.Equal(t, "apple", v.Term(0), "vocabulary indices follow term order")
}

func TestFitCapsVocabulary(t *testing.T) {
	t.Parallel()

	docs := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		var words []string
		for j := 0; j < 30; j++ {
			if (i+j)%3 != 0 {
				words = append(words, fmt.Sprintf("term%s", letters(j)))
			}
		}
		docs = append(docs, strings.Join(words, " "))
	}

	v := NewVectorizer(Options{MaxFeatures: 7, MaxDocFraction: 0.9, MinDocCount: 5})
	require.NoError(t, v.Fit(docs))
	assert.LessOrEqual(t, v.Size(), 7)

	d := NewVectorizer(DefaultOptions())
	require.NoError(t, d.Fit(docs))
	assert.LessOrEqual(t, d.Size(), 5000)
}

func TestFitFailsWhenNothingRemains(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Options{MaxFeatures: 10, MaxDocFraction: 0.9, MinDocCount: 5})
	err := v.Fit([]string{"alpha beta", "gamma delta", "one two", "three four", "five six", "seven eight"})
	require.Error(t, err)
	assert.False(t, v.Fitted())

	err = NewVectorizer(DefaultOptions()).Fit(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
}

func TestTransform(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Options{MaxFeatures: 10, MaxDocFraction: 0.9, MinDocCount: 2})
	require.NoError(t, v.Fit(smallCorpus()))

	vec, err := v.Transform("apple apple banana unknownword")
	require.NoError(t, err)
	assert.Equal(t, 2, vec.Len())
	assert.InDelta(t, 1.0, vec.Norm(), 1e-9)

	apple, _ := v.Index("apple")
	banana, _ := v.Index("banana")
	cherry, _ := v.Index("cherry")
	assert.Greater(t, vec.Get(apple), vec.Get(banana))
	assert.Zero(t, vec.Get(cherry))

	empty, err := v.Transform("nothing known here")
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestTransformBeforeFit(t *testing.T) {
	t.Parallel()

	_, err := NewVectorizer(DefaultOptions()).Transform("anything")
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.ErrorIs(t, err, domain.ErrNotFitted)
}

func TestVectorizerJSONKeepsFeatureSpace(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Options{MaxFeatures: 10, MaxDocFraction: 0.9, MinDocCount: 2})
	require.NoError(t, v.Fit(smallCorpus()))

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var restored Vectorizer
	require.NoError(t, json.Unmarshal(raw, &restored))

	doc := "cherry apple banana banana"
	want, err := v.Transform(doc)
	require.NoError(t, err)
	got, err := restored.Transform(doc)
	require.NoError(t, err)
	assert.Equal(t, want.Indices, got.Indices)
	for i := range want.Values {
		assert.InDelta(t, want.Values[i], got.Values[i], 1e-12)
	}

	_, err = json.Marshal(NewVectorizer(DefaultOptions()))
	assert.Error(t, err)
}

func TestVectorTop(t *testing.T) {
	t.Parallel()

	vec := Vector{Indices: []int{1, 3, 4, 7, 9, 12}, Values: []float64{0.2, 0.5, 0.2, 0.1, 0.5, 0.3}}
	assert.Equal(t, []int{3, 9, 12, 1, 4}, vec.Top(5))
	assert.Equal(t, []int{3}, vec.Top(1))
	assert.Empty(t, Vector{}.Top(5))
	assert.InDelta(t, 0.2*2+0.1*3, vec.Dot([]float64{0, 2, 0, 0, 0, 0, 0, 3}), 1e-12)
	assert.False(t, math.IsNaN(vec.Norm()))
}

func letters(n int) string {
	var b strings.Builder
	for {
		b.WriteByte(byte('a' + n%26))
		n /= 26
		if n == 0 {
			break
		}
	}
	return b.String()
}

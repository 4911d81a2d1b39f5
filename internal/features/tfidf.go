// Package features fits and applies the TF-IDF vectorizer shared by every
// classifier. A fitted vectorizer is frozen: Transform never changes it.
package features

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/normalize"
)

// ErrNotFitted is returned by Transform before Fit.
var ErrNotFitted = domain.ErrNotFitted

// Options bound the vocabulary.
type Options struct {
	MaxFeatures    int     `json:"maxFeatures"`
	MaxDocFraction float64 `json:"maxDocFraction"`
	MinDocCount    int     `json:"minDocCount"`
}

// DefaultOptions keeps the 5000 most relevant terms seen in at least 5
// documents and in no more than 90% of them.
func DefaultOptions() Options {
	return Options{MaxFeatures: 5000, MaxDocFraction: 0.9, MinDocCount: 5}
}

// Vectorizer maps cleaned documents to L2-normalized TF-IDF vectors.
type Vectorizer struct {
	opts    Options
	terms   []string
	docFreq []int
	numDocs int
	index   map[string]int
	idf     []float64
}

// NewVectorizer returns an unfitted vectorizer.
func NewVectorizer(opts Options) *Vectorizer {
	return &Vectorizer{opts: opts}
}

// Fitted reports whether a vocabulary has been learned.
func (v *Vectorizer) Fitted() bool {
	return v != nil && v.index != nil
}

// Size is the vocabulary dimensionality.
func (v *Vectorizer) Size() int {
	return len(v.terms)
}

// Term returns the vocabulary term at idx.
func (v *Vectorizer) Term(idx int) string {
	return v.terms[idx]
}

// Index returns the vocabulary index of term.
func (v *Vectorizer) Index(term string) (int, bool) {
	idx, ok := v.index[term]
	return idx, ok
}

// Fit learns the vocabulary and document frequencies from cleaned documents.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("fit vectorizer: %w", domain.ErrEmptyCorpus)
	}

	df := map[string]int{}
	total := map[string]int{}
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, tok := range normalize.Tokens(doc) {
			total[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := len(docs)
	maxDocs := v.opts.MaxDocFraction * float64(n)
	if maxDocs < float64(v.opts.MinDocCount) {
		return fmt.Errorf("fit vectorizer: max document count %.1f is below min document count %d", maxDocs, v.opts.MinDocCount)
	}

	type candidate struct {
		term  string
		score float64
	}
	candidates := make([]candidate, 0, len(df))
	for term, count := range df {
		if float64(count) > maxDocs || count < v.opts.MinDocCount {
			continue
		}
		candidates = append(candidates, candidate{term: term, score: float64(total[term]) * smoothIDF(n, count)})
	}
	if len(candidates) == 0 {
		return fmt.Errorf("fit vectorizer: no terms remain after pruning %d documents", n)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].term < candidates[j].term
	})
	if v.opts.MaxFeatures > 0 && len(candidates) > v.opts.MaxFeatures {
		candidates = candidates[:v.opts.MaxFeatures]
	}

	terms := make([]string, len(candidates))
	for i, c := range candidates {
		terms[i] = c.term
	}
	sort.Strings(terms)

	freq := make([]int, len(terms))
	for i, term := range terms {
		freq[i] = df[term]
	}

	v.load(terms, freq, n)
	return nil
}

// Transform maps one cleaned document into the frozen feature space.
// Terms outside the vocabulary are ignored.
func (v *Vectorizer) Transform(doc string) (Vector, error) {
	if !v.Fitted() {
		return Vector{}, ErrNotFitted
	}

	counts := map[int]int{}
	for _, tok := range normalize.Tokens(doc) {
		if idx, ok := v.index[tok]; ok {
			counts[idx]++
		}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	var norm float64
	for _, idx := range vec.Indices {
		w := float64(counts[idx]) * v.idf[idx]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec, nil
}

// TransformAll transforms every document.
func (v *Vectorizer) TransformAll(docs []string) ([]Vector, error) {
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		vec, err := v.Transform(doc)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (v *Vectorizer) load(terms []string, docFreq []int, numDocs int) {
	v.terms = terms
	v.docFreq = docFreq
	v.numDocs = numDocs
	v.index = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.index[term] = i
		v.idf[i] = smoothIDF(numDocs, docFreq[i])
	}
}

func smoothIDF(numDocs, docFreq int) float64 {
	return math.Log(float64(1+numDocs)/float64(1+docFreq)) + 1
}

type vectorizerState struct {
	Options Options  `json:"options"`
	Terms   []string `json:"terms"`
	DocFreq []int    `json:"docFreq"`
	NumDocs int      `json:"numDocs"`
}

// MarshalJSON persists the vocabulary and document-frequency statistics.
func (v *Vectorizer) MarshalJSON() ([]byte, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	return json.Marshal(vectorizerState{
		Options: v.opts,
		Terms:   v.terms,
		DocFreq: v.docFreq,
		NumDocs: v.numDocs,
	})
}

// UnmarshalJSON restores a fitted vectorizer.
func (v *Vectorizer) UnmarshalJSON(data []byte) error {
	var state vectorizerState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if len(state.Terms) != len(state.DocFreq) {
		return fmt.Errorf("vectorizer state has %d terms but %d frequencies", len(state.Terms), len(state.DocFreq))
	}
	v.opts = state.Options
	v.load(state.Terms, state.DocFreq, state.NumDocs)
	return nil
}

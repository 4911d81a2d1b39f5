// Package corpus turns labeled raw rows into the cleaned, deduplicated,
// shuffled and split examples the trainer fits on.
package corpus

import (
	"fmt"
	"math"
	"math/rand/v2"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/normalize"
)

// Stats counts what Build kept and dropped.
type Stats struct {
	Rows       int `json:"rows"`
	Missing    int `json:"missing"`
	Duplicates int `json:"duplicates"`
	TooShort   int `json:"tooShort"`
	Kept       int `json:"kept"`
}

// Build cleans every row, drops rows with a missing title or body, removes
// exact duplicates of cleaned content (first occurrence wins), drops rows
// under domain.MinWords and finally shuffles with seed.
func Build(rows []domain.RawArticle, seed uint64) ([]domain.LabeledExample, Stats) {
	stats := Stats{Rows: len(rows)}
	seen := make(map[string]struct{}, len(rows))
	examples := make([]domain.LabeledExample, 0, len(rows))

	for _, row := range rows {
		if row.Title == "" || row.Text == "" {
			stats.Missing++
			continue
		}

		content := normalize.Clean(row.Content())
		if _, ok := seen[content]; ok {
			stats.Duplicates++
			continue
		}
		seen[content] = struct{}{}

		if normalize.WordCount(content) < domain.MinWords {
			stats.TooShort++
			continue
		}
		examples = append(examples, domain.LabeledExample{Content: content, Label: row.Label})
	}

	Shuffle(examples, seed)
	stats.Kept = len(examples)
	return examples, stats
}

// Shuffle permutes examples deterministically for a given seed.
func Shuffle(examples []domain.LabeledExample, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
}

// Split holds the train and test partitions.
type Split struct {
	Train []domain.LabeledExample
	Test  []domain.LabeledExample
}

// Docs returns the cleaned contents and labels of examples.
func Docs(examples []domain.LabeledExample) ([]string, []domain.Label) {
	docs := make([]string, len(examples))
	labels := make([]domain.Label, len(examples))
	for i, ex := range examples {
		docs[i] = ex.Content
		labels[i] = ex.Label
	}
	return docs, labels
}

// Stratify shuffles each class with seed and moves round(testFraction*n_c)
// examples of every class into the test partition.
func Stratify(examples []domain.LabeledExample, testFraction float64, seed uint64) (Split, error) {
	if len(examples) == 0 {
		return Split{}, fmt.Errorf("stratify: %w", domain.ErrEmptyCorpus)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return Split{}, fmt.Errorf("stratify: test fraction %.2f outside (0,1)", testFraction)
	}

	byClass := map[domain.Label][]domain.LabeledExample{}
	for _, ex := range examples {
		byClass[ex.Label] = append(byClass[ex.Label], ex)
	}

	var split Split
	for _, label := range []domain.Label{domain.LowCredibility, domain.HighCredibility} {
		group := byClass[label]
		if len(group) < 2 {
			return Split{}, fmt.Errorf("stratify: class %d has %d examples, need at least 2: %w", label, len(group), domain.ErrEmptyCorpus)
		}

		Shuffle(group, seed+uint64(label))
		testN := int(math.Floor(testFraction*float64(len(group)) + 0.5))
		testN = min(max(testN, 1), len(group)-1)

		split.Test = append(split.Test, group[:testN]...)
		split.Train = append(split.Train, group[testN:]...)
	}

	Shuffle(split.Train, seed)
	Shuffle(split.Test, seed)
	return split, nil
}

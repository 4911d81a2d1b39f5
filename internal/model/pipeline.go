// Package model chains the TF-IDF vectorizer with a classifier and defines
// the persisted artifact format.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"CredibilityScanner/internal/classifier"
	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/features"
)

// Pipeline is a fitted vectorizer plus classifier. It is read-only once
// fitted, so concurrent Score calls are safe.
type Pipeline struct {
	ID         string
	Name       string
	TrainedAt  time.Time
	Vectorizer *features.Vectorizer
	Classifier classifier.Classifier
}

// Scored is the raw output of one pipeline pass.
type Scored struct {
	Label         domain.Label
	Probabilities []float64
	Vector        features.Vector
}

// NewPipeline wires an unfitted vectorizer to clf.
func NewPipeline(clf classifier.Classifier, opts features.Options) *Pipeline {
	return &Pipeline{
		Name:       clf.Name(),
		Vectorizer: features.NewVectorizer(opts),
		Classifier: clf,
	}
}

// Fit learns the vocabulary from docs, then fits the classifier on the
// transformed rows.
func (p *Pipeline) Fit(docs []string, labels []domain.Label) error {
	if err := p.Vectorizer.Fit(docs); err != nil {
		return err
	}
	rows, err := p.Vectorizer.TransformAll(docs)
	if err != nil {
		return err
	}
	if err := p.Classifier.Fit(rows, labels, p.Vectorizer.Size()); err != nil {
		return fmt.Errorf("fit %s: %w", p.Name, err)
	}
	p.ID = uuid.NewString()
	p.TrainedAt = time.Now().UTC()
	return nil
}

// Predict labels one cleaned document.
func (p *Pipeline) Predict(doc string) (domain.Label, error) {
	vec, err := p.Vectorizer.Transform(doc)
	if err != nil {
		return 0, err
	}
	return p.Classifier.Predict(vec), nil
}

// Score labels one cleaned document and, when the classifier supports it,
// returns class probabilities. Probabilities stay nil otherwise.
func (p *Pipeline) Score(doc string) (Scored, error) {
	vec, err := p.Vectorizer.Transform(doc)
	if err != nil {
		return Scored{}, err
	}

	scored := Scored{Label: p.Classifier.Predict(vec), Vector: vec}
	if p.Classifier.SupportsProbability() {
		proba, err := p.Classifier.PredictProba(vec)
		if err == nil {
			scored.Probabilities = proba
		}
	}
	return scored, nil
}

// TopTerms returns up to k vocabulary terms with the largest weights in vec.
func (p *Pipeline) TopTerms(vec features.Vector, k int) []string {
	idx := vec.Top(k)
	terms := make([]string, len(idx))
	for i, id := range idx {
		terms[i] = p.Vectorizer.Term(id)
	}
	return terms
}

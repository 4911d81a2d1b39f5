package model

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"CredibilityScanner/internal/classifier"
	"CredibilityScanner/internal/features"
)

// SchemaVersion is written into every artifact; Decode accepts only this value.
const SchemaVersion = 1

type envelope struct {
	SchemaVersion int                  `json:"schemaVersion"`
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	TrainedAt     time.Time            `json:"trainedAt"`
	Vectorizer    *features.Vectorizer `json:"vectorizer"`
	Classifier    json.RawMessage      `json:"classifier"`
}

// Encode writes p as a versioned JSON artifact.
func Encode(w io.Writer, p *Pipeline) error {
	if p == nil || !p.Vectorizer.Fitted() {
		return features.ErrNotFitted
	}

	clf, err := json.Marshal(p.Classifier)
	if err != nil {
		return fmt.Errorf("encode classifier: %w", err)
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(envelope{
		SchemaVersion: SchemaVersion,
		ID:            p.ID,
		Name:          p.Name,
		TrainedAt:     p.TrainedAt,
		Vectorizer:    p.Vectorizer,
		Classifier:    clf,
	}); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// Decode reads an artifact written by Encode, resolving the classifier
// variant through reg.
func Decode(r io.Reader, reg *classifier.Registry) (*Pipeline, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("artifact schema version %d, want %d", env.SchemaVersion, SchemaVersion)
	}
	if env.Vectorizer == nil {
		return nil, fmt.Errorf("artifact has no vectorizer")
	}

	clf, err := reg.Resolve(env.Name)
	if err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if err := json.Unmarshal(env.Classifier, clf); err != nil {
		return nil, fmt.Errorf("decode classifier %s: %w", env.Name, err)
	}

	return &Pipeline{
		ID:         env.ID,
		Name:       env.Name,
		TrainedAt:  env.TrainedAt,
		Vectorizer: env.Vectorizer,
		Classifier: clf,
	}, nil
}

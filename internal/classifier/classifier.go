// Package classifier holds the interchangeable binary models trained on
// TF-IDF features.
package classifier

import (
	"encoding/json"
	"fmt"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/features"
)

// Model identifiers used in metrics reports and persisted artifacts.
const (
	LogisticRegressionID = "Logistic_Regression"
	DecisionTreeID       = "Decision_Tree"
)

// Classifier is a binary model over a fixed feature space.
type Classifier interface {
	json.Marshaler
	json.Unmarshaler

	Name() string
	Fit(x []features.Vector, y []domain.Label, dim int) error
	Predict(x features.Vector) domain.Label
	// SupportsProbability is checked before PredictProba.
	SupportsProbability() bool
	// PredictProba returns one probability per class, indexed by label.
	PredictProba(x features.Vector) ([]float64, error)
}

func validateTrainingSet(x []features.Vector, y []domain.Label) error {
	if len(x) == 0 {
		return fmt.Errorf("fit: %w", domain.ErrEmptyCorpus)
	}
	if len(x) != len(y) {
		return fmt.Errorf("fit: %d samples but %d labels", len(x), len(y))
	}
	for i, label := range y {
		if label != domain.LowCredibility && label != domain.HighCredibility {
			return fmt.Errorf("fit: sample %d has non-binary label %d", i, label)
		}
	}
	return nil
}

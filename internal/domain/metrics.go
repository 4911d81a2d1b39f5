package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

const bestModelKey = "bestModel"

// ModelMetrics holds held-out scores for one candidate model.
type ModelMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// MetricsReport maps model identifiers to scores and names the deployed one.
type MetricsReport struct {
	Models    map[string]ModelMetrics
	BestModel string
}

// ModelNames returns the evaluated identifiers in stable order.
func (r MetricsReport) ModelNames() []string {
	names := make([]string, 0, len(r.Models))
	for name := range r.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON flattens the report into {"<id>": {...}, "bestModel": "<id>"}.
func (r MetricsReport) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Models)+1)
	for name, m := range r.Models {
		out[name] = m
	}
	out[bestModelKey] = r.BestModel
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON.
func (r *MetricsReport) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Models = make(map[string]ModelMetrics, len(raw))
	r.BestModel = ""
	for key, value := range raw {
		if key == bestModelKey {
			if err := json.Unmarshal(value, &r.BestModel); err != nil {
				return fmt.Errorf("decode %s: %w", bestModelKey, err)
			}
			continue
		}
		var m ModelMetrics
		if err := json.Unmarshal(value, &m); err != nil {
			return fmt.Errorf("decode metrics %s: %w", key, err)
		}
		r.Models[key] = m
	}
	return nil
}

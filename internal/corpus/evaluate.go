package corpus

import "CredibilityScanner/internal/domain"

// Evaluate scores predictions against truth for the positive (high
// credibility) class. Undefined ratios are reported as 0.
func Evaluate(truth, predicted []domain.Label) domain.ModelMetrics {
	var tp, fp, fn, correct int
	for i := range truth {
		if truth[i] == predicted[i] {
			correct++
		}
		switch {
		case predicted[i] == domain.HighCredibility && truth[i] == domain.HighCredibility:
			tp++
		case predicted[i] == domain.HighCredibility:
			fp++
		case truth[i] == domain.HighCredibility:
			fn++
		}
	}

	var m domain.ModelMetrics
	if len(truth) > 0 {
		m.Accuracy = float64(correct) / float64(len(truth))
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

package classifier

import (
	"encoding/json"
	"math"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/features"
)

// LogisticRegression is an L2-regularized linear model with intercept.
// It minimises 0.5*(|w|^2+b^2) + C*sum(log(1+exp(-s*(w.x+b)))) with s in {-1,+1}.
type LogisticRegression struct {
	C       float64
	MaxIter int
	Tol     float64

	weights []float64
	bias    float64
}

var _ Classifier = (*LogisticRegression)(nil)

// NewLogisticRegression uses C=0.1, at most 1000 Newton iterations and a
// relative gradient tolerance of 1e-4.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{C: 0.1, MaxIter: 1000, Tol: 1e-4}
}

// Name identifies the variant.
func (m *LogisticRegression) Name() string {
	return LogisticRegressionID
}

// Fit minimises the objective with a truncated Newton method: each outer
// iteration solves H d = -g by conjugate gradient and takes an Armijo step.
// It stops once |g| <= Tol*|g0| or after MaxIter outer iterations.
func (m *LogisticRegression) Fit(x []features.Vector, y []domain.Label, dim int) error {
	if err := validateTrainingSet(x, y); err != nil {
		return err
	}

	prob := newLogisticProblem(x, y, dim, m.C)
	w := make([]float64, dim+1)
	z := make([]float64, len(x))
	grad := make([]float64, dim+1)
	curv := make([]float64, len(x))
	xd := make([]float64, len(x))

	f := prob.objective(w, z)
	var initial float64
	for iter := 0; iter < m.MaxIter; iter++ {
		norm := prob.gradient(w, z, grad, curv)
		if iter == 0 {
			initial = norm
		}
		if norm <= m.Tol*initial {
			break
		}

		d := prob.newtonDirection(grad, curv, norm)
		prob.apply(d, xd)
		step, next, ok := prob.lineSearch(w, d, z, xd, f, dot(grad, d))
		if !ok {
			break
		}
		for k := range w {
			w[k] += step * d[k]
		}
		for i := range z {
			z[i] += step * xd[i]
		}
		f = next
	}

	m.weights = w[:dim:dim]
	m.bias = w[dim]
	return nil
}

// Decision returns the signed linear score.
func (m *LogisticRegression) Decision(x features.Vector) float64 {
	return x.Dot(m.weights) + m.bias
}

// Predict labels a sample high credibility when the score is positive.
func (m *LogisticRegression) Predict(x features.Vector) domain.Label {
	if m.Decision(x) > 0 {
		return domain.HighCredibility
	}
	return domain.LowCredibility
}

// SupportsProbability is always true for the linear model.
func (m *LogisticRegression) SupportsProbability() bool {
	return true
}

// PredictProba applies the sigmoid to the linear score.
func (m *LogisticRegression) PredictProba(x features.Vector) ([]float64, error) {
	p := sigmoid(m.Decision(x))
	return []float64{1 - p, p}, nil
}

type logisticState struct {
	C       float64   `json:"c"`
	MaxIter int       `json:"maxIter"`
	Tol     float64   `json:"tol"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// MarshalJSON persists hyperparameters and coefficients.
func (m *LogisticRegression) MarshalJSON() ([]byte, error) {
	return json.Marshal(logisticState{C: m.C, MaxIter: m.MaxIter, Tol: m.Tol, Weights: m.weights, Bias: m.bias})
}

// UnmarshalJSON restores a fitted model.
func (m *LogisticRegression) UnmarshalJSON(data []byte) error {
	var state logisticState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	m.C, m.MaxIter, m.Tol = state.C, state.MaxIter, state.Tol
	m.weights, m.bias = state.Weights, state.Bias
	return nil
}

func sign(label domain.Label) float64 {
	if label == domain.HighCredibility {
		return 1
	}
	return -1
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

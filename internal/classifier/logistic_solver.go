package classifier

import (
	"math"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/features"
)

const (
	maxCGIterations   = 500
	cgRelativeTol     = 0.1
	armijoSlope       = 1e-4
	maxLineSearchHalf = 30
)

// logisticProblem evaluates the regularized logistic loss over sparse rows.
// Parameter slices hold dim weights followed by the intercept.
type logisticProblem struct {
	x   []features.Vector
	s   []float64
	c   float64
	dim int
}

func newLogisticProblem(x []features.Vector, y []domain.Label, dim int, c float64) *logisticProblem {
	s := make([]float64, len(y))
	for i, label := range y {
		s[i] = sign(label)
	}
	return &logisticProblem{x: x, s: s, c: c, dim: dim}
}

// apply writes X·v (intercept column included) into out.
func (p *logisticProblem) apply(v, out []float64) {
	for i, row := range p.x {
		out[i] = row.Dot(v[:p.dim]) + v[p.dim]
	}
}

// applyTranspose accumulates Xᵀ·r into out.
func (p *logisticProblem) applyTranspose(r, out []float64) {
	for i, row := range p.x {
		for k, idx := range row.Indices {
			if idx < p.dim {
				out[idx] += r[i] * row.Values[k]
			}
		}
		out[p.dim] += r[i]
	}
}

// objective is 0.5*|w|^2 + C*sum(log(1+exp(-s*z))) for margins z.
func (p *logisticProblem) objective(w, z []float64) float64 {
	f := 0.5 * dot(w, w)
	for i, zi := range z {
		f += p.c * logistic(p.s[i]*zi)
	}
	return f
}

// gradient fills grad and the per-sample curvature, returning |grad|.
func (p *logisticProblem) gradient(w, z, grad, curv []float64) float64 {
	copy(grad, w)
	coef := make([]float64, len(z))
	for i, zi := range z {
		coef[i] = -p.c * p.s[i] * sigmoid(-p.s[i]*zi)
		sg := sigmoid(zi)
		curv[i] = sg * (1 - sg)
	}
	p.applyTranspose(coef, grad)
	return math.Sqrt(dot(grad, grad))
}

// hessVec writes (I + C·XᵀDX)·v into out, using tmp as scratch of length n.
func (p *logisticProblem) hessVec(curv, v, out, tmp []float64) {
	p.apply(v, tmp)
	for i := range tmp {
		tmp[i] *= p.c * curv[i]
	}
	copy(out, v)
	p.applyTranspose(tmp, out)
}

// newtonDirection approximately solves H d = -grad by conjugate gradient.
func (p *logisticProblem) newtonDirection(grad, curv []float64, gnorm float64) []float64 {
	d := make([]float64, len(grad))
	r := make([]float64, len(grad))
	for k, g := range grad {
		r[k] = -g
	}
	q := append([]float64(nil), r...)
	hq := make([]float64, len(grad))
	tmp := make([]float64, len(p.x))

	rr := dot(r, r)
	limit := cgRelativeTol * gnorm
	for it := 0; it < maxCGIterations && math.Sqrt(rr) > limit; it++ {
		p.hessVec(curv, q, hq, tmp)
		alpha := rr / dot(q, hq)
		for k := range d {
			d[k] += alpha * q[k]
			r[k] -= alpha * hq[k]
		}
		next := dot(r, r)
		beta := next / rr
		for k := range q {
			q[k] = r[k] + beta*q[k]
		}
		rr = next
	}
	return d
}

// lineSearch backtracks from a unit step until the Armijo condition holds.
func (p *logisticProblem) lineSearch(w, d, z, xd []float64, f, slope float64) (float64, float64, bool) {
	if slope >= 0 {
		return 0, f, false
	}
	ww, wd, dd := dot(w, w), dot(w, d), dot(d, d)
	step := 1.0
	for i := 0; i < maxLineSearchHalf; i++ {
		next := 0.5 * (ww + 2*step*wd + step*step*dd)
		for j, zj := range z {
			next += p.c * logistic(p.s[j]*(zj+step*xd[j]))
		}
		if next <= f+armijoSlope*step*slope {
			return step, next, true
		}
		step /= 2
	}
	return 0, f, false
}

// logistic is log(1+exp(-t)) without overflow.
func logistic(t float64) float64 {
	if t > 0 {
		return math.Log1p(math.Exp(-t))
	}
	return -t + math.Log1p(math.Exp(t))
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

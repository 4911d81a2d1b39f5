package features

import (
	"math"
	"sort"
)

// Vector is a sparse TF-IDF row. Indices are strictly ascending.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// Dot multiplies the vector with a dense weight slice.
func (v Vector) Dot(weights []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		if idx < len(weights) {
			sum += v.Values[i] * weights[idx]
		}
	}
	return sum
}

// Get returns the weight at idx, zero when absent.
func (v Vector) Get(idx int) float64 {
	pos := sort.SearchInts(v.Indices, idx)
	if pos < len(v.Indices) && v.Indices[pos] == idx {
		return v.Values[pos]
	}
	return 0
}

// Norm is the Euclidean length.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Top returns up to k indices with the largest weights, highest first.
// Equal weights are ordered by ascending index.
func (v Vector) Top(k int) []int {
	order := make([]int, 0, len(v.Indices))
	for i, x := range v.Values {
		if x > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		wa, wb := v.Values[order[a]], v.Values[order[b]]
		if wa != wb {
			return wa > wb
		}
		return v.Indices[order[a]] < v.Indices[order[b]]
	})
	if len(order) > k {
		order = order[:k]
	}

	top := make([]int, len(order))
	for i, pos := range order {
		top[i] = v.Indices[pos]
	}
	return top
}

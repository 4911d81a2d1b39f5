package classifier

import (
	"encoding/json"
	"fmt"
	"sort"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/features"
)

const leaf = -1

// DecisionTree is a depth-bounded CART tree using Gini impurity.
type DecisionTree struct {
	MaxDepth        int
	MinSamplesSplit int

	nodes []treeNode
}

type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Counts    [2]int  `json:"counts"`
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
}

type featureValue struct {
	value float64
	label domain.Label
}

var _ Classifier = (*DecisionTree)(nil)

// NewDecisionTree uses max depth 20 and requires 5 samples to split a node.
func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MaxDepth: 20, MinSamplesSplit: 5}
}

// Name identifies the variant.
func (t *DecisionTree) Name() string {
	return DecisionTreeID
}

// Fit grows the tree greedily from the root.
func (t *DecisionTree) Fit(x []features.Vector, y []domain.Label, dim int) error {
	if err := validateTrainingSet(x, y); err != nil {
		return err
	}

	samples := make([]int, len(x))
	for i := range samples {
		samples[i] = i
	}
	t.nodes = t.nodes[:0]
	t.grow(x, y, samples, 0)
	return nil
}

func (t *DecisionTree) grow(x []features.Vector, y []domain.Label, samples []int, depth int) int {
	var counts [2]int
	for _, s := range samples {
		counts[y[s]]++
	}

	id := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{Feature: leaf, Left: leaf, Right: leaf, Counts: counts})

	if depth >= t.MaxDepth || len(samples) < t.MinSamplesSplit || counts[0] == 0 || counts[1] == 0 {
		return id
	}

	best, ok := bestSplit(x, y, samples, counts)
	if !ok || best.impurity >= gini(counts)-1e-12 {
		return id
	}

	var left, right []int
	for _, s := range samples {
		if x[s].Get(best.feature) <= best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	leftID := t.grow(x, y, left, depth+1)
	rightID := t.grow(x, y, right, depth+1)
	t.nodes[id].Feature = best.feature
	t.nodes[id].Threshold = best.threshold
	t.nodes[id].Left = leftID
	t.nodes[id].Right = rightID
	return id
}

// bestSplit scans every feature present in the node. Ties keep the lowest
// feature index and then the lowest threshold.
func bestSplit(x []features.Vector, y []domain.Label, samples []int, counts [2]int) (split, bool) {
	columns := map[int][]featureValue{}
	for _, s := range samples {
		row := x[s]
		for k, idx := range row.Indices {
			if row.Values[k] != 0 {
				columns[idx] = append(columns[idx], featureValue{value: row.Values[k], label: y[s]})
			}
		}
	}

	featureIDs := make([]int, 0, len(columns))
	for idx := range columns {
		featureIDs = append(featureIDs, idx)
	}
	sort.Ints(featureIDs)

	n := len(samples)
	best := split{impurity: 2}
	found := false
	consider := func(feature int, threshold float64, left [2]int) {
		right := [2]int{counts[0] - left[0], counts[1] - left[1]}
		nl := left[0] + left[1]
		nr := right[0] + right[1]
		if nl == 0 || nr == 0 {
			return
		}
		impurity := (float64(nl)*gini(left) + float64(nr)*gini(right)) / float64(n)
		if impurity < best.impurity {
			best = split{feature: feature, threshold: threshold, impurity: impurity}
			found = true
		}
	}

	for _, feature := range featureIDs {
		col := columns[feature]
		sort.Slice(col, func(i, j int) bool { return col[i].value < col[j].value })

		var left [2]int
		left[0], left[1] = counts[0], counts[1]
		for _, fv := range col {
			left[fv.label]--
		}
		if n > len(col) {
			consider(feature, col[0].value/2, left)
		}
		for k, fv := range col {
			left[fv.label]++
			if k+1 < len(col) && col[k+1].value > fv.value {
				consider(feature, (fv.value+col[k+1].value)/2, left)
			}
		}
	}

	return best, found
}

func gini(counts [2]int) float64 {
	total := float64(counts[0] + counts[1])
	if total == 0 {
		return 0
	}
	p0 := float64(counts[0]) / total
	p1 := float64(counts[1]) / total
	return 1 - p0*p0 - p1*p1
}

func (t *DecisionTree) leafFor(x features.Vector) treeNode {
	if len(t.nodes) == 0 {
		return treeNode{Feature: leaf}
	}
	node := t.nodes[0]
	for node.Feature != leaf {
		if x.Get(node.Feature) <= node.Threshold {
			node = t.nodes[node.Left]
		} else {
			node = t.nodes[node.Right]
		}
	}
	return node
}

// Predict returns the majority class of the reached leaf; ties go to class 0.
func (t *DecisionTree) Predict(x features.Vector) domain.Label {
	counts := t.leafFor(x).Counts
	if counts[1] > counts[0] {
		return domain.HighCredibility
	}
	return domain.LowCredibility
}

// SupportsProbability is true once the tree has been grown.
func (t *DecisionTree) SupportsProbability() bool {
	return len(t.nodes) > 0
}

// PredictProba returns the training-label frequencies of the reached leaf.
func (t *DecisionTree) PredictProba(x features.Vector) ([]float64, error) {
	if !t.SupportsProbability() {
		return nil, domain.ErrProbabilityUnsupported
	}
	counts := t.leafFor(x).Counts
	total := float64(counts[0] + counts[1])
	return []float64{float64(counts[0]) / total, float64(counts[1]) / total}, nil
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *DecisionTree) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}
	var walk func(id int) int
	walk = func(id int) int {
		n := t.nodes[id]
		if n.Feature == leaf {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

type treeState struct {
	MaxDepth        int        `json:"maxDepth"`
	MinSamplesSplit int        `json:"minSamplesSplit"`
	Nodes           []treeNode `json:"nodes"`
}

// MarshalJSON persists hyperparameters and the flattened node table.
func (t *DecisionTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(treeState{MaxDepth: t.MaxDepth, MinSamplesSplit: t.MinSamplesSplit, Nodes: t.nodes})
}

// UnmarshalJSON restores a grown tree.
func (t *DecisionTree) UnmarshalJSON(data []byte) error {
	var state treeState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if err := validateNodes(state.Nodes); err != nil {
		return fmt.Errorf("decode tree: %w", err)
	}
	t.MaxDepth, t.MinSamplesSplit, t.nodes = state.MaxDepth, state.MinSamplesSplit, state.Nodes
	return nil
}

// validateNodes checks the preorder layout written by grow: children always
// follow their parent, so every walk from the root terminates at a leaf.
func validateNodes(nodes []treeNode) error {
	for i, n := range nodes {
		if n.Feature == leaf {
			if n.Counts[0] < 0 || n.Counts[1] < 0 || n.Counts[0]+n.Counts[1] == 0 {
				return fmt.Errorf("leaf %d has invalid counts %v", i, n.Counts)
			}
			continue
		}
		if n.Feature < 0 {
			return fmt.Errorf("node %d has invalid feature %d", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(nodes) || n.Right <= i || n.Right >= len(nodes) {
			return fmt.Errorf("node %d has children %d and %d out of range", i, n.Left, n.Right)
		}
	}
	return nil
}

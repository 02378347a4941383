package ml

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// Node is one entry of a flattened tree. Leaves have Feature == -1. Internal
// nodes send x[Feature] <= Threshold to Left and everything else to Right.
// Value is the weighted class distribution of the training samples that
// reached the node, normalized to sum to 1.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// IsLeaf reports whether the node terminates a path.
func (n Node) IsLeaf() bool {
	return n.Feature < 0
}

// DecisionTree is a CART classifier grown on Gini impurity. Node 0 is the root
// and children are always stored after their parent.
type DecisionTree struct {
	Nodes []Node `json:"nodes"`
}

// Depth returns the length of the longest root-to-leaf path.
func (t *DecisionTree) Depth() int {
	var walk func(n, d int) int
	walk = func(n, d int) int {
		node := t.Nodes[n]
		if node.IsLeaf() {
			return d
		}
		return max(walk(node.Left, d+1), walk(node.Right, d+1))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0, 0)
}

// distribution returns the class distribution of the leaf x lands in.
func (t *DecisionTree) distribution(x []float64) []float64 {
	n := 0
	for {
		node := &t.Nodes[n]
		if node.IsLeaf() {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			n = node.Left
		} else {
			n = node.Right
		}
	}
}

// validate checks structural integrity of a deserialized tree.
func (t *DecisionTree) validate(features, classes int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range t.Nodes {
		if len(n.Value) != classes {
			return fmt.Errorf("node %d: value has %d classes, want %d", i, len(n.Value), classes)
		}
		if n.IsLeaf() {
			continue
		}
		if n.Feature >= features {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
		if math.IsNaN(n.Threshold) {
			return fmt.Errorf("node %d: threshold is NaN", i)
		}
	}
	return nil
}

type treeParams struct {
	classes     int
	maxDepth    int // <= 0 grows until leaves are pure
	maxFeatures int
	rng         *rand.Rand
}

type treeBuilder struct {
	treeParams
	X    [][]float64
	y    []int
	w    []float64
	tree *DecisionTree

	sorted []int
	left   []float64
	right  []float64
}

type candidate struct {
	feature   int
	threshold float64
	impurity  float64
}

// fitTree grows a tree on the samples with positive weight. Weights carry
// both bootstrap multiplicity and class weighting.
func fitTree(X [][]float64, y []int, w []float64, p treeParams) *DecisionTree {
	idx := make([]int, 0, len(X))
	for i := range X {
		if w[i] > 0 {
			idx = append(idx, i)
		}
	}

	b := &treeBuilder{
		treeParams: p,
		X:          X,
		y:          y,
		w:          w,
		tree:       &DecisionTree{},
		sorted:     make([]int, len(idx)),
		left:       make([]float64, p.classes),
		right:      make([]float64, p.classes),
	}
	b.grow(idx, 0)
	return b.tree
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	counts := make([]float64, b.classes)
	var total float64
	for _, i := range idx {
		counts[b.y[i]] += b.w[i]
		total += b.w[i]
	}

	value := make([]float64, b.classes)
	for c, v := range counts {
		value[c] = v / total
	}

	id := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{Feature: -1, Left: -1, Right: -1, Value: value})

	if b.maxDepth > 0 && depth >= b.maxDepth {
		return id
	}
	if len(idx) < 2 || gini(counts, total) <= 1e-12 {
		return id
	}

	best, ok := b.bestSplit(idx, counts, total)
	if !ok {
		return id
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	l := b.grow(leftIdx, depth+1)
	r := b.grow(rightIdx, depth+1)

	node := &b.tree.Nodes[id]
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = l
	node.Right = r

	return id
}

// bestSplit scans features in random order until maxFeatures non-constant
// ones have been evaluated, and returns the threshold minimizing the weighted
// child impurity. Zero-gain splits are accepted.
func (b *treeBuilder) bestSplit(idx []int, counts []float64, total float64) (candidate, bool) {
	best := candidate{impurity: math.Inf(1)}
	found := false
	visited := 0
	sorted := b.sorted[:len(idx)]

	for _, f := range b.rng.Perm(len(b.X[0])) {
		if visited >= b.maxFeatures {
			break
		}

		copy(sorted, idx)
		slices.SortFunc(sorted, func(a, c int) int {
			return cmp.Compare(b.X[a][f], b.X[c][f])
		})
		if b.X[sorted[0]][f] == b.X[sorted[len(sorted)-1]][f] {
			continue
		}
		visited++

		clear(b.left)
		var leftW float64
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			b.left[b.y[i]] += b.w[i]
			leftW += b.w[i]

			lo, hi := b.X[i][f], b.X[sorted[k+1]][f]
			if lo == hi {
				continue
			}

			rightW := total - leftW
			for c := range b.right {
				b.right[c] = counts[c] - b.left[c]
			}
			imp := (leftW*gini(b.left, leftW) + rightW*gini(b.right, rightW)) / total
			if imp < best.impurity {
				threshold := lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
				best = candidate{feature: f, threshold: threshold, impurity: imp}
				found = true
			}
		}
	}

	return best, found
}

func gini(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := c / total
		sum += p * p
	}
	return 1 - sum
}

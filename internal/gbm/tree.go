package gbm

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is either an internal split or a leaf, indexed into a flat
// slice so Tree stays allocation-light at prediction time.
type treeNode struct {
	isLeaf      bool
	leafValue   float64
	featureIdx  int
	threshold   float64
	left, right int
}

// Tree is one CART regression tree over gradient/hessian statistics.
type Tree struct {
	nodes []treeNode
}

// Predict walks the tree for one dense feature vector.
func (t Tree) Predict(x []float64) float64 {
	i := 0
	for !t.nodes[i].isLeaf {
		n := t.nodes[i]
		if x[n.featureIdx] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].leafValue
}

// TreeParams controls tree growth; defaults mirror §4.2 (depth 5-6,
// subsample/colsample 0.8).
type TreeParams struct {
	MaxDepth       int
	Lambda         float64 // L2 leaf-weight regularization
	Gamma          float64 // minimum gain to accept a split
	MinChildWeight float64
	ColSample      float64
	Rand           *rand.Rand
}

type treeBuilder struct {
	nodes []treeNode
	x     [][]float64
	grad  []float64
	hess  []float64
	p     TreeParams
}

// growTree fits one tree via exact greedy split search over per-feature
// sorted gradient/hessian prefix sums — the same statistic a histogram
// method bins, evaluated here without binning since the per-league/
// per-booster sample sizes in this domain stay small enough that exact
// search is cheap and removes a whole class of binning-edge bugs.
func growTree(x [][]float64, grad, hess []float64, p TreeParams) Tree {
	b := &treeBuilder{x: x, grad: grad, hess: hess, p: p}
	indices := make([]int, len(x))
	for i := range indices {
		indices[i] = i
	}
	b.split(indices, 0)
	return Tree{nodes: b.nodes}
}

func (b *treeBuilder) leafWeight(indices []int) float64 {
	var g, h float64
	for _, i := range indices {
		g += b.grad[i]
		h += b.hess[i]
	}
	return -g / (h + b.p.Lambda)
}

func (b *treeBuilder) split(indices []int, depth int) int {
	leaf := func() int {
		b.nodes = append(b.nodes, treeNode{isLeaf: true, leafValue: b.leafWeight(indices)})
		return len(b.nodes) - 1
	}

	if depth >= b.p.MaxDepth || len(indices) < 2 {
		return leaf()
	}

	numCols := len(b.x[indices[0]])
	colCount := numCols
	if b.p.ColSample > 0 && b.p.ColSample < 1 {
		colCount = int(math.Ceil(float64(numCols) * b.p.ColSample))
		if colCount < 1 {
			colCount = 1
		}
	}
	cols := sampleColumns(numCols, colCount, b.p.Rand)

	bestGain := b.p.Gamma
	bestFeature := -1
	var bestThreshold float64
	var bestLeft, bestRight []int

	var totalG, totalH float64
	for _, i := range indices {
		totalG += b.grad[i]
		totalH += b.hess[i]
	}

	for _, col := range cols {
		sorted := append([]int(nil), indices...)
		sort.Slice(sorted, func(a, c int) bool { return b.x[sorted[a]][col] < b.x[sorted[c]][col] })

		var gL, hL float64
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			gL += b.grad[i]
			hL += b.hess[i]
			gR := totalG - gL
			hR := totalH - hL

			if b.x[sorted[k]][col] == b.x[sorted[k+1]][col] {
				continue
			}
			if hL < b.p.MinChildWeight || hR < b.p.MinChildWeight {
				continue
			}

			gain := 0.5*(gL*gL/(hL+b.p.Lambda)+gR*gR/(hR+b.p.Lambda)-totalG*totalG/(totalH+b.p.Lambda)) - b.p.Gamma
			if gain > bestGain {
				bestGain = gain
				bestFeature = col
				bestThreshold = (b.x[sorted[k]][col] + b.x[sorted[k+1]][col]) / 2
				bestLeft = append([]int(nil), sorted[:k+1]...)
				bestRight = append([]int(nil), sorted[k+1:]...)
			}
		}
	}

	if bestFeature < 0 {
		return leaf()
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{featureIdx: bestFeature, threshold: bestThreshold})
	leftIdx := b.split(bestLeft, depth+1)
	rightIdx := b.split(bestRight, depth+1)
	b.nodes[idx].left = leftIdx
	b.nodes[idx].right = rightIdx
	return idx
}

func sampleColumns(numCols, k int, rng *rand.Rand) []int {
	all := make([]int, numCols)
	for i := range all {
		all[i] = i
	}
	if k >= numCols || rng == nil {
		return all
	}
	rng.Shuffle(numCols, func(i, j int) { all[i], all[j] = all[j], all[i] })
	return append([]int(nil), all[:k]...)
}

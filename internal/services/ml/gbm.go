package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Params configures the gradient-boosted classifier. The defaults mirror the
// trainer this pipeline replaced: shallow trees, mild shrinkage, row and
// column subsampling, fixed seed for reproducible fits.
type Params struct {
	Trees        int
	MaxDepth     int
	LearningRate float64
	Subsample    float64
	ColSample    float64
	MinLeaf      int
	Lambda       float64 // L2 regularization on leaf values
	Seed         int64
}

// DefaultParams returns the production training configuration.
func DefaultParams() Params {
	return Params{
		Trees:        150,
		MaxDepth:     3,
		LearningRate: 0.1,
		Subsample:    0.8,
		ColSample:    0.8,
		MinLeaf:      5,
		Lambda:       1.0,
		Seed:         42,
	}
}

// Classifier is a fitted gradient-boosted binary classifier over regression
// trees with logistic loss. It is immutable after Train and safe for
// concurrent prediction.
type Classifier struct {
	params     Params
	base       float64 // prior log-odds
	trees      []*node
	nFeatures  int
	importance []float64
}

type node struct {
	leaf      bool
	value     float64 // shrunken leaf output
	feature   int
	threshold float64
	left      *node
	right     *node
}

// Train fits a classifier on rows X with binary labels y.
// It returns an error for malformed input; it never panics.
func Train(X [][]float64, y []int, p Params) (*Classifier, error) {
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("gbm: need matching rows and labels, got %d rows %d labels", n, len(y))
	}
	nFeatures := len(X[0])
	if nFeatures == 0 {
		return nil, fmt.Errorf("gbm: zero-width feature rows")
	}
	for i, row := range X {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("gbm: row %d has %d features, want %d", i, len(row), nFeatures)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("gbm: row %d contains non-finite value", i)
			}
		}
	}
	if p.Trees <= 0 || p.MaxDepth <= 0 || p.LearningRate <= 0 {
		return nil, fmt.Errorf("gbm: invalid params %+v", p)
	}

	pos := 0
	for _, label := range y {
		if label == 1 {
			pos++
		}
	}
	// Smoothed prior keeps the base score finite for single-class labels.
	prior := (float64(pos) + 1) / (float64(n) + 2)

	c := &Classifier{
		params:     p,
		base:       math.Log(prior / (1 - prior)),
		nFeatures:  nFeatures,
		importance: make([]float64, nFeatures),
	}

	rng := rand.New(rand.NewSource(p.Seed))
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = c.base
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	for t := 0; t < p.Trees; t++ {
		for i := range scores {
			prob := sigmoid(scores[i])
			grad[i] = float64(y[i]) - prob
			hess[i] = prob * (1 - prob)
		}

		rows := sampleIndices(rng, n, p.Subsample)
		cols := sampleIndices(rng, nFeatures, p.ColSample)

		root := c.buildNode(X, grad, hess, rows, cols, 0)
		c.trees = append(c.trees, root)

		for i := range scores {
			scores[i] += evalTree(root, X[i])
		}
	}
	return c, nil
}

// ProbabilityUp returns the predicted probability of the positive class.
// The input must be in schema column order and full width.
func (c *Classifier) ProbabilityUp(x []float64) (float64, error) {
	if len(x) != c.nFeatures {
		return 0, fmt.Errorf("gbm: vector has %d features, model trained on %d", len(x), c.nFeatures)
	}
	score := c.base
	for _, t := range c.trees {
		score += evalTree(t, x)
	}
	return sigmoid(score), nil
}

// NumFeatures returns the trained input width.
func (c *Classifier) NumFeatures() int { return c.nFeatures }

// Importances returns normalized per-feature gain importances summing to 1,
// or all zeros when no split was ever made.
func (c *Classifier) Importances() []float64 {
	out := make([]float64, len(c.importance))
	total := 0.0
	for _, v := range c.importance {
		total += v
	}
	if total <= 0 {
		return out
	}
	for i, v := range c.importance {
		out[i] = v / total
	}
	return out
}

func (c *Classifier) buildNode(X [][]float64, grad, hess []float64, rows, cols []int, depth int) *node {
	p := c.params
	var gSum, hSum float64
	for _, i := range rows {
		gSum += grad[i]
		hSum += hess[i]
	}
	leaf := func() *node {
		return &node{leaf: true, value: p.LearningRate * gSum / (hSum + p.Lambda)}
	}
	if depth >= p.MaxDepth || len(rows) < 2*p.MinLeaf {
		return leaf()
	}

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	parentScore := gSum * gSum / (hSum + p.Lambda)

	order := make([]int, len(rows))
	for _, f := range cols {
		copy(order, rows)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var gl, hl float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			gl += grad[i]
			hl += hess[i]
			// Only split between distinct values with both sides populated.
			if X[order[k]][f] == X[order[k+1]][f] {
				continue
			}
			if k+1 < p.MinLeaf || len(order)-k-1 < p.MinLeaf {
				continue
			}
			gr := gSum - gl
			hr := hSum - hl
			gain := gl*gl/(hl+p.Lambda) + gr*gr/(hr+p.Lambda) - parentScore
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (X[order[k]][f] + X[order[k+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return leaf()
	}
	c.importance[bestFeature] += bestGain

	var left, right []int
	for _, i := range rows {
		if X[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &node{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      c.buildNode(X, grad, hess, left, cols, depth+1),
		right:     c.buildNode(X, grad, hess, right, cols, depth+1),
	}
}

func evalTree(t *node, x []float64) float64 {
	for !t.leaf {
		if x[t.feature] <= t.threshold {
			t = t.left
		} else {
			t = t.right
		}
	}
	return t.value
}

func sampleIndices(rng *rand.Rand, n int, frac float64) []int {
	k := int(math.Round(frac * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	perm := rng.Perm(n)
	idx := perm[:k]
	sort.Ints(idx)
	return idx
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

package ml

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableData builds rows where the first feature alone determines the
// label; the rest is noise.
func separableData(n int) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(7))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		signal := rng.Float64()*2 - 1
		X[i] = []float64{signal, rng.Float64(), rng.NormFloat64()}
		if signal > 0 {
			y[i] = 1
		}
	}
	return X, y
}

func TestTrainRejectsMalformedInput(t *testing.T) {
	p := DefaultParams()

	_, err := Train(nil, nil, p)
	require.Error(t, err)

	_, err = Train([][]float64{{1, 2}}, []int{1, 0}, p)
	require.Error(t, err, "row/label count mismatch")

	_, err = Train([][]float64{{1, 2}, {1}}, []int{1, 0}, p)
	require.Error(t, err, "ragged rows")

	_, err = Train([][]float64{{1, math.NaN()}}, []int{1}, p)
	require.Error(t, err, "non-finite value")

	_, err = Train([][]float64{{}}, []int{1}, p)
	require.Error(t, err, "zero-width rows")
}

func TestTrainSeparable(t *testing.T) {
	X, y := separableData(400)
	p := DefaultParams()
	p.Trees = 60

	clf, err := Train(X, y, p)
	require.NoError(t, err)

	up, err := clf.ProbabilityUp([]float64{0.8, 0.5, 0.0})
	require.NoError(t, err)
	down, err := clf.ProbabilityUp([]float64{-0.8, 0.5, 0.0})
	require.NoError(t, err)

	assert.Greater(t, up, 0.7, "clear positive signal")
	assert.Less(t, down, 0.3, "clear negative signal")
}

func TestProbabilityStaysInUnitInterval(t *testing.T) {
	X, y := separableData(200)
	clf, err := Train(X, y, DefaultParams())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		p, err := clf.ProbabilityUp([]float64{rng.NormFloat64() * 5, rng.Float64(), rng.NormFloat64()})
		require.NoError(t, err)
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
	}
}

func TestProbabilityWidthMismatch(t *testing.T) {
	X, y := separableData(100)
	clf, err := Train(X, y, DefaultParams())
	require.NoError(t, err)

	_, err = clf.ProbabilityUp([]float64{1, 2})
	require.Error(t, err)
	require.Equal(t, 3, clf.NumFeatures())
}

func TestImportancesFavorSignalFeature(t *testing.T) {
	X, y := separableData(400)
	clf, err := Train(X, y, DefaultParams())
	require.NoError(t, err)

	imp := clf.Importances()
	require.Len(t, imp, 3)

	total := 0.0
	for _, v := range imp {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9, "importances normalize to 1")
	assert.Greater(t, imp[0], imp[1], "signal feature dominates")
	assert.Greater(t, imp[0], imp[2], "signal feature dominates")
}

func TestTrainSingleClassLabels(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	X := make([][]float64, 80)
	y := make([]int, 80)
	for i := range X {
		X[i] = []float64{rng.Float64(), rng.Float64()}
		y[i] = 1
	}
	clf, err := Train(X, y, DefaultParams())
	require.NoError(t, err, "single-class labels must not blow up the prior")

	p, err := clf.ProbabilityUp([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.Greater(t, p, 0.5)
}

func TestTrainDeterministic(t *testing.T) {
	X, y := separableData(150)
	p := DefaultParams()
	p.Trees = 30

	a, err := Train(X, y, p)
	require.NoError(t, err)
	b, err := Train(X, y, p)
	require.NoError(t, err)

	pa, _ := a.ProbabilityUp(X[0])
	pb, _ := b.ProbabilityUp(X[0])
	assert.Equal(t, pa, pb, "same seed, same fit")
}

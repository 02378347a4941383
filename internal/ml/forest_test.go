package ml_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/ml"
	"github.com/bibbank/fraud-detection/pkg/testutil"
)

// blobs returns two well separated clusters, class 1 being the minority.
func blobs(n int, seed uint64) ([][]float64, []int) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		label := 0
		if i%5 == 0 {
			label = 1
		}
		offset := float64(label) * 6
		X[i] = []float64{rng.NormFloat64() + offset, rng.NormFloat64() - offset, float64(rng.IntN(3))}
		y[i] = label
	}
	return X, y
}

func smallForest(workers int) *ml.RandomForest {
	cfg := ml.DefaultForestConfig()
	cfg.NumTrees = 15
	cfg.MaxDepth = 6
	cfg.Workers = workers
	return ml.NewRandomForest(cfg)
}

func TestRandomForestFit(t *testing.T) {
	X, y := blobs(400, 7)
	forest := smallForest(0)

	require.NoError(t, forest.Fit(context.Background(), X, y))

	assert.Len(t, forest.Trees, 15)
	assert.Equal(t, 2, forest.Classes)
	assert.Equal(t, 3, forest.Features)
	require.NoError(t, forest.Validate())

	for _, tree := range forest.Trees {
		assert.LessOrEqual(t, tree.Depth(), 6)
	}

	acc, err := forest.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.98)
}

func TestRandomForestIsDeterministic(t *testing.T) {
	X, y := blobs(300, 11)

	serial := smallForest(1)
	parallel := smallForest(8)
	require.NoError(t, serial.Fit(context.Background(), X, y))
	require.NoError(t, parallel.Fit(context.Background(), X, y))

	assert.Equal(t, serial.Trees, parallel.Trees)

	other := smallForest(1)
	other.Config.Seed = 43
	require.NoError(t, other.Fit(context.Background(), X, y))
	assert.NotEqual(t, serial.Trees, other.Trees)
}

func TestRandomForestPredictProba(t *testing.T) {
	X, y := blobs(300, 3)
	forest := smallForest(0)
	require.NoError(t, forest.Fit(context.Background(), X, y))

	proba, err := forest.PredictProba([]float64{6, -6, 1})
	require.NoError(t, err)
	require.Len(t, proba, 2)
	testutil.AssertDistribution(t, proba)
	assert.Greater(t, proba[1], proba[0])

	for _, x := range X[:20] {
		proba, err := forest.PredictProba(x)
		require.NoError(t, err)
		testutil.AssertDistribution(t, proba)
	}

	label, err := forest.Predict([]float64{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	_, err = forest.PredictProba([]float64{1, 2})
	var dimErr *ml.DimensionError
	assert.ErrorAs(t, err, &dimErr)
}

func TestRandomForestTiesGoToFirstClass(t *testing.T) {
	forest := &ml.RandomForest{
		Classes:  2,
		Features: 1,
		Trees: []*ml.DecisionTree{
			{Nodes: []ml.Node{{Feature: -1, Left: -1, Right: -1, Value: []float64{1, 0}}}},
			{Nodes: []ml.Node{{Feature: -1, Left: -1, Right: -1, Value: []float64{0, 1}}}},
		},
	}

	label, err := forest.Predict([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestRandomForestFitErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("single class", func(t *testing.T) {
		err := smallForest(0).Fit(ctx, [][]float64{{1}, {2}, {3}}, []int{1, 1, 1})
		assert.ErrorIs(t, err, ml.ErrSingleClass)
	})

	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, smallForest(0).Fit(ctx, nil, nil), ml.ErrEmptyInput)
	})

	t.Run("label count mismatch", func(t *testing.T) {
		assert.Error(t, smallForest(0).Fit(ctx, [][]float64{{1}, {2}}, []int{0}))
	})

	t.Run("ragged rows", func(t *testing.T) {
		err := smallForest(0).Fit(ctx, [][]float64{{1, 2}, {2}}, []int{0, 1})
		var dimErr *ml.DimensionError
		assert.ErrorAs(t, err, &dimErr)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		X, y := blobs(50, 1)
		assert.ErrorIs(t, smallForest(1).Fit(canceled, X, y), context.Canceled)
	})

	t.Run("unfitted", func(t *testing.T) {
		_, err := smallForest(0).PredictProba([]float64{1, 2, 3})
		assert.ErrorIs(t, err, ml.ErrNotFitted)
		assert.ErrorIs(t, smallForest(0).Validate(), ml.ErrNotFitted)
	})
}

func TestRandomForestValidateRejectsCorruptTrees(t *testing.T) {
	forest := &ml.RandomForest{
		Classes:  2,
		Features: 1,
		Trees: []*ml.DecisionTree{
			{Nodes: []ml.Node{{Feature: 0, Left: 5, Right: 6, Value: []float64{1, 0}}}},
		},
	}

	err := forest.Validate()
	assert.ErrorIs(t, err, ml.ErrNotFitted)
	assert.ErrorContains(t, err, "tree 0")
}

package ml_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/ml"
	"github.com/bibbank/fraud-detection/pkg/testutil"
)

func TestPipeline(t *testing.T) {
	X, y := blobs(300, 5)
	scaler, err := ml.FitStandardScaler(X)
	require.NoError(t, err)
	scaled, err := scaler.TransformAll(X)
	require.NoError(t, err)

	forest := smallForest(0)
	require.NoError(t, forest.Fit(context.Background(), scaled, y))

	p, err := ml.NewPipeline(scaler, forest)
	require.NoError(t, err)

	label, proba, err := p.Predict([]float64{6, -6, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	testutil.AssertDistribution(t, proba)

	label, proba, err = p.Predict([]float64{0, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	testutil.AssertDistribution(t, proba)
}

func TestNewPipelineRejectsMismatch(t *testing.T) {
	X, y := blobs(100, 5)
	forest := smallForest(0)
	require.NoError(t, forest.Fit(context.Background(), X, y))

	_, err := ml.NewPipeline(&ml.StandardScaler{Mean: []float64{0}, Scale: []float64{1}}, forest)
	assert.ErrorContains(t, err, "scaler has 1 features")

	_, err = ml.NewPipeline(nil, forest)
	assert.ErrorIs(t, err, ml.ErrNotFitted)

	_, err = ml.NewPipeline(&ml.StandardScaler{Mean: []float64{0}, Scale: []float64{1}}, ml.NewRandomForest(ml.DefaultForestConfig()))
	assert.ErrorIs(t, err, ml.ErrNotFitted)
}

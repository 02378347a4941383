package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/domain/event"
	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/pkg/events"
	"github.com/bibbank/fraud-detection/pkg/observability"
	"github.com/bibbank/fraud-detection/pkg/testutil"
)

func smallTrainRequest() dto.TrainRequest {
	return dto.TrainRequest{Samples: 600, Seed: testutil.Seed, NumTrees: 10, MaxDepth: 6}.WithDefaults(nil)
}

func TestTrainModel_Execute(t *testing.T) {
	t.Run("trains and persists both artifacts", func(t *testing.T) {
		store := &memoryStore{}
		pub := &mockPublisher{}
		uc := usecase.NewTrainModel(store, pub, observability.NopLogger())

		report, err := uc.Execute(context.Background(), smallTrainRequest())
		require.NoError(t, err)

		assert.Equal(t, 600, report.Samples)
		assert.Equal(t, 480, report.TrainSize)
		assert.Equal(t, 120, report.TestSize)
		assert.Greater(t, report.TrainAccuracy, 0.9)
		assert.Greater(t, report.TestAccuracy, 0.9)
		assert.Equal(t, "mem://model", report.ModelPath)
		assert.Equal(t, "mem://scaler", report.ScalerPath)
		assert.NotEqual(t, uuid.Nil, report.RunID)
		assert.Equal(t, testutil.Seed, report.Seed)

		require.True(t, store.Exists(context.Background()))
		assert.Len(t, store.forest.Trees, 10)
		assert.Equal(t, []string{event.EventTypeModelTrained}, pub.types())
	})

	t.Run("same seed same result", func(t *testing.T) {
		a, err := usecase.NewTrainModel(&memoryStore{}, nil, observability.NopLogger()).Execute(context.Background(), smallTrainRequest())
		require.NoError(t, err)
		b, err := usecase.NewTrainModel(&memoryStore{}, nil, observability.NopLogger()).Execute(context.Background(), smallTrainRequest())
		require.NoError(t, err)

		assert.Equal(t, a.TrainAccuracy, b.TrainAccuracy)
		assert.Equal(t, a.TestAccuracy, b.TestAccuracy)
		assert.Equal(t, a.FraudRecall, b.FraudRecall)
	})

	t.Run("save failure", func(t *testing.T) {
		store := &memoryStore{saveErr: errors.New("disk full")}
		pub := &mockPublisher{}
		_, err := usecase.NewTrainModel(store, pub, observability.NopLogger()).Execute(context.Background(), smallTrainRequest())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save scaler")
		assert.Empty(t, pub.types())
	})

	t.Run("publish failure is not fatal", func(t *testing.T) {
		pub := &mockPublisher{publishFunc: func(context.Context, ...events.DomainEvent) error {
			return errors.New("broker down")
		}}
		_, err := usecase.NewTrainModel(&memoryStore{}, pub, observability.NopLogger()).Execute(context.Background(), smallTrainRequest())
		require.NoError(t, err)
	})

	t.Run("invalid request", func(t *testing.T) {
		store := &memoryStore{}
		_, err := usecase.NewTrainModel(store, nil, observability.NopLogger()).Execute(context.Background(),
			dto.TrainRequest{Samples: -1, NumTrees: 0, TestFraction: 1.5})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "samples must be positive")
		assert.Contains(t, err.Error(), "num_trees must be positive")
		assert.Contains(t, err.Error(), "test_fraction")
		assert.Zero(t, store.saveCalls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		store := &memoryStore{}
		_, err := usecase.NewTrainModel(store, nil, observability.NopLogger()).Execute(ctx, smallTrainRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, store.saveCalls)
	})
}

func TestTrainThenPredict(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size training")
	}

	store := &memoryStore{}
	report, err := usecase.NewTrainModel(store, nil, observability.NopLogger()).
		Execute(context.Background(), dto.TrainRequest{Seed: testutil.Seed}.WithDefaults(nil))
	require.NoError(t, err)
	assert.Equal(t, 4000, report.TrainSize)
	assert.Equal(t, 1000, report.TestSize)
	assert.Greater(t, report.TestAccuracy, 0.95)

	pipeline, err := usecase.NewLoadModel(store, observability.NopLogger()).Execute(context.Background())
	require.NoError(t, err)

	predict := usecase.NewPredictTransaction(pipeline, nil, nil, observability.NopLogger())
	require.True(t, predict.ModelLoaded())

	tests := []struct {
		name    string
		fixture testutil.TransactionFixture
		fraud   bool
	}{
		{name: "obvious fraud", fixture: testutil.ObviousFraud, fraud: true},
		{name: "obvious legitimate", fixture: testutil.ObviousLegit, fraud: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.PredictRequest{
				Amount:          decimalFromFloat(tt.fixture.Amount),
				Distance:        decimalFromFloat(tt.fixture.Distance),
				TransactionType: decimalFromFloat(float64(tt.fixture.TransactionType)),
			}
			resp, err := predict.Execute(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, tt.fraud, resp.IsFraud)
			assert.InDelta(t, 100.0, resp.FraudProbability+resp.LegitimateProbability, 1e-6)
			assert.InDelta(t, max(resp.FraudProbability, resp.LegitimateProbability), resp.Confidence, 1e-9)
			assert.GreaterOrEqual(t, resp.Confidence, 50.0)
		})
	}
}

func TestLoadModel_Execute(t *testing.T) {
	t.Run("missing artifacts", func(t *testing.T) {
		_, err := usecase.NewLoadModel(&memoryStore{}, observability.NopLogger()).Execute(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrArtifactNotFound)
	})
}

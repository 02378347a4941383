package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/event"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/service"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

type stubModel struct {
	class    int
	proba    []float64
	err      error
	features []float64
}

func (m *stubModel) Predict(features []float64) (int, []float64, error) {
	m.features = features
	return m.class, m.proba, m.err
}

func scoredTransaction(t *testing.T) model.Transaction {
	t.Helper()
	tx, err := model.NewTransaction(decimal.NewFromInt(30), 2, valueobject.TransactionTypeInStore)
	require.NoError(t, err)
	return tx
}

func TestFraudScorer_Score(t *testing.T) {
	t.Run("passes features in model order", func(t *testing.T) {
		m := &stubModel{class: 0, proba: []float64{0.97, 0.03}}
		p, err := service.NewFraudScorer(m).Score(scoredTransaction(t))
		require.NoError(t, err)

		assert.Equal(t, []float64{30, 2, 1}, m.features)
		assert.Equal(t, valueobject.LabelLegitimate, p.Label())
		assert.InDelta(t, 0.97, p.Confidence(), 1e-12)
		assert.Equal(t, []string{event.EventTypePredictionCompleted}, p.Types())
	})

	t.Run("fraud prediction is flagged", func(t *testing.T) {
		m := &stubModel{class: 1, proba: []float64{0.1, 0.9}}
		p, err := service.NewFraudScorer(m).Score(scoredTransaction(t))
		require.NoError(t, err)

		assert.True(t, p.IsFraud())
		assert.Contains(t, p.Types(), event.EventTypePredictionFlagged)
	})

	t.Run("model failure is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := service.NewFraudScorer(&stubModel{err: boom}).Score(scoredTransaction(t))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("malformed model output is rejected", func(t *testing.T) {
		_, err := service.NewFraudScorer(&stubModel{class: 0, proba: []float64{0.3}}).Score(scoredTransaction(t))
		assert.ErrorContains(t, err, "failed to build prediction")
	})
}

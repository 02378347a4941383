package service

import (
	"fmt"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/port"
)

// FraudScorer turns classifier output into Prediction aggregates.
type FraudScorer struct {
	model port.Model
}

// NewFraudScorer creates a scorer backed by a loaded model.
func NewFraudScorer(m port.Model) *FraudScorer {
	return &FraudScorer{model: m}
}

// Score classifies tx. The returned prediction carries its domain events.
func (s *FraudScorer) Score(tx model.Transaction) (*model.Prediction, error) {
	class, proba, err := s.model.Predict(tx.Features())
	if err != nil {
		return nil, fmt.Errorf("failed to run model: %w", err)
	}

	prediction, err := model.NewPrediction(tx, class, proba)
	if err != nil {
		return nil, fmt.Errorf("failed to build prediction: %w", err)
	}
	return prediction, nil
}

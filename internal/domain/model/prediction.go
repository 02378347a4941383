package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/fraud-detection/internal/domain/event"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
	"github.com/bibbank/fraud-detection/pkg/events"
)

// Prediction is the aggregate root for one scored transaction.
type Prediction struct {
	events.EventCollector

	id                    uuid.UUID
	transaction           Transaction
	label                 valueobject.PredictionLabel
	fraudProbability      float64
	legitimateProbability float64
	predictedAt           time.Time
}

// NewPrediction records the classifier output for tx. proba holds the
// legitimate and fraud probabilities and must sum to 1.
func NewPrediction(tx Transaction, class int, proba []float64) (*Prediction, error) {
	if len(proba) != 2 {
		return nil, fmt.Errorf("expected 2 class probabilities, got %d", len(proba))
	}
	sum := 0.0
	for _, p := range proba {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("probability out of range: %v", p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-6 {
		return nil, fmt.Errorf("probabilities sum to %v, want 1", sum)
	}

	label, err := valueobject.LabelFromClass(class)
	if err != nil {
		return nil, err
	}

	p := &Prediction{
		id:                    uuid.New(),
		transaction:           tx,
		label:                 label,
		legitimateProbability: proba[0],
		fraudProbability:      proba[1],
		predictedAt:           time.Now().UTC(),
	}

	p.Record(event.NewPredictionCompleted(
		p.id, label.String(), p.fraudProbability,
		tx.Amount().String(), tx.DistanceFromHome(), tx.TransactionType().String(),
	))
	if label.IsFraud() {
		p.Record(event.NewPredictionFlagged(
			p.id, p.fraudProbability, tx.Amount().String(), tx.TransactionType().String(),
		))
	}

	return p, nil
}

// --- Accessors ---

func (p *Prediction) ID() uuid.UUID                      { return p.id }
func (p *Prediction) Transaction() Transaction           { return p.transaction }
func (p *Prediction) Label() valueobject.PredictionLabel { return p.label }
func (p *Prediction) IsFraud() bool                      { return p.label.IsFraud() }
func (p *Prediction) FraudProbability() float64          { return p.fraudProbability }
func (p *Prediction) LegitimateProbability() float64     { return p.legitimateProbability }
func (p *Prediction) PredictedAt() time.Time             { return p.predictedAt }

// Confidence is the probability of the predicted class.
func (p *Prediction) Confidence() float64 {
	if p.label.IsFraud() {
		return p.fraudProbability
	}
	return p.legitimateProbability
}

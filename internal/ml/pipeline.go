package ml

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Pipeline standardizes raw features and classifies them with a forest.
// It is immutable after construction and safe for concurrent use.
type Pipeline struct {
	scaler *StandardScaler
	forest *RandomForest
}

// NewPipeline validates both estimators and checks they agree on width.
func NewPipeline(scaler *StandardScaler, forest *RandomForest) (*Pipeline, error) {
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scaler: %w", err)
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier: %w", err)
	}
	if scaler.Features() != forest.Features {
		return nil, fmt.Errorf("ml: scaler has %d features, classifier expects %d", scaler.Features(), forest.Features)
	}
	return &Pipeline{scaler: scaler, forest: forest}, nil
}

// Predict scales x and returns the predicted class with the class probabilities.
func (p *Pipeline) Predict(x []float64) (int, []float64, error) {
	scaled, err := p.scaler.Transform(x)
	if err != nil {
		return 0, nil, err
	}
	proba, err := p.forest.PredictProba(scaled)
	if err != nil {
		return 0, nil, err
	}

	return floats.MaxIdx(proba), proba, nil
}

// Scaler returns the fitted scaler.
func (p *Pipeline) Scaler() *StandardScaler { return p.scaler }

// Forest returns the fitted forest.
func (p *Pipeline) Forest() *RandomForest { return p.forest }

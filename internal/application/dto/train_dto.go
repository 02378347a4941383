package dto

import (
	"time"

	"github.com/google/uuid"
)

// TrainRequest is the input DTO for the TrainModel use case. Zero values
// select the defaults.
type TrainRequest struct {
	Samples      int     `json:"samples"`
	Seed         uint64  `json:"seed"`
	NumTrees     int     `json:"num_trees"`
	MaxDepth     int     `json:"max_depth"`
	TestFraction float64 `json:"test_fraction"`
	Workers      int     `json:"workers"`
}

// Training defaults.
const (
	DefaultSamples      = 5000
	DefaultSeed         = 42
	DefaultNumTrees     = 100
	DefaultMaxDepth     = 10
	DefaultTestFraction = 0.2
)

// Names of the training options whose zero value is meaningful.
const (
	OptionSeed     = "seed"
	OptionMaxDepth = "max-depth"
)

// WithDefaults fills unset fields. A zero seed or max depth is replaced
// unless isSet reports that the caller chose it; a zero max depth grows
// trees until their leaves are pure. A nil isSet treats every zero as unset.
func (r TrainRequest) WithDefaults(isSet func(option string) bool) TrainRequest {
	explicit := func(option string) bool { return isSet != nil && isSet(option) }

	if r.Samples == 0 {
		r.Samples = DefaultSamples
	}
	if r.Seed == 0 && !explicit(OptionSeed) {
		r.Seed = DefaultSeed
	}
	if r.NumTrees == 0 {
		r.NumTrees = DefaultNumTrees
	}
	if r.MaxDepth == 0 && !explicit(OptionMaxDepth) {
		r.MaxDepth = DefaultMaxDepth
	}
	if r.TestFraction == 0 {
		r.TestFraction = DefaultTestFraction
	}
	return r
}

// TrainReport summarizes a training run.
type TrainReport struct {
	RunID          uuid.UUID     `json:"run_id"`
	Samples        int           `json:"samples"`
	Seed           uint64        `json:"seed"`
	TrainSize      int           `json:"train_size"`
	TestSize       int           `json:"test_size"`
	TrainAccuracy  float64       `json:"train_accuracy"`
	TestAccuracy   float64       `json:"test_accuracy"`
	FraudPrecision float64       `json:"fraud_precision"`
	FraudRecall    float64       `json:"fraud_recall"`
	ScalerPath     string        `json:"scaler_path"`
	ModelPath      string        `json:"model_path"`
	Duration       time.Duration `json:"duration"`
}

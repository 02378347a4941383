package event

import (
	"github.com/google/uuid"

	"github.com/bibbank/fraud-detection/pkg/events"
)

const (
	// EventTypePredictionCompleted is emitted for every scored transaction.
	EventTypePredictionCompleted = "fraud.prediction.completed"

	// EventTypePredictionFlagged is emitted when a transaction is predicted fraudulent.
	EventTypePredictionFlagged = "fraud.prediction.flagged"

	// EventTypeModelTrained is emitted after new artifacts have been written.
	EventTypeModelTrained = "fraud.model.trained"
)

const (
	aggregatePrediction = "Prediction"
	aggregateModel      = "FraudModel"
)

// PredictionCompleted is published when a transaction has been scored.
type PredictionCompleted struct {
	events.BaseEvent
	Prediction       string  `json:"prediction"`
	FraudProbability float64 `json:"fraud_probability"`
	Amount           string  `json:"amount"`
	DistanceFromHome float64 `json:"distance_from_home"`
	TransactionType  string  `json:"transaction_type"`
}

// NewPredictionCompleted builds a PredictionCompleted event.
func NewPredictionCompleted(
	predictionID uuid.UUID,
	prediction string,
	fraudProbability float64,
	amount string,
	distanceFromHome float64,
	transactionType string,
) PredictionCompleted {
	return PredictionCompleted{
		BaseEvent:        events.NewBaseEvent(EventTypePredictionCompleted, predictionID, aggregatePrediction),
		Prediction:       prediction,
		FraudProbability: fraudProbability,
		Amount:           amount,
		DistanceFromHome: distanceFromHome,
		TransactionType:  transactionType,
	}
}

// PredictionFlagged is published when a transaction is predicted fraudulent,
// for downstream alerting.
type PredictionFlagged struct {
	events.BaseEvent
	FraudProbability float64 `json:"fraud_probability"`
	Amount           string  `json:"amount"`
	TransactionType  string  `json:"transaction_type"`
}

// NewPredictionFlagged builds a PredictionFlagged event.
func NewPredictionFlagged(predictionID uuid.UUID, fraudProbability float64, amount, transactionType string) PredictionFlagged {
	return PredictionFlagged{
		BaseEvent:        events.NewBaseEvent(EventTypePredictionFlagged, predictionID, aggregatePrediction),
		FraudProbability: fraudProbability,
		Amount:           amount,
		TransactionType:  transactionType,
	}
}

// ModelTrained is published once a training run has persisted its artifacts.
type ModelTrained struct {
	events.BaseEvent
	Samples       int     `json:"samples"`
	Seed          uint64  `json:"seed"`
	Trees         int     `json:"trees"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
	ModelPath     string  `json:"model_path"`
	ScalerPath    string  `json:"scaler_path"`
}

// NewModelTrained builds a ModelTrained event for the given training run.
func NewModelTrained(runID uuid.UUID, samples int, seed uint64, trees int, trainAcc, testAcc float64, modelPath, scalerPath string) ModelTrained {
	return ModelTrained{
		BaseEvent:     events.NewBaseEvent(EventTypeModelTrained, runID, aggregateModel),
		Samples:       samples,
		Seed:          seed,
		Trees:         trees,
		TrainAccuracy: trainAcc,
		TestAccuracy:  testAcc,
		ModelPath:     modelPath,
		ScalerPath:    scalerPath,
	}
}

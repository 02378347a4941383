package port

import (
	"context"
	"time"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// Failure kinds reported to a PredictionRecorder.
const (
	FailureValidation  = "validation"
	FailureUnavailable = "model_unavailable"
	FailureInternal    = "internal"
	FailurePublish     = "publish"
)

// PredictionRecorder receives scoring telemetry.
type PredictionRecorder interface {
	RecordPrediction(ctx context.Context, label valueobject.PredictionLabel, elapsed time.Duration)
	RecordFailure(ctx context.Context, kind string)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/domain/service"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

const tracerName = "github.com/bibbank/fraud-detection/internal/application/usecase"

// DefaultPublishTimeout bounds how long a prediction waits on event delivery.
const DefaultPublishTimeout = 2 * time.Second

// PredictTransaction is the use case for scoring a single transaction.
type PredictTransaction struct {
	scorer         *service.FraudScorer
	publisher      port.EventPublisher
	recorder       port.PredictionRecorder
	logger         *slog.Logger
	tracer         trace.Tracer
	publishTimeout time.Duration
}

// NewPredictTransaction creates a new PredictTransaction use case. A nil
// model leaves the service in degraded mode where every call fails with
// model.ErrModelUnavailable. Publisher and recorder are optional.
func NewPredictTransaction(
	m port.Model,
	publisher port.EventPublisher,
	recorder port.PredictionRecorder,
	logger *slog.Logger,
) *PredictTransaction {
	uc := &PredictTransaction{
		publisher:      publisher,
		recorder:       recorder,
		logger:         logger,
		tracer:         otel.Tracer(tracerName),
		publishTimeout: DefaultPublishTimeout,
	}
	if m != nil {
		uc.scorer = service.NewFraudScorer(m)
	}
	if uc.recorder == nil {
		uc.recorder = nopRecorder{}
	}
	return uc
}

// ModelLoaded reports whether predictions can be served.
func (uc *PredictTransaction) ModelLoaded() bool {
	return uc.scorer != nil
}

// Execute validates the request, scores it and publishes the resulting
// events. Event delivery is best effort and never fails the prediction.
func (uc *PredictTransaction) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "PredictTransaction")
	defer span.End()

	// 1. Without a model nothing else matters.
	if uc.scorer == nil {
		uc.recorder.RecordFailure(ctx, port.FailureUnavailable)
		span.SetStatus(codes.Error, model.ErrModelUnavailable.Error())
		return dto.PredictionResponse{}, model.ErrModelUnavailable
	}

	// 2. Validate the input into a domain transaction.
	tx, err := req.ToTransaction()
	if err != nil {
		uc.recorder.RecordFailure(ctx, port.FailureValidation)
		span.SetStatus(codes.Error, "invalid request")
		return dto.PredictionResponse{}, err
	}

	// 3. Score.
	start := time.Now()
	prediction, err := uc.scorer.Score(tx)
	if err != nil {
		uc.recorder.RecordFailure(ctx, port.FailureInternal)
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		return dto.PredictionResponse{}, fmt.Errorf("failed to score transaction: %w", err)
	}
	uc.recorder.RecordPrediction(ctx, prediction.Label(), time.Since(start))

	span.SetAttributes(
		attribute.String("fraud.prediction", prediction.Label().String()),
		attribute.Float64("fraud.probability", prediction.FraudProbability()),
		attribute.String("fraud.transaction_type", tx.TransactionType().String()),
	)

	// 4. Publish domain events.
	uc.publish(ctx, prediction)

	return dto.FromPrediction(prediction), nil
}

func (uc *PredictTransaction) publish(ctx context.Context, prediction *model.Prediction) {
	evts := prediction.ClearEvents()
	if uc.publisher == nil || len(evts) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, uc.publishTimeout)
	defer cancel()

	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		uc.recorder.RecordFailure(ctx, port.FailurePublish)
		uc.logger.WarnContext(ctx, "failed to publish prediction events",
			"prediction_id", prediction.ID(),
			"error", err,
		)
	}
}

// IsUnavailable reports whether err means no model is loaded.
func IsUnavailable(err error) bool {
	return errors.Is(err, model.ErrModelUnavailable)
}

type nopRecorder struct{}

func (nopRecorder) RecordPrediction(context.Context, valueobject.PredictionLabel, time.Duration) {}
func (nopRecorder) RecordFailure(context.Context, string) {}

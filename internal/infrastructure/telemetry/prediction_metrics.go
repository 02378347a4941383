package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// Compile-time assertion that PredictionMetrics implements port.PredictionRecorder.
var _ port.PredictionRecorder = (*PredictionMetrics)(nil)

// PredictionMetrics records scoring telemetry as OpenTelemetry instruments.
type PredictionMetrics struct {
	predictions metric.Int64Counter
	failures    metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewPredictionMetrics registers the instruments on meter. modelLoaded is
// sampled on every collection to report the fraud_model_loaded gauge.
func NewPredictionMetrics(meter metric.Meter, modelLoaded func() bool) (*PredictionMetrics, error) {
	predictions, err := meter.Int64Counter("fraud_predictions_total",
		metric.WithDescription("Transactions scored, by predicted label."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create predictions counter: %w", err)
	}

	failures, err := meter.Int64Counter("fraud_prediction_errors_total",
		metric.WithDescription("Failed or degraded prediction requests, by kind."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create errors counter: %w", err)
	}

	duration, err := meter.Float64Histogram("fraud_prediction_duration_seconds",
		metric.WithDescription("Time spent scoring a transaction."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	_, err = meter.Int64ObservableGauge("fraud_model_loaded",
		metric.WithDescription("1 when the model artifacts are loaded, 0 otherwise."),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			if modelLoaded != nil && modelLoaded() {
				o.Observe(1)
			} else {
				o.Observe(0)
			}
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create model gauge: %w", err)
	}

	return &PredictionMetrics{
		predictions: predictions,
		failures:    failures,
		duration:    duration,
	}, nil
}

// RecordPrediction counts a successful prediction and its latency.
func (m *PredictionMetrics) RecordPrediction(ctx context.Context, label valueobject.PredictionLabel, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("prediction", label.String()))
	m.predictions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordFailure counts a failure of the given kind.
func (m *PredictionMetrics) RecordFailure(ctx context.Context, kind string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

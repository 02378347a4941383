package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/domain/event"
	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/domain/service"
	"github.com/bibbank/fraud-detection/internal/ml"
)

// fraudClass is the class index of fraudulent transactions.
const fraudClass = 1

// TrainModel is the use case that generates a synthetic dataset, fits the
// scaler and the forest, reports accuracy and persists both artifacts.
type TrainModel struct {
	store     port.ArtifactStore
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewTrainModel creates a new TrainModel use case. The publisher is optional.
func NewTrainModel(store port.ArtifactStore, publisher port.EventPublisher, logger *slog.Logger) *TrainModel {
	return &TrainModel{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute runs the training pipeline. The request must already carry its
// defaults (see dto.TrainRequest.WithDefaults).
func (uc *TrainModel) Execute(ctx context.Context, req dto.TrainRequest) (dto.TrainReport, error) {
	if err := validateTrainRequest(req); err != nil {
		return dto.TrainReport{}, err
	}
	started := time.Now()
	runID := uuid.New()

	// 1. Generate the labeled dataset.
	records, err := service.GenerateTransactions(req.Samples, req.Seed)
	if err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to generate dataset: %w", err)
	}
	X, y := service.FeatureMatrix(records)

	// 2. Stratified hold-out split.
	trainIdx, testIdx, err := ml.StratifiedSplit(y, req.TestFraction, req.Seed)
	if err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to split dataset: %w", err)
	}
	xTrain, yTrain := ml.Take(X, trainIdx), ml.Take(y, trainIdx)
	xTest, yTest := ml.Take(X, testIdx), ml.Take(y, testIdx)

	// 3. Fit the scaler on the training split only.
	scaler, err := ml.FitStandardScaler(xTrain)
	if err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to fit scaler: %w", err)
	}
	if xTrain, err = scaler.TransformAll(xTrain); err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to scale training split: %w", err)
	}
	if xTest, err = scaler.TransformAll(xTest); err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to scale test split: %w", err)
	}

	// 4. Fit the forest.
	cfg := ml.DefaultForestConfig()
	cfg.NumTrees = req.NumTrees
	cfg.MaxDepth = req.MaxDepth
	cfg.Seed = req.Seed
	cfg.Workers = req.Workers

	forest := ml.NewRandomForest(cfg)
	if err := forest.Fit(ctx, xTrain, yTrain); err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to fit classifier: %w", err)
	}

	// 5. Evaluate.
	trainAcc, err := forest.Score(xTrain, yTrain)
	if err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to score training split: %w", err)
	}
	testPred := make([]int, len(xTest))
	for i, x := range xTest {
		if testPred[i], err = forest.Predict(x); err != nil {
			return dto.TrainReport{}, fmt.Errorf("failed to score test split: %w", err)
		}
	}
	cm := ml.NewConfusionMatrix(forest.Classes, yTest, testPred)

	// 6. Persist.
	if err := uc.store.SaveScaler(ctx, scaler); err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to save scaler: %w", err)
	}
	if err := uc.store.SaveClassifier(ctx, forest); err != nil {
		return dto.TrainReport{}, fmt.Errorf("failed to save classifier: %w", err)
	}
	scalerPath, modelPath := uc.store.Locations()

	report := dto.TrainReport{
		RunID:          runID,
		Samples:        req.Samples,
		Seed:           req.Seed,
		TrainSize:      len(trainIdx),
		TestSize:       len(testIdx),
		TrainAccuracy:  trainAcc,
		TestAccuracy:   cm.Accuracy(),
		FraudPrecision: cm.Precision(fraudClass),
		FraudRecall:    cm.Recall(fraudClass),
		ScalerPath:     scalerPath,
		ModelPath:      modelPath,
		Duration:       time.Since(started),
	}

	uc.logger.InfoContext(ctx, "model trained",
		"run_id", runID,
		"samples", report.Samples,
		"train_accuracy", report.TrainAccuracy,
		"test_accuracy", report.TestAccuracy,
		"duration", report.Duration,
	)

	// 7. Announce the new artifacts.
	if uc.publisher != nil {
		evt := event.NewModelTrained(runID, req.Samples, req.Seed, req.NumTrees,
			report.TrainAccuracy, report.TestAccuracy, modelPath, scalerPath)
		if err := uc.publisher.Publish(ctx, evt); err != nil {
			uc.logger.WarnContext(ctx, "failed to publish model trained event", "run_id", runID, "error", err)
		}
	}

	return report, nil
}

func validateTrainRequest(req dto.TrainRequest) error {
	var errs []error
	if req.Samples <= 0 {
		errs = append(errs, fmt.Errorf("samples must be positive, got %d", req.Samples))
	}
	if req.NumTrees <= 0 {
		errs = append(errs, fmt.Errorf("num_trees must be positive, got %d", req.NumTrees))
	}
	if req.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth cannot be negative, got %d", req.MaxDepth))
	}
	if req.TestFraction <= 0 || req.TestFraction >= 1 {
		errs = append(errs, fmt.Errorf("test_fraction must be in (0, 1), got %g", req.TestFraction))
	}
	if req.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers cannot be negative, got %d", req.Workers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid training request: %w", errors.Join(errs...))
	}
	return nil
}

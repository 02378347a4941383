package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/ml"
)

// LoadModel restores the scoring pipeline from persisted artifacts.
type LoadModel struct {
	store  port.ArtifactStore
	logger *slog.Logger
}

// NewLoadModel creates a new LoadModel use case.
func NewLoadModel(store port.ArtifactStore, logger *slog.Logger) *LoadModel {
	return &LoadModel{store: store, logger: logger}
}

// Execute loads the scaler and the classifier and combines them. Missing
// artifacts yield an error wrapping port.ErrArtifactNotFound.
func (uc *LoadModel) Execute(ctx context.Context) (*ml.Pipeline, error) {
	scaler, err := uc.store.LoadScaler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load scaler: %w", err)
	}
	forest, err := uc.store.LoadClassifier(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier: %w", err)
	}

	pipeline, err := ml.NewPipeline(scaler, forest)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble model: %w", err)
	}

	scalerPath, modelPath := uc.store.Locations()
	uc.logger.InfoContext(ctx, "model loaded",
		"model_path", modelPath,
		"scaler_path", scalerPath,
		"trees", len(forest.Trees),
	)
	return pipeline, nil
}

package port

import (
	"context"
	"errors"

	"github.com/bibbank/fraud-detection/internal/ml"
)

// ErrArtifactNotFound is returned when a persisted artifact does not exist.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore defines the persistence port for trained model artifacts.
// Scaler and classifier are stored independently.
type ArtifactStore interface {
	// SaveScaler persists the fitted scaler, replacing any previous one.
	SaveScaler(ctx context.Context, scaler *ml.StandardScaler) error

	// SaveClassifier persists the fitted forest, replacing any previous one.
	SaveClassifier(ctx context.Context, forest *ml.RandomForest) error

	// LoadScaler reads the scaler back.
	LoadScaler(ctx context.Context) (*ml.StandardScaler, error)

	// LoadClassifier reads the forest back.
	LoadClassifier(ctx context.Context) (*ml.RandomForest, error)

	// Exists reports whether both artifacts are present.
	Exists(ctx context.Context) bool

	// Locations describes where the scaler and the classifier live.
	Locations() (scaler, classifier string)
}

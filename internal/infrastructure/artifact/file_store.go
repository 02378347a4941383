package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/ml"
)

// FormatVersion is bumped whenever the on-disk layout changes incompatibly.
const FormatVersion = 1

const (
	kindScaler     = "standard_scaler"
	kindClassifier = "random_forest"
)

// Compile-time assertion that FileStore implements port.ArtifactStore.
var _ port.ArtifactStore = (*FileStore)(nil)

// envelope is the JSON document written for every artifact.
type envelope[T any] struct {
	Kind          string    `json:"kind"`
	FormatVersion int       `json:"format_version"`
	CreatedAt     time.Time `json:"created_at"`
	Payload       T         `json:"payload"`
}

// FileStore keeps the scaler and the classifier as two JSON files.
type FileStore struct {
	scalerPath     string
	classifierPath string
}

// NewFileStore creates a store writing to the given paths.
func NewFileStore(scalerPath, classifierPath string) *FileStore {
	return &FileStore{
		scalerPath:     scalerPath,
		classifierPath: classifierPath,
	}
}

// Locations returns the scaler and classifier file paths.
func (s *FileStore) Locations() (string, string) {
	return s.scalerPath, s.classifierPath
}

// ScalerPath returns where the scaler is stored.
func (s *FileStore) ScalerPath() string { return s.scalerPath }

// ClassifierPath returns where the classifier is stored.
func (s *FileStore) ClassifierPath() string { return s.classifierPath }

// SaveScaler persists the scaler, replacing any existing file atomically.
func (s *FileStore) SaveScaler(ctx context.Context, scaler *ml.StandardScaler) error {
	if err := scaler.Validate(); err != nil {
		return fmt.Errorf("failed to save scaler: %w", err)
	}
	return write(ctx, s.scalerPath, kindScaler, scaler)
}

// SaveClassifier persists the forest, replacing any existing file atomically.
func (s *FileStore) SaveClassifier(ctx context.Context, forest *ml.RandomForest) error {
	if err := forest.Validate(); err != nil {
		return fmt.Errorf("failed to save classifier: %w", err)
	}
	return write(ctx, s.classifierPath, kindClassifier, forest)
}

// LoadScaler reads and validates the scaler.
func (s *FileStore) LoadScaler(ctx context.Context) (*ml.StandardScaler, error) {
	scaler, err := read[*ml.StandardScaler](ctx, s.scalerPath, kindScaler)
	if err != nil {
		return nil, err
	}
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scaler in %s: %w", s.scalerPath, err)
	}
	return scaler, nil
}

// LoadClassifier reads and validates the forest.
func (s *FileStore) LoadClassifier(ctx context.Context) (*ml.RandomForest, error) {
	forest, err := read[*ml.RandomForest](ctx, s.classifierPath, kindClassifier)
	if err != nil {
		return nil, err
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier in %s: %w", s.classifierPath, err)
	}
	return forest, nil
}

// Exists reports whether both artifact files are present.
func (s *FileStore) Exists(_ context.Context) bool {
	for _, path := range []string{s.scalerPath, s.classifierPath} {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

func write[T any](ctx context.Context, path, kind string, payload T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(envelope[T]{
		Kind:          kind,
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func read[T any](ctx context.Context, path, kind string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, fmt.Errorf("%w: %s", port.ErrArtifactNotFound, path)
		}
		return zero, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if env.Kind != kind {
		return zero, fmt.Errorf("%s holds a %q artifact, want %q", path, env.Kind, kind)
	}
	if env.FormatVersion != FormatVersion {
		return zero, fmt.Errorf("%s has format version %d, want %d", path, env.FormatVersion, FormatVersion)
	}
	return env.Payload, nil
}

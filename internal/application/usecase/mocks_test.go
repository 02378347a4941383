package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
	"github.com/bibbank/fraud-detection/internal/ml"
	"github.com/bibbank/fraud-detection/pkg/events"
)

// --- Mock implementations ---

type stubModel struct {
	class int
	proba []float64
	err   error
}

func (m *stubModel) Predict(_ []float64) (int, []float64, error) {
	return m.class, m.proba, m.err
}

type mockPublisher struct {
	mu          sync.Mutex
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, evts...)
	return nil
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.EventType())
	}
	return out
}

type mockRecorder struct {
	predictions []valueobject.PredictionLabel
	failures    []string
}

func (m *mockRecorder) RecordPrediction(_ context.Context, label valueobject.PredictionLabel, _ time.Duration) {
	m.predictions = append(m.predictions, label)
}

func (m *mockRecorder) RecordFailure(_ context.Context, kind string) {
	m.failures = append(m.failures, kind)
}

type memoryStore struct {
	scaler    *ml.StandardScaler
	forest    *ml.RandomForest
	saveErr   error
	saveCalls int
}

var _ port.ArtifactStore = (*memoryStore)(nil)

func (s *memoryStore) SaveScaler(_ context.Context, scaler *ml.StandardScaler) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.scaler = scaler
	return nil
}

func (s *memoryStore) SaveClassifier(_ context.Context, forest *ml.RandomForest) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.forest = forest
	return nil
}

func (s *memoryStore) LoadScaler(_ context.Context) (*ml.StandardScaler, error) {
	if s.scaler == nil {
		return nil, fmt.Errorf("%w: scaler", port.ErrArtifactNotFound)
	}
	return s.scaler, nil
}

func (s *memoryStore) LoadClassifier(_ context.Context) (*ml.RandomForest, error) {
	if s.forest == nil {
		return nil, fmt.Errorf("%w: classifier", port.ErrArtifactNotFound)
	}
	return s.forest, nil
}

func (s *memoryStore) Exists(_ context.Context) bool {
	return s.scaler != nil && s.forest != nil
}

func (s *memoryStore) Locations() (string, string) {
	return "mem://scaler", "mem://model"
}

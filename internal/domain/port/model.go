package port

// Model classifies a raw feature vector. Implementations are immutable and
// safe for concurrent use.
type Model interface {
	// Predict returns the predicted class and the per-class probabilities.
	Predict(features []float64) (class int, proba []float64, err error)
}

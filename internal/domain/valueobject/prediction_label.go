package valueobject

import "fmt"

// PredictionLabel is the outcome of scoring a transaction.
type PredictionLabel struct {
	value string
}

var (
	LabelLegitimate = PredictionLabel{value: "Legitimate"}
	LabelFraudulent = PredictionLabel{value: "Fraudulent"}
)

// LabelFromClass maps a classifier class index (0 legitimate, 1 fraud).
func LabelFromClass(class int) (PredictionLabel, error) {
	switch class {
	case 0:
		return LabelLegitimate, nil
	case 1:
		return LabelFraudulent, nil
	default:
		return PredictionLabel{}, fmt.Errorf("invalid class index: %d", class)
	}
}

// Class returns the classifier class index for the label.
func (l PredictionLabel) Class() int {
	if l.IsFraud() {
		return 1
	}
	return 0
}

// IsFraud reports whether the label is Fraudulent.
func (l PredictionLabel) IsFraud() bool {
	return l.value == LabelFraudulent.value
}

// String returns the string representation.
func (l PredictionLabel) String() string {
	return l.value
}

// IsZero returns true if the label has not been set.
func (l PredictionLabel) IsZero() bool {
	return l.value == ""
}

// Equal checks equality with another PredictionLabel.
func (l PredictionLabel) Equal(other PredictionLabel) bool {
	return l.value == other.value
}

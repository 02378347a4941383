// Package ml is a small tabular classification engine: feature
// standardization, weighted CART trees and a bagged random forest.
package ml

import (
	"errors"
	"fmt"
)

var (
	// ErrSingleClass is returned when training labels contain fewer than two classes.
	ErrSingleClass = errors.New("ml: training data contains a single class")

	// ErrNotFitted is returned when an estimator is used before Fit or after a bad load.
	ErrNotFitted = errors.New("ml: estimator is not fitted")

	// ErrEmptyInput is returned when there are no samples to fit on.
	ErrEmptyInput = errors.New("ml: no samples")
)

// DimensionError reports a feature vector of the wrong width.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("ml: expected %d features, got %d", e.Want, e.Got)
}

func checkDims(want int, x []float64) error {
	if len(x) != want {
		return &DimensionError{Want: want, Got: len(x)}
	}
	return nil
}

package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature on its training mean and divides by
// the population standard deviation.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitStandardScaler computes per-column statistics over X. A column with zero
// variance gets a scale of 1 so it passes through centered but unscaled.
func FitStandardScaler(X [][]float64) (*StandardScaler, error) {
	if len(X) == 0 {
		return nil, ErrEmptyInput
	}

	width := len(X[0])
	column := make([]float64, len(X))
	s := &StandardScaler{
		Mean:  make([]float64, width),
		Scale: make([]float64, width),
	}

	for j := 0; j < width; j++ {
		for i, row := range X {
			if len(row) != width {
				return nil, fmt.Errorf("row %d: %w", i, &DimensionError{Want: width, Got: len(row)})
			}
			column[i] = row[j]
		}

		mean, variance := stat.PopMeanVariance(column, nil)
		std := math.Sqrt(variance)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}

	return s, nil
}

// Features returns the number of columns the scaler was fit on.
func (s *StandardScaler) Features() int {
	return len(s.Mean)
}

// Transform returns a standardized copy of x.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := checkDims(len(s.Mean), x); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformAll standardizes every row of X.
func (s *StandardScaler) TransformAll(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

// Validate checks the scaler is usable, e.g. after deserialization.
func (s *StandardScaler) Validate() error {
	if s == nil || len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return ErrNotFitted
	}
	for j, v := range s.Scale {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: invalid scale for feature %d", ErrNotFitted, j)
		}
	}
	return nil
}

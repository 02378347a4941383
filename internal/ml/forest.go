package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// ClassWeight selects how samples are weighted by class during fitting.
type ClassWeight string

const (
	// ClassWeightNone weights every sample equally.
	ClassWeightNone ClassWeight = ""
	// ClassWeightBalanced weights class c by n / (k * count(c)).
	ClassWeightBalanced ClassWeight = "balanced"
)

// ForestConfig holds random forest hyperparameters.
type ForestConfig struct {
	NumTrees    int         `json:"num_trees"`
	MaxDepth    int         `json:"max_depth"`
	MaxFeatures int         `json:"max_features"` // 0 selects floor(sqrt(features))
	Seed        uint64      `json:"seed"`
	ClassWeight ClassWeight `json:"class_weight"`

	// Workers bounds parallel tree fitting. 0 uses GOMAXPROCS.
	Workers int `json:"-"`
}

// DefaultForestConfig returns the hyperparameters the fraud model trains with.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:    100,
		MaxDepth:    10,
		Seed:        42,
		ClassWeight: ClassWeightBalanced,
	}
}

// RandomForest is a bagged ensemble of decision trees. Class probabilities
// are the mean of the per-tree leaf distributions.
type RandomForest struct {
	Config   ForestConfig    `json:"config"`
	Classes  int             `json:"classes"`
	Features int             `json:"features"`
	Trees    []*DecisionTree `json:"trees"`
}

// NewRandomForest returns an unfitted forest.
func NewRandomForest(cfg ForestConfig) *RandomForest {
	return &RandomForest{Config: cfg}
}

// Fit trains the forest on X with integer labels y in [0, k). Each tree gets
// its own PCG stream derived from the seed and the tree index, so results do
// not depend on scheduling.
func (f *RandomForest) Fit(ctx context.Context, X [][]float64, y []int) error {
	if len(X) == 0 {
		return ErrEmptyInput
	}
	if len(X) != len(y) {
		return fmt.Errorf("ml: %d rows but %d labels", len(X), len(y))
	}
	if f.Config.NumTrees <= 0 {
		return fmt.Errorf("ml: num_trees must be positive, got %d", f.Config.NumTrees)
	}

	width := len(X[0])
	if width == 0 {
		return fmt.Errorf("ml: samples have no features")
	}
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("row %d: %w", i, &DimensionError{Want: width, Got: len(row)})
		}
	}

	classes, weights, err := classWeights(y, f.Config.ClassWeight)
	if err != nil {
		return err
	}

	maxFeatures := f.Config.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(width))))
	}
	maxFeatures = min(maxFeatures, width)

	workers := f.Config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	n := len(X)
	trees := make([]*DecisionTree, f.Config.NumTrees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(f.Config.Seed, uint64(t)))
			w := make([]float64, n)
			for range n {
				w[rng.IntN(n)]++
			}
			for i := range w {
				w[i] *= weights[y[i]]
			}

			trees[t] = fitTree(X, y, w, treeParams{
				classes:     classes,
				maxDepth:    f.Config.MaxDepth,
				maxFeatures: maxFeatures,
				rng:         rng,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to fit forest: %w", err)
	}

	f.Classes = classes
	f.Features = width
	f.Trees = trees
	return nil
}

// classWeights returns the class count and a per-class weight.
func classWeights(y []int, mode ClassWeight) (int, []float64, error) {
	classes := 0
	for i, label := range y {
		if label < 0 {
			return 0, nil, fmt.Errorf("ml: negative label %d at row %d", label, i)
		}
		classes = max(classes, label+1)
	}

	counts := make([]int, classes)
	for _, label := range y {
		counts[label]++
	}

	present := 0
	for _, c := range counts {
		if c > 0 {
			present++
		}
	}
	if present < 2 {
		return 0, nil, ErrSingleClass
	}

	weights := make([]float64, classes)
	for c := range weights {
		weights[c] = 1
	}

	switch mode {
	case ClassWeightNone:
	case ClassWeightBalanced:
		for c, count := range counts {
			if count > 0 {
				weights[c] = float64(len(y)) / (float64(present) * float64(count))
			}
		}
	default:
		return 0, nil, fmt.Errorf("ml: unknown class weight %q", mode)
	}

	return classes, weights, nil
}

// PredictProba returns the class probability distribution for x.
func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}
	if err := checkDims(f.Features, x); err != nil {
		return nil, err
	}

	proba := make([]float64, f.Classes)
	for _, t := range f.Trees {
		floats.Add(proba, t.distribution(x))
	}
	floats.Scale(1/float64(len(f.Trees)), proba)
	return proba, nil
}

// Predict returns the most probable class for x. Ties go to the lowest class.
func (f *RandomForest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(proba), nil
}

// Score returns the accuracy of the forest on X against y.
func (f *RandomForest) Score(X [][]float64, y []int) (float64, error) {
	if len(X) != len(y) {
		return 0, fmt.Errorf("ml: %d rows but %d labels", len(X), len(y))
	}
	pred := make([]int, len(X))
	for i, row := range X {
		label, err := f.Predict(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		pred[i] = label
	}
	return NewConfusionMatrix(f.Classes, y, pred).Accuracy(), nil
}

// Validate checks a deserialized forest is complete and consistent.
func (f *RandomForest) Validate() error {
	if f == nil || len(f.Trees) == 0 {
		return ErrNotFitted
	}
	if f.Classes < 2 || f.Features < 1 {
		return fmt.Errorf("%w: classes=%d features=%d", ErrNotFitted, f.Classes, f.Features)
	}

	var errs []error
	for i, t := range f.Trees {
		if t == nil {
			errs = append(errs, fmt.Errorf("tree %d is nil", i))
			continue
		}
		if err := t.validate(f.Features, f.Classes); err != nil {
			errs = append(errs, fmt.Errorf("tree %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNotFitted, errors.Join(errs...))
	}
	return nil
}

package ml

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// StratifiedSplit partitions row indices into train and test sets, keeping
// each class's share of the test set at testFraction (rounded, and at least
// one row on each side). Both outputs are shuffled.
func StratifiedSplit(y []int, testFraction float64, seed uint64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("ml: test fraction must be in (0, 1), got %v", testFraction)
	}
	if len(y) == 0 {
		return nil, nil, ErrEmptyInput
	}

	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	labels := make([]int, 0, len(byClass))
	for label := range byClass {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	rng := rand.New(rand.NewPCG(seed, uint64(len(y))))
	for _, label := range labels {
		members := byClass[label]
		if len(members) < 2 {
			return nil, nil, fmt.Errorf("ml: class %d has %d member(s), need at least 2 to stratify", label, len(members))
		}

		rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })

		nTest := int(math.Round(float64(len(members)) * testFraction))
		nTest = min(max(nTest, 1), len(members)-1)

		test = append(test, members[:nTest]...)
		train = append(train, members[nTest:]...)
	}

	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })

	return train, test, nil
}

// Take gathers the elements of s at the given indices.
func Take[T any](s []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}

package rng

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidWeights is returned when a set of weights cannot form a discrete
// distribution. The concrete cause is wrapped and can be matched with
// errors.Is as well.
var ErrInvalidWeights = errors.New("invalid weights")

var (
	// ErrNoItem reports an empty weight list.
	ErrNoItem = errors.New("no weights provided")

	// ErrInvalidWeight reports a negative weight, or one that pushes the
	// total past the largest representable sum.
	ErrInvalidWeight = errors.New("weight is negative or too large")

	// ErrAllWeightsZero reports a weight list that sums to zero.
	ErrAllWeightsZero = errors.New("all weights are zero")
)

type weightError struct {
	cause error
	index int
}

func (e weightError) Error() string {
	if e.index >= 0 {
		return fmt.Sprintf("%s: %s at index %d",
			ErrInvalidWeights, e.cause, e.index)
	}

	return fmt.Sprintf("%s: %s", ErrInvalidWeights, e.cause)
}

func (e weightError) Is(target error) bool {
	return target == ErrInvalidWeights
}

func (e weightError) Unwrap() error {
	return e.cause
}

// WeightedIndex is a discrete distribution over the indices of a weight list.
type WeightedIndex struct {
	cumulative []uint64
	total      uint64
}

// NewWeightedIndex builds a distribution from weights. At least one weight
// must be positive, none may be negative, and the sum must fit in a uint64.
func NewWeightedIndex(weights []int) (*WeightedIndex, error) {
	if len(weights) == 0 {
		return nil, weightError{cause: ErrNoItem, index: -1}
	}

	w := new(WeightedIndex)
	w.cumulative = make([]uint64, len(weights))

	for i, weight := range weights {
		if weight < 0 || w.total > math.MaxUint64-uint64(weight) {
			return nil, weightError{cause: ErrInvalidWeight, index: i}
		}

		w.total += uint64(weight)
		w.cumulative[i] = w.total
	}

	if w.total == 0 {
		return nil, weightError{cause: ErrAllWeightsZero, index: -1}
	}

	return w, nil
}

// Len returns the number of indices the distribution can produce.
func (w *WeightedIndex) Len() int {
	return len(w.cumulative)
}

// Sample draws an index using the given source.
func (w *WeightedIndex) Sample(src Source) int {
	pick := src.Uniform(0, w.total)

	return sort.Search(len(w.cumulative), func(i int) bool {
		return w.cumulative[i] > pick
	})
}

// Package timer converts timing specifications into concrete tick delays.
package timer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/framesim/sim/rng"
)

// LocalTime is a delay counted in ticks, relative to the current frame.
type LocalTime uint32

// ErrEmptyRange is returned when a UniformRange contains no value.
var ErrEmptyRange = errors.New("uniform range is empty")

// A Timer describes how long to wait before an event fires. The concrete
// timers are Fixed, UniformRange, and WeightedChoices.
type Timer interface {
	fmt.Stringer

	// Sample draws a concrete delay.
	Sample(src rng.Source) (LocalTime, error)

	// Validate reports whether the timer can be sampled at all, without
	// drawing from any source.
	Validate() error

	isTimer()
}

// Fixed always waits the same number of ticks.
type Fixed LocalTime

// Sample returns the fixed delay. It never fails.
func (f Fixed) Sample(_ rng.Source) (LocalTime, error) {
	return LocalTime(f), nil
}

// Validate always succeeds.
func (f Fixed) Validate() error {
	return nil
}

func (f Fixed) String() string {
	return fmt.Sprintf("fixed(%d)", f)
}

func (Fixed) isTimer() {}

// UniformRange draws a delay uniformly from [Lo, Hi), or from [Lo, Hi] when
// Inclusive is set.
type UniformRange struct {
	Lo, Hi    LocalTime
	Inclusive bool
}

// Uniform creates a half-open UniformRange.
func Uniform(lo, hi LocalTime) UniformRange {
	return UniformRange{Lo: lo, Hi: hi}
}

// UniformInclusive creates a closed UniformRange.
func UniformInclusive(lo, hi LocalTime) UniformRange {
	return UniformRange{Lo: lo, Hi: hi, Inclusive: true}
}

// Sample draws a delay from the range.
func (u UniformRange) Sample(src rng.Source) (LocalTime, error) {
	if err := u.Validate(); err != nil {
		return 0, err
	}

	hi := uint64(u.Hi)
	if u.Inclusive {
		hi++
	}

	return LocalTime(src.Uniform(uint64(u.Lo), hi)), nil
}

// Validate fails with ErrEmptyRange if the range holds no value.
func (u UniformRange) Validate() error {
	if u.Lo < u.Hi || (u.Inclusive && u.Lo == u.Hi) {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrEmptyRange, u)
}

func (u UniformRange) String() string {
	if u.Inclusive {
		return fmt.Sprintf("uniform[%d,%d]", u.Lo, u.Hi)
	}

	return fmt.Sprintf("uniform[%d,%d)", u.Lo, u.Hi)
}

func (UniformRange) isTimer() {}

// Choice is one candidate delay of a WeightedChoices timer.
type Choice struct {
	Value  LocalTime
	Weight int
}

// WeightedChoices picks one of the candidate delays with a probability
// proportional to its weight.
type WeightedChoices []Choice

// Weighted creates a WeightedChoices timer from value/weight pairs.
func Weighted(choices ...Choice) WeightedChoices {
	return WeightedChoices(choices)
}

func (w WeightedChoices) weights() []int {
	weights := make([]int, len(w))
	for i, c := range w {
		weights[i] = c.Weight
	}

	return weights
}

// Sample draws one of the candidate delays.
func (w WeightedChoices) Sample(src rng.Source) (LocalTime, error) {
	index, err := src.Weighted(w.weights())
	if err != nil {
		return 0, fmt.Errorf("sampling %s: %w", w, err)
	}

	return w[index].Value, nil
}

// Validate fails with rng.ErrInvalidWeights if the weights cannot form a
// distribution.
func (w WeightedChoices) Validate() error {
	_, err := rng.NewWeightedIndex(w.weights())
	if err != nil {
		return fmt.Errorf("validating %s: %w", w, err)
	}

	return nil
}

func (w WeightedChoices) String() string {
	parts := make([]string, len(w))
	for i, c := range w {
		parts[i] = fmt.Sprintf("(%d,%d)", c.Value, c.Weight)
	}

	return "weighted[" + strings.Join(parts, " ") + "]"
}

func (WeightedChoices) isTimer() {}

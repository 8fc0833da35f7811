package kmsurv

import (
	"fmt"
	"math"
	"sort"
)

// Two times closer than this are treated as equal when querying a
// step function.
const epsilon = 0x1p-52

// StepFunction is a fitted survival function P(T > t).  It is a
// right-continuous step function that is 1 before the first stored
// time and takes the stored probability from each stored time up to
// the next one.  A StepFunction is not modified after it is fit, so
// its methods may be called concurrently.
type StepFunction struct {

	// Times at which the function is stored, starting with -Inf.
	time []float64

	// Survival probabilities at each time in time, starting with 1.
	prob []float64
}

// newStepFunction returns a step function with the origin (-Inf, 1)
// prepended to the given times and probabilities.
func newStepFunction(time, prob []float64) *StepFunction {

	sf := &StepFunction{
		time: make([]float64, len(time)+1),
		prob: make([]float64, len(prob)+1),
	}

	sf.time[0] = math.Inf(-1)
	sf.prob[0] = 1
	copy(sf.time[1:], time)
	copy(sf.prob[1:], prob)

	return sf
}

// Time returns the stored times, the first of which is -Inf.  The
// returned slice must not be modified.
func (sf *StepFunction) Time() []float64 {
	return sf.time
}

// SurvProb returns the stored probabilities, the first of which is 1.
// The returned slice must not be modified.
func (sf *StepFunction) SurvProb() []float64 {
	return sf.prob
}

// Prob returns the probability of surviving beyond each of the given
// times.  Beyond the last stored time the function is only defined
// if it has reached zero, otherwise an error wrapping
// ErrEstimationUndefined is returned.
func (sf *StepFunction) Prob(times []float64) ([]float64, error) {

	m := len(sf.time)
	last := sf.time[m-1]

	for i, t := range times {
		if math.IsNaN(t) {
			return nil, fmt.Errorf("%w: query time %d is NaN", ErrInvalidInput, i)
		}
		if t > last && sf.prob[m-1] > 0 {
			return nil, fmt.Errorf("%w: time must be smaller than largest observed time point: %v",
				ErrEstimationUndefined, last)
		}
	}

	prob := make([]float64, len(times))
	for i, t := range times {

		if t > last {
			prob[i] = 0
			continue
		}

		// The first stored time at or after t, backing up one
		// position unless it matches t.
		j := sort.SearchFloat64s(sf.time, t)
		if j > 0 && math.Abs(sf.time[j]-t) >= epsilon {
			j--
		}
		prob[i] = sf.prob[j]
	}

	return prob, nil
}

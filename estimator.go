package kmsurv

import "fmt"

// Predictor is implemented by fitted survival functions.
type Predictor interface {

	// Prob returns the probability of surviving beyond each of the
	// given times.
	Prob(times []float64) ([]float64, error)
}

var (
	_ Predictor = (*StepFunction)(nil)
	_ Predictor = (*CensoringDistribution)(nil)
)

// FitSurvival returns the Kaplan-Meier estimate of the survival
// function of a right censored sample.  Entry times in the sample are
// ignored.  A sample without any events gives a function that is
// identically 1.
func FitSurvival(s *Sample) (*StepFunction, error) {

	if err := s.Check(true); err != nil {
		return nil, err
	}

	km, err := NewKaplanMeier(s.Status, s.Time).Done()
	if err != nil {
		return nil, err
	}

	return newStepFunction(km.Time(), km.SurvProb()), nil
}

// CensoringDistribution is the Kaplan-Meier estimate of the
// distribution of the censoring times, G(t) = P(C > t).
type CensoringDistribution struct {
	*StepFunction
}

// FitCensoring estimates the censoring distribution of a right
// censored sample.  If no observation is censored, the estimate is 1
// at every observed time.
func FitCensoring(s *Sample) (*CensoringDistribution, error) {

	if err := s.Check(false); err != nil {
		return nil, err
	}

	if s.NumEvents() == len(s.Status) {
		times := uniqueSorted(s.Time, nil)
		prob := make([]float64, len(times))
		for i := range prob {
			prob[i] = 1
		}
		return &CensoringDistribution{newStepFunction(times, prob)}, nil
	}

	km, err := NewKaplanMeier(s.Status, s.Time).Reverse().Done()
	if err != nil {
		return nil, err
	}

	return &CensoringDistribution{newStepFunction(km.Time(), km.SurvProb())}, nil
}

// IPCW returns the inverse probability of censoring weights of the
// observations in s.  The weight is zero for censored observations
// and 1/G(t) for an observation with an event at time t.
func (cd *CensoringDistribution) IPCW(s *Sample) ([]float64, error) {

	if err := s.Check(false); err != nil {
		return nil, err
	}

	var etimes []float64
	for i, e := range s.Status {
		if e {
			etimes = append(etimes, s.Time[i])
		}
	}

	ghat, err := cd.Prob(etimes)
	if err != nil {
		return nil, err
	}

	for _, g := range ghat {
		if g == 0 {
			return nil, fmt.Errorf("%w: censoring survival function is zero at one or more time points",
				ErrEstimationUndefined)
		}
	}

	weights := make([]float64, len(s.Time))
	var j int
	for i, e := range s.Status {
		if e {
			weights[i] = 1 / ghat[j]
			j++
		}
	}

	return weights, nil
}

package kmsurv

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// KaplanMeier uses the product-limit method of Kaplan and Meier to
// estimate a survival distribution from (possibly) right censored
// and left truncated data.  Call the configuration methods (Entry,
// TimeMin, Reverse) then call Done to fit.
type KaplanMeier struct {

	// Event indicators
	status []bool

	// Event or censoring times
	time []float64

	// Entry times, optional
	enter []float64

	// If hasTimeMin is set, the estimate is conditional on
	// survival up to timeMin.
	timeMin    float64
	hasTimeMin bool

	// Estimate the censoring distribution rather than the event
	// time distribution.
	reverse bool

	// Distinct times, sorted.
	times []float64

	// Number of events at each time in times.
	nEvents []float64

	// Number of people at risk at each time in times.
	nRisk []float64

	// The estimated survival function at each time in times.
	survProb []float64
}

// NewKaplanMeier creates a new value for estimating a survival
// function.  status[i] is true if an event was observed at time[i].
func NewKaplanMeier(status []bool, time []float64) *KaplanMeier {

	return &KaplanMeier{
		status: status,
		time:   time,
	}
}

// Entry sets the times at which each observation entered the study.
func (km *KaplanMeier) Entry(enter []float64) *KaplanMeier {
	km.enter = enter
	return km
}

// TimeMin makes the estimate conditional on survival at least up to
// time t.  Times before t are dropped from the result.
func (km *KaplanMeier) TimeMin(t float64) *KaplanMeier {
	km.timeMin = t
	km.hasTimeMin = true
	return km
}

// Reverse requests an estimate of the censoring distribution, where
// censoring is the event of interest.  When events and censorings are
// tied, the events are removed from the risk set first.  Reverse is
// only available for right censored data.
func (km *KaplanMeier) Reverse() *KaplanMeier {
	km.reverse = true
	return km
}

// Time returns the distinct times, sorted.
func (km *KaplanMeier) Time() []float64 {
	return km.times
}

// NumRisk returns the size of the risk set at each time point.
func (km *KaplanMeier) NumRisk() []float64 {
	return km.nRisk
}

// NumEvents returns the number of events at each time point.  In
// reverse mode these are the numbers of censored observations.
func (km *KaplanMeier) NumEvents() []float64 {
	return km.nEvents
}

// SurvProb returns the estimated survival probabilities at each time
// point.  With entry times or TimeMin these are conditional
// probabilities.
func (km *KaplanMeier) SurvProb() []float64 {
	return km.survProb
}

func (km *KaplanMeier) counts() (*RiskSet, error) {

	if len(km.status) != len(km.time) {
		return nil, fmt.Errorf("%w: status has length %d, time has length %d",
			ErrInvalidInput, len(km.status), len(km.time))
	}
	if len(km.time) == 0 {
		return nil, fmt.Errorf("%w: empty sample", ErrInvalidInput)
	}
	for i, t := range km.time {
		if math.IsNaN(t) {
			return nil, fmt.Errorf("%w: time %d is NaN", ErrInvalidInput, i)
		}
	}
	for i, t := range km.enter {
		if math.IsNaN(t) {
			return nil, fmt.Errorf("%w: entry time %d is NaN", ErrInvalidInput, i)
		}
	}

	if km.enter == nil {
		rs := countRight(km.status, km.time)
		if km.reverse {
			floats.Sub(rs.NumRisk, rs.NumEvents)
			rs.NumEvents = rs.NumCensored
		}
		return rs, nil
	}

	if len(km.enter) != len(km.time) {
		return nil, fmt.Errorf("%w: entry has length %d, time has length %d",
			ErrInvalidInput, len(km.enter), len(km.time))
	}
	if km.reverse {
		return nil, fmt.Errorf("%w: the censoring distribution cannot be estimated from left truncated data",
			ErrInvalidInput)
	}

	return countTruncated(km.status, km.enter, km.time)
}

// compress retains the time points at or after timeMin.
func (km *KaplanMeier) compress() {

	var ix []int
	for i, t := range km.times {
		if t >= km.timeMin {
			ix = append(ix, i)
		}
	}

	if len(ix) < len(km.times) {
		for i, j := range ix {
			km.times[i] = km.times[j]
			km.nEvents[i] = km.nEvents[j]
			km.nRisk[i] = km.nRisk[j]
			km.survProb[i] = km.survProb[j]
		}
		km.times = km.times[0:len(ix)]
		km.nEvents = km.nEvents[0:len(ix)]
		km.nRisk = km.nRisk[0:len(ix)]
		km.survProb = km.survProb[0:len(ix)]
	}
}

// Done fits the survival function.
func (km *KaplanMeier) Done() (*KaplanMeier, error) {

	rs, err := km.counts()
	if err != nil {
		return nil, err
	}

	km.times = rs.Time
	km.nEvents = rs.NumEvents
	km.nRisk = rs.NumRisk

	// Conditional survival at each time point.  Points without
	// events contribute 1, even if nobody is at risk.
	km.survProb = make([]float64, len(km.times))
	for i := range km.times {
		if km.nEvents[i] == 0 {
			km.survProb[i] = 1
			continue
		}
		km.survProb[i] = 1 - km.nEvents[i]/km.nRisk[i]
	}

	if km.hasTimeMin {
		km.compress()
	}

	floats.CumProd(km.survProb, km.survProb)

	return km, nil
}

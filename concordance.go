package kmsurv

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Concordance calculates the survival concordance of Uno et al.
// (https://www.ncbi.nlm.nih.gov/pmc/articles/PMC3079915), in which
// comparable pairs are weighted by the inverse squared probability of
// remaining uncensored.  Higher risk scores should go with earlier
// events.
type Concordance struct {

	// The risk scores that are being assessed
	score []float64

	// Event or censoring time, sorted
	time []float64

	// Event status, in the same order as time
	status []bool

	// The censoring distribution.  If not set, it is estimated
	// from the sample.
	cens *CensoringDistribution

	// The censoring survival function at each time in time, for
	// the observations with events.
	ghat []float64
}

// NewConcordance creates a new Concordance value for the given sample
// and risk scores.
func NewConcordance(s *Sample, score []float64) *Concordance {

	return &Concordance{
		time:   s.Time,
		status: s.Status,
		score:  score,
	}
}

// Censoring sets the censoring distribution used to weight the
// pairs, typically estimated from training data.
func (c *Concordance) Censoring(cd *CensoringDistribution) *Concordance {
	c.cens = cd
	return c
}

// Done signals that the Concordance value has been built and can now
// be evaluated.
func (c *Concordance) Done() (*Concordance, error) {

	s := NewSample(c.status, c.time)
	if err := s.Check(false); err != nil {
		return nil, err
	}
	if len(c.score) != len(c.time) {
		return nil, fmt.Errorf("%w: score has length %d, time has length %d",
			ErrInvalidInput, len(c.score), len(c.time))
	}

	if c.cens == nil {
		var err error
		c.cens, err = FitCensoring(s)
		if err != nil {
			return nil, err
		}
	}

	// Sort everything by time
	ii := make([]int, len(c.time))
	time1 := make([]float64, len(c.time))
	status1 := make([]bool, len(c.time))
	score1 := make([]float64, len(c.time))
	copy(time1, c.time)
	floats.Argsort(time1, ii)
	for i, j := range ii {
		status1[i] = c.status[j]
		score1[i] = c.score[j]
	}
	c.time = time1
	c.status = status1
	c.score = score1

	var etimes []float64
	for i, e := range c.status {
		if e {
			etimes = append(etimes, c.time[i])
		}
	}
	g, err := c.cens.Prob(etimes)
	if err != nil {
		return nil, err
	}

	c.ghat = make([]float64, len(c.time))
	var j int
	for i, e := range c.status {
		if e {
			if g[j] == 0 {
				return nil, fmt.Errorf("%w: censoring survival function is zero at time %v",
					ErrEstimationUndefined, c.time[i])
			}
			c.ghat[i] = g[j]
			j++
		}
	}

	return c, nil
}

// Concordance returns the concordance statistic, using only pairs in
// which the earlier time is before tau.  Use math.Inf(1) for no
// truncation.  Done must be called first.
func (c *Concordance) Concordance(tau float64) (float64, error) {

	if c.ghat == nil {
		return 0, fmt.Errorf("%w: Done has not been called", ErrInvalidInput)
	}

	if math.IsNaN(tau) {
		return 0, fmt.Errorf("%w: tau is NaN", ErrInvalidInput)
	}

	var numer, denom float64
	n := len(c.time)
	for i := 0; i < n && c.time[i] < tau; i++ {

		if !c.status[i] {
			continue
		}
		w := 1 / (c.ghat[i] * c.ghat[i])

		for j := i + 1; j < n; j++ {
			if c.time[j] <= c.time[i] {
				continue
			}
			denom += w
			switch {
			case c.score[i] > c.score[j]:
				numer += w
			case c.score[i] == c.score[j]:
				numer += w / 2
			}
		}
	}

	if denom == 0 {
		return 0, fmt.Errorf("%w: no comparable pairs before time %v",
			ErrEstimationUndefined, tau)
	}

	return numer / denom, nil
}

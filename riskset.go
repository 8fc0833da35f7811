package kmsurv

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// RiskSet contains the event counts and risk set sizes at each
// distinct time of a sample.
type RiskSet struct {

	// Distinct times, sorted.
	Time []float64

	// Number of events at each time in Time.
	NumEvents []float64

	// Number of observations at risk at each time in Time.
	// Observations that are censored at a time are at risk at
	// that time.
	NumRisk []float64

	// Number of censored observations at each time in Time.  Only
	// set for right censored data.
	NumCensored []float64
}

// rollback replaces x with its reverse cumulative sum.
func rollback(x []float64) {
	var z float64
	for i := len(x) - 1; i >= 0; i-- {
		z += x[i]
		x[i] = z
	}
}

// argsort returns a sorted copy of x and the indices that stably sort
// x in ascending order.  x must not contain NaN.
func argsort(x []float64) ([]float64, []int) {
	xs := make([]float64, len(x))
	copy(xs, x)
	ii := make([]int, len(x))
	floats.ArgsortStable(xs, ii)
	return xs, ii
}

// countRight counts events, censorings and the risk set size at each
// distinct time of right censored data.  The arguments must have the
// same non-zero length.
func countRight(status []bool, time []float64) *RiskSet {

	stime, order := argsort(time)

	rs := new(RiskSet)
	var total []float64

	for i := 0; i < len(order); {
		t := stime[i]
		var ne, nt float64
		for ; i < len(order) && stime[i] == t; i++ {
			if status[order[i]] {
				ne++
			}
			nt++
		}
		rs.Time = append(rs.Time, t)
		rs.NumEvents = append(rs.NumEvents, ne)
		rs.NumCensored = append(rs.NumCensored, nt-ne)
		total = append(total, nt)
	}

	// Everyone with a time at or after t is at risk at t.
	rollback(total)
	rs.NumRisk = total

	return rs
}

// uniqueSorted returns the distinct values of x and y in ascending
// order.
func uniqueSorted(x, y []float64) []float64 {

	u := make([]float64, 0, len(x)+len(y))
	u = append(u, x...)
	u = append(u, y...)
	sort.Float64s(u)

	if len(u) == 0 {
		return u
	}
	j := 0
	for i := 1; i < len(u); i++ {
		if u[i] != u[j] {
			j++
			u[j] = u[i]
		}
	}
	return u[0 : j+1]
}

// countTruncated counts events and the risk set size at each distinct
// entry or exit time of left truncated, right censored data.  An
// observation is at risk at t if it entered at or before t and exited
// at or after t.
func countTruncated(status []bool, enter, exit []float64) (*RiskSet, error) {

	for i := range enter {
		if enter[i] > exit[i] {
			return nil, fmt.Errorf("%w: entry time %d is after the exit time", ErrInvalidInput, i)
		}
	}

	n := len(exit)
	times := uniqueSorted(enter, exit)
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: empty sample", ErrInvalidInput)
	}

	senter, orderEnter := argsort(enter)
	sexit, orderExit := argsort(exit)

	rs := &RiskSet{
		Time:      times,
		NumEvents: make([]float64, len(times)),
		NumRisk:   make([]float64, len(times)),
	}

	// atRisk[i] is true while observation i is in the risk set.
	atRisk := make([]bool, n)
	var nrisk int

	// Cursors into orderEnter and orderExit.
	var ie, ix int

	for k, t := range times {

		// Admit everyone who has entered at or before t.
		for ; ie < n && senter[ie] <= t; ie++ {
			atRisk[orderEnter[ie]] = true
			nrisk++
		}

		if k == 0 {
			// Nobody exits before the first time, and nobody
			// has an event at the time they enter.
			rs.NumRisk[0] = float64(nrisk)
			continue
		}

		// Remove everyone who exited strictly before t.
		for ; ix < n && sexit[ix] < t; ix++ {
			if atRisk[orderExit[ix]] {
				atRisk[orderExit[ix]] = false
				nrisk--
			}
		}
		rs.NumRisk[k] = float64(nrisk)

		var ne float64
		for j := ix; j < n && sexit[j] == t; j++ {
			if status[orderExit[j]] {
				ne++
			}
		}
		rs.NumEvents[k] = ne
	}

	return rs, nil
}

package kmsurv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountRight(t *testing.T) {

	status := []bool{true, true, false, true, false}
	time := []float64{2, 3, 3, 5, 7}

	rs := countRight(status, time)

	assert.Equal(t, []float64{2, 3, 5, 7}, rs.Time)
	assert.Equal(t, []float64{1, 1, 1, 0}, rs.NumEvents)
	assert.Equal(t, []float64{0, 1, 0, 1}, rs.NumCensored)
	assert.Equal(t, []float64{5, 4, 2, 1}, rs.NumRisk)
}

func TestCountRightUnsorted(t *testing.T) {

	status := []bool{false, true, true, true, false, true}
	time := []float64{4, 1, 4, 2, 1, 1}

	rs := countRight(status, time)

	assert.Equal(t, []float64{1, 2, 4}, rs.Time)
	assert.Equal(t, []float64{2, 1, 1}, rs.NumEvents)
	assert.Equal(t, []float64{1, 0, 1}, rs.NumCensored)
	assert.Equal(t, []float64{6, 3, 2}, rs.NumRisk)

	for i := range rs.Time {
		assert.GreaterOrEqual(t, rs.NumRisk[i], rs.NumEvents[i]+rs.NumCensored[i])
		if i > 0 {
			assert.Less(t, rs.NumRisk[i], rs.NumRisk[i-1])
		}
	}
}

func TestCountTruncated(t *testing.T) {

	status := []bool{true, false, true, true}
	enter := []float64{0, 0, 1, 2}
	exit := []float64{2, 3, 3, 4}

	rs, err := countTruncated(status, enter, exit)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2, 3, 4}, rs.Time)
	assert.Equal(t, []float64{0, 0, 1, 1, 1}, rs.NumEvents)
	assert.Equal(t, []float64{2, 3, 4, 3, 1}, rs.NumRisk)
	assert.Nil(t, rs.NumCensored)
}

// An event at the first time point is not counted, since nobody can
// have the event at the time they enter.
func TestCountTruncatedFirstPoint(t *testing.T) {

	status := []bool{true, true, false}
	enter := []float64{1, 1, 1}
	exit := []float64{1, 2, 3}

	rs, err := countTruncated(status, enter, exit)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, rs.Time)
	assert.Equal(t, []float64{0, 1, 0}, rs.NumEvents)
	assert.Equal(t, []float64{3, 2, 1}, rs.NumRisk)
}

func TestCountTruncatedBadEntry(t *testing.T) {

	status := []bool{true, true}
	enter := []float64{0, 3}
	exit := []float64{1, 2}

	_, err := countTruncated(status, enter, exit)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3, 5}, uniqueSorted([]float64{3, 1, 3}, []float64{5, 2, 1}))
	assert.Empty(t, uniqueSorted(nil, nil))
}

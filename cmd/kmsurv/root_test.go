package main

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/kshedden/kmsurv"
)

const scenarioCSV = `Time,Status,Entry
2,1,0
3,1,0
3,0,1
5,1,2
7,0,2
`

// parseRows splits comma separated output into columns.
func parseRows(t *testing.T, out string) [][]float64 {
	t.Helper()
	var cols [][]float64
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		for j, f := range strings.Split(line, ",") {
			v, err := strconv.ParseFloat(f, 64)
			require.NoError(t, err)
			if j >= len(cols) {
				cols = append(cols, nil)
			}
			cols[j] = append(cols[j], v)
		}
	}
	return cols
}

func TestRunSurvival(t *testing.T) {

	path := writeFile(t, "data.csv", scenarioCSV)

	var buf bytes.Buffer
	require.NoError(t, runSurvival(defaultConfig(), path, &buf))
	cols := parseRows(t, buf.String())
	assert.Equal(t, []float64{2, 3, 5, 7}, cols[0])
	assert.True(t, floats.EqualApprox([]float64{0.8, 0.6, 0.3, 0.3}, cols[1], 1e-9))

	cfg := defaultConfig()
	cfg.Query = []float64{0, 2.5, 6}
	buf.Reset()
	require.NoError(t, runSurvival(cfg, path, &buf))
	cols = parseRows(t, buf.String())
	assert.True(t, floats.EqualApprox([]float64{1, 0.8, 0.3}, cols[1], 1e-9))

	cfg.Query = []float64{8}
	err := runSurvival(cfg, path, &buf)
	assert.True(t, errors.Is(err, kmsurv.ErrEstimationUndefined))
}

func TestRunSurvivalConditional(t *testing.T) {

	path := writeFile(t, "data.csv", scenarioCSV)

	cfg := defaultConfig()
	tm := 3.0
	cfg.TimeMin = &tm

	var buf bytes.Buffer
	require.NoError(t, runSurvival(cfg, path, &buf))
	cols := parseRows(t, buf.String())
	assert.Equal(t, []float64{3, 5, 7}, cols[0])
	assert.True(t, floats.EqualApprox([]float64{0.75, 0.375, 0.375}, cols[1], 1e-9))
}

func TestRunCensoringAndIPCW(t *testing.T) {

	path := writeFile(t, "data.csv", scenarioCSV)

	var buf bytes.Buffer
	require.NoError(t, runCensoring(defaultConfig(), path, &buf))
	cols := parseRows(t, buf.String())
	assert.True(t, floats.EqualApprox([]float64{1, 2.0 / 3, 2.0 / 3, 0}, cols[1], 1e-9))

	buf.Reset()
	require.NoError(t, runIPCW(defaultConfig(), path, path, &buf))
	cols = parseRows(t, buf.String())
	assert.True(t, floats.EqualApprox([]float64{1, 1.5, 0, 1.5, 0}, cols[0], 1e-9))
}

// The censoring distribution is fit on one file and the weights are
// computed for another.
func TestRunIPCWSeparateTest(t *testing.T) {

	train := writeFile(t, "train.csv", scenarioCSV)
	test := writeFile(t, "test.csv", `Time,Status
1,1
2.5,1
4,0
6,1
`)

	var buf bytes.Buffer
	require.NoError(t, runIPCW(defaultConfig(), train, test, &buf))
	cols := parseRows(t, buf.String())
	assert.True(t, floats.EqualApprox([]float64{1, 1, 0, 1.5}, cols[0], 1e-9))

	// G is zero from time 7 on.
	late := writeFile(t, "late.csv", "Time,Status\n7,1\n")
	buf.Reset()
	err := runIPCW(defaultConfig(), train, late, &buf)
	assert.True(t, errors.Is(err, kmsurv.ErrEstimationUndefined))
}

func TestRunBadStatus(t *testing.T) {
	path := writeFile(t, "data.csv", "Time,Status\n1,2\n")
	var buf bytes.Buffer
	err := runSurvival(defaultConfig(), path, &buf)
	assert.True(t, errors.Is(err, kmsurv.ErrInvalidInput))
}

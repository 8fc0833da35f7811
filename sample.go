package kmsurv

import (
	"fmt"
	"math"

	"github.com/kshedden/dstream/dstream"
)

// Sample holds time-to-event data.  Status[i] is true if the event
// was observed at Time[i] and false if the observation was censored
// at Time[i].  Enter is optional, if present Enter[i] is the time at
// which observation i entered the study (left truncation).
//
// A Sample must not be modified after it has been passed to an
// estimator.
type Sample struct {
	Status []bool
	Time   []float64
	Enter  []float64
}

// NewSample returns a right censored sample.
func NewSample(status []bool, time []float64) *Sample {
	return &Sample{
		Status: status,
		Time:   time,
	}
}

// Entry sets the entry times, making the sample left truncated.
func (s *Sample) Entry(enter []float64) *Sample {
	s.Enter = enter
	return s
}

// Len returns the number of observations.
func (s *Sample) Len() int {
	return len(s.Time)
}

// NumEvents returns the number of observations with an observed
// event.
func (s *Sample) NumEvents() int {
	var n int
	for _, e := range s.Status {
		if e {
			n++
		}
	}
	return n
}

// Check validates the sample.  If allowAllCensored is false, a
// sample in which no events were observed is rejected.
func (s *Sample) Check(allowAllCensored bool) error {

	if len(s.Status) != len(s.Time) {
		return fmt.Errorf("%w: status has length %d, time has length %d",
			ErrInvalidInput, len(s.Status), len(s.Time))
	}
	if s.Enter != nil && len(s.Enter) != len(s.Time) {
		return fmt.Errorf("%w: entry has length %d, time has length %d",
			ErrInvalidInput, len(s.Enter), len(s.Time))
	}
	if len(s.Time) == 0 {
		return fmt.Errorf("%w: empty sample", ErrInvalidInput)
	}

	for i, t := range s.Time {
		if math.IsNaN(t) {
			return fmt.Errorf("%w: time %d is NaN", ErrInvalidInput, i)
		}
		if t < 0 {
			return fmt.Errorf("%w: time %d is negative", ErrInvalidInput, i)
		}
	}

	for i, t := range s.Enter {
		if math.IsNaN(t) {
			return fmt.Errorf("%w: entry time %d is NaN", ErrInvalidInput, i)
		}
		if t > s.Time[i] {
			return fmt.Errorf("%w: entry time %d is after the event/censoring time",
				ErrInvalidInput, i)
		}
	}

	if !allowAllCensored && s.NumEvents() == 0 {
		return fmt.Errorf("%w: all samples are censored", ErrInvalidInput)
	}

	return nil
}

// SampleReader extracts a Sample from a Dstream.  The caller must
// name the time and status variables, the entry variable is
// optional.  All variables must have float64 type, and the status
// variable must be coded 0/1.
type SampleReader struct {

	// The data to read from.
	data dstream.Dstream

	// Name of the event or censoring time variable.
	timeVar string

	// Name of the status variable, 1 for an event and 0 for
	// censoring.
	statusVar string

	// Name of the entry time variable, optional.
	entryVar string

	timepos   int
	statuspos int
	entrypos  int
}

// NewSampleReader creates a SampleReader for the given variables.
func NewSampleReader(data dstream.Dstream, timevar, statusvar string) *SampleReader {

	return &SampleReader{
		data:      data,
		timeVar:   timevar,
		statusVar: statusvar,
	}
}

// Entry specifies the name of an entry time variable.
func (sr *SampleReader) Entry(entry string) *SampleReader {
	sr.entryVar = entry
	return sr
}

func (sr *SampleReader) findvars() error {

	sr.timepos, sr.statuspos, sr.entrypos = -1, -1, -1

	for k, na := range sr.data.Names() {
		switch na {
		case sr.timeVar:
			sr.timepos = k
		case sr.statusVar:
			sr.statuspos = k
		case sr.entryVar:
			sr.entrypos = k
		}
	}

	if sr.timepos == -1 {
		return fmt.Errorf("%w: time variable '%s' not found", ErrInvalidInput, sr.timeVar)
	}
	if sr.statuspos == -1 {
		return fmt.Errorf("%w: status variable '%s' not found", ErrInvalidInput, sr.statusVar)
	}
	if sr.entryVar != "" && sr.entrypos == -1 {
		return fmt.Errorf("%w: entry variable '%s' not found", ErrInvalidInput, sr.entryVar)
	}

	return nil
}

func floatChunk(x interface{}, name string) ([]float64, error) {
	v, ok := x.([]float64)
	if !ok {
		return nil, fmt.Errorf("%w: variable '%s' does not have float64 type",
			ErrInvalidInput, name)
	}
	return v, nil
}

// Done reads all chunks of the Dstream and returns the sample.  The
// sample is not checked, call Check before using it.
func (sr *SampleReader) Done() (*Sample, error) {

	if err := sr.findvars(); err != nil {
		return nil, err
	}

	s := new(Sample)
	if sr.entrypos != -1 {
		s.Enter = []float64{}
	}

	sr.data.Reset()
	for j := 0; sr.data.Next(); j++ {

		time, err := floatChunk(sr.data.GetPos(sr.timepos), sr.timeVar)
		if err != nil {
			return nil, err
		}

		status, err := floatChunk(sr.data.GetPos(sr.statuspos), sr.statusVar)
		if err != nil {
			return nil, err
		}

		for i, v := range status {
			switch v {
			case 0:
				s.Status = append(s.Status, false)
			case 1:
				s.Status = append(s.Status, true)
			default:
				return nil, fmt.Errorf("%w: status variable '%s' has value %v at position %d in chunk %d",
					ErrInvalidInput, sr.statusVar, v, i, j)
			}
		}
		s.Time = append(s.Time, time...)

		if sr.entrypos != -1 {
			entry, err := floatChunk(sr.data.GetPos(sr.entrypos), sr.entryVar)
			if err != nil {
				return nil, err
			}
			s.Enter = append(s.Enter, entry...)
		}
	}

	return s, nil
}

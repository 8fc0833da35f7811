package kmsurv

import "errors"

var (
	// ErrInvalidInput is returned when the data or the requested
	// estimation are not consistent, e.g. arrays of different
	// lengths or entry times after exit times.
	ErrInvalidInput = errors.New("kmsurv: invalid input")

	// ErrEstimationUndefined is returned when an estimate cannot be
	// produced from the fitted state, e.g. a survival probability
	// beyond the last observed time of a curve that never reaches
	// zero.
	ErrEstimationUndefined = errors.New("kmsurv: estimation undefined")
)

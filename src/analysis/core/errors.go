package core

import "errors"

// -----------------------------------------------------------------------------
// Error taxonomy for the analytics core. Every engine returns one of these
// (possibly wrapped) instead of falling back to a zero value that could be
// mistaken for a legitimate result. Callers check with errors.Is.
// -----------------------------------------------------------------------------

var (
	// ErrInsufficientData: fewer than the minimum valid points remain after
	// normalization. Surfaced to the UI as "no data available".
	ErrInsufficientData = errors.New("insufficient data")

	// ErrRangeOrder: the requested exit date precedes the entry date, or a
	// requested date is not part of the series. Distinct from
	// ErrInsufficientData so the UI can ask the user to fix the selection
	// instead of implying the dataset is empty.
	ErrRangeOrder = errors.New("exit date precedes entry date")

	// ErrZeroCostBasis: the entry cost is zero or non-finite, so a percentage
	// return cannot be computed. The computation is aborted for that request
	// only.
	ErrZeroCostBasis = errors.New("cost basis unusable")

	// ErrInvalidWindow: a moving-average window smaller than 1.
	ErrInvalidWindow = errors.New("window must be positive")
)

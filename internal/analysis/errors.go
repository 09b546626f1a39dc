package analysis

import "errors"

// Request-level failures. All are non-retryable: they reflect bad input or a
// deterministic modeling failure, and are detected before (or instead of)
// producing any window output. Propagation failures carry their own sentinel,
// orbit.ErrPropagation.
var (
	// ErrInvalidRange is returned when start >= end or the sampling step is
	// not positive. Detected before any propagation work begins.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrResourceLimit is returned when the requested range and step would
	// produce more samples than the configured ceiling. Detected before any
	// propagation work begins.
	ErrResourceLimit = errors.New("sample count exceeds limit")

	// ErrInvalidInput is returned for structurally missing or malformed
	// request fields at the boundary.
	ErrInvalidInput = errors.New("invalid input")
)

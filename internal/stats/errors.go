package stats

import "errors"

var (
	// ErrNoData is returned when a statistic is requested over no samples.
	ErrNoData = errors.New("no data")

	// ErrInvalidZ is returned for a negative interval multiplier.
	ErrInvalidZ = errors.New("z must be non-negative")
)

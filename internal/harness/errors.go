package harness

import "errors"

var (
	// ErrEnvironmentUnavailable is returned when the environment required by
	// a flush mode cannot be prepared. It aborts the measurement.
	ErrEnvironmentUnavailable = errors.New("cache flush environment unavailable")

	// ErrUnknownFlushMode is returned for a flush mode outside the closed set.
	ErrUnknownFlushMode = errors.New("unknown cache flush mode")

	// ErrInvalidRepetitions is returned when fewer than one trial is requested.
	ErrInvalidRepetitions = errors.New("repetitions must be positive")

	// ErrAffinity is returned when the measuring thread cannot be pinned.
	ErrAffinity = errors.New("cannot pin measurement thread")
)

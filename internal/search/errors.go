package search

import (
	"errors"
	"fmt"
)

var (
	// ErrSearchExhausted is returned when no candidate met the threshold
	// within the attempt limit.
	ErrSearchExhausted = errors.New("byzantine search exhausted")

	// ErrInvalidThreshold is returned for a negative score threshold.
	ErrInvalidThreshold = errors.New("score threshold must be non-negative")

	// ErrInvalidCount is returned when a non-positive number of samples or
	// draws is requested.
	ErrInvalidCount = errors.New("count must be positive")
)

// ExhaustedError reports a search that gave up.
type ExhaustedError struct {
	MinScore  int
	Attempts  int
	BestScore int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("byzantine search exhausted after %d attempts: best score %d, want >= %d",
		e.Attempts, e.BestScore, e.MinScore)
}

// Is implements errors.Is for sentinel error matching.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrSearchExhausted
}

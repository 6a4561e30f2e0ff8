package byzbench

import (
	"errors"
	"fmt"

	"github.com/vaultsandbox/byzbench/internal/fixture"
	"github.com/vaultsandbox/byzbench/internal/harness"
	"github.com/vaultsandbox/byzbench/internal/search"
	"github.com/vaultsandbox/byzbench/internal/stats"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidConfig is returned by New for out-of-range options.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUntimedOracle is returned by Phases when the oracle cannot time
	// verification phases.
	ErrUntimedOracle = errors.New("oracle does not time verification phases")

	// ErrSearchExhausted is returned when a search hits its attempt limit.
	ErrSearchExhausted = search.ErrSearchExhausted

	// ErrEnvironmentUnavailable is returned when a flush mode cannot prime
	// the environment, e.g. /proc/wbinvd is missing.
	ErrEnvironmentUnavailable = harness.ErrEnvironmentUnavailable

	// ErrFixture is returned when a fixture cannot be read or validated.
	ErrFixture = fixture.ErrFixture

	// ErrNoData is returned when statistics are requested over no samples.
	ErrNoData = stats.ErrNoData
)

// ExhaustedError carries the details of a failed search.
type ExhaustedError = search.ExhaustedError

// SweepError reports which step of a sweep failed.
type SweepError struct {
	Mode harness.FlushMode
	Run  int
	Err  error
}

func (e *SweepError) Error() string {
	return fmt.Sprintf("sweep run %d, mode %s: %v", e.Run, e.Mode, e.Err)
}

// Unwrap returns the underlying error.
func (e *SweepError) Unwrap() error {
	return e.Err
}

package harness

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/vaultsandbox/byzbench/internal/metrics"
)

// TimingSample holds one elapsed duration per trial, in trial order.
type TimingSample []time.Duration

// Nanos returns the durations as integer nanoseconds.
func (s TimingSample) Nanos() []int64 {
	out := make([]int64, len(s))
	for i, d := range s {
		out[i] = d.Nanoseconds()
	}
	return out
}

// Harness measures closures one trial at a time.
// It is not safe for concurrent use.
type Harness struct {
	eviction       *EvictionBuffer
	invalidatePath string
	cpu            int
	logger         *zap.Logger
	metrics        *metrics.Metrics

	// sink receives closure results inside the timed window.
	sink error
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		eviction:       NewEvictionBuffer(DefaultEvictionSize),
		invalidatePath: DefaultInvalidatePath,
		cpu:            -1,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EvictionBuffer returns the buffer scanned by OverwriteScan.
func (h *Harness) EvictionBuffer() *EvictionBuffer {
	return h.eviction
}

// Measure calls fn repetitions times, priming the environment with mode
// before each call, and returns the elapsed time of every call.
//
// fn's return value is discarded unexamined. A priming failure aborts the
// measurement and no partial sample is returned. ctx is only checked
// between trials.
func (h *Harness) Measure(ctx context.Context, fn func() error, mode FlushMode, repetitions int) (TimingSample, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFlushMode, int(mode))
	}
	if repetitions < 1 {
		return nil, ErrInvalidRepetitions
	}

	if h.cpu >= 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		restore, err := pinCPU(h.cpu)
		if err != nil {
			return nil, fmt.Errorf("%w: cpu %d: %v", ErrAffinity, h.cpu, err)
		}
		defer restore()
	}

	sample := make(TimingSample, repetitions)
	for i := 0; i < repetitions; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := h.freeze(mode); err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}

		start := time.Now()
		h.sink = fn()
		sample[i] = time.Since(start)
	}
	h.sink = nil

	h.metrics.Trials(mode.String(), sample.Nanos())
	h.logger.Debug("measurement complete",
		zap.Stringer("mode", mode),
		zap.Int("repetitions", repetitions),
	)
	return sample, nil
}

// Check prepares the environment for mode once, reporting whether it is
// usable. It is meant to run before a long sweep.
func (h *Harness) Check(mode FlushMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownFlushMode, int(mode))
	}
	return h.freeze(mode)
}

// freeze primes the environment before a trial.
func (h *Harness) freeze(mode FlushMode) error {
	switch mode {
	case NoFlush:
		return nil
	case OverwriteScan:
		h.eviction.scan()
		return nil
	case PrivilegedInvalidate:
		return h.invalidate()
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFlushMode, int(mode))
	}
}

// invalidate reads the kernel's invalidation file.
func (h *Harness) invalidate() error {
	if _, err := os.ReadFile(h.invalidatePath); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEnvironmentUnavailable, h.invalidatePath, err)
	}
	return nil
}

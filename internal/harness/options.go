package harness

import (
	"go.uber.org/zap"

	"github.com/vaultsandbox/byzbench/internal/metrics"
)

const (
	// DefaultRepetitions is the number of trials per measurement.
	DefaultRepetitions = 100

	// DefaultInvalidatePath is the file exposed by the wbinvd kernel module.
	// Reading it executes WBINVD on every CPU.
	DefaultInvalidatePath = "/proc/wbinvd"
)

// Option configures a Harness.
type Option func(*Harness)

// WithEvictionSize sets the size of the lazily created eviction buffer.
func WithEvictionSize(size int) Option {
	return func(h *Harness) {
		if size > 0 {
			h.eviction = NewEvictionBuffer(size)
		}
	}
}

// WithEvictionBuffer makes the harness scan buf instead of creating its own.
func WithEvictionBuffer(buf *EvictionBuffer) Option {
	return func(h *Harness) {
		if buf != nil {
			h.eviction = buf
		}
	}
}

// WithInvalidatePath sets the file read by PrivilegedInvalidate.
func WithInvalidatePath(path string) Option {
	return func(h *Harness) {
		h.invalidatePath = path
	}
}

// WithCPU pins the measuring OS thread to cpu for the duration of each
// measurement. A negative value disables pinning.
func WithCPU(cpu int) Option {
	return func(h *Harness) {
		h.cpu = cpu
	}
}

// WithLogger sets the logger used for per-measurement debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics sets the metrics trials are reported to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Harness) {
		h.metrics = m
	}
}

package search

import (
	"go.uber.org/zap"

	"github.com/vaultsandbox/byzbench/internal/metrics"
)

const (
	// DefaultMaxAttempts bounds a single FindByzInput call.
	DefaultMaxAttempts = 100_000

	// DefaultSampleCount is the number of samples GenerateByzantineSamples
	// collects when the caller has no preference.
	DefaultSampleCount = 10

	// DefaultThreshold is above the average Ed25519 oracle score (about 70)
	// while still quick to reach.
	DefaultThreshold = 78

	// HardThresholdBonus is added to DefaultThreshold for the "hard"
	// byzantine fixture.
	HardThresholdBonus = 2
)

// Option configures a Searcher.
type Option func(*Searcher)

// WithMaxAttempts sets how many candidates one search may draw.
// Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLogger sets the logger accepted samples are reported to. The default
// logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics the searcher reports to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Searcher) {
		s.metrics = m
	}
}

package byzbench

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vaultsandbox/byzbench/internal/fixture"
	"github.com/vaultsandbox/byzbench/internal/harness"
	"github.com/vaultsandbox/byzbench/internal/search"
	"github.com/vaultsandbox/byzbench/internal/stats"
)

// Defaults used when no option overrides them.
const (
	DefaultFixtureDir  = fixture.DefaultDir
	DefaultResultsDir  = fixture.DefaultResultsDir
	DefaultRepetitions = harness.DefaultRepetitions
	DefaultMaxAttempts = search.DefaultMaxAttempts
	DefaultThreshold   = search.DefaultThreshold
	DefaultSampleCount = search.DefaultSampleCount
	DefaultZ           = stats.DefaultZ
)

// runnerConfig holds configuration for the runner.
type runnerConfig struct {
	logger         *zap.Logger
	oracle         Oracle
	maxAttempts    int
	repetitions    int
	fixtureDir     string
	resultsDir     string
	evictionSize   int
	invalidatePath string
	z              float64
	registry       prometheus.Registerer
	cpu            int
	modes          []FlushMode
}

func defaultConfig() runnerConfig {
	return runnerConfig{
		logger:         zap.NewNop(),
		maxAttempts:    DefaultMaxAttempts,
		repetitions:    DefaultRepetitions,
		fixtureDir:     DefaultFixtureDir,
		resultsDir:     DefaultResultsDir,
		evictionSize:   harness.DefaultEvictionSize,
		invalidatePath: harness.DefaultInvalidatePath,
		z:              DefaultZ,
		cpu:            -1,
		modes:          harness.AllFlushModes(),
	}
}

// Option configures the runner.
type Option func(*runnerConfig)

// WithLogger sets the logger. Accepted byzantine inputs are logged at info
// level, per-measurement details at debug level. Without this option the
// Runner logs nothing, including the accepted inputs.
func WithLogger(logger *zap.Logger) Option {
	return func(c *runnerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOracle replaces the Ed25519 verifier and scorer.
func WithOracle(o Oracle) Option {
	return func(c *runnerConfig) {
		c.oracle = o
	}
}

// WithMaxAttempts sets the attempt limit of each byzantine search.
func WithMaxAttempts(n int) Option {
	return func(c *runnerConfig) {
		c.maxAttempts = n
	}
}

// WithRepetitions sets the number of timed trials per measurement.
func WithRepetitions(n int) Option {
	return func(c *runnerConfig) {
		c.repetitions = n
	}
}

// WithFixtureDir sets the directory GenerateFixtures writes to.
func WithFixtureDir(dir string) Option {
	return func(c *runnerConfig) {
		c.fixtureDir = dir
	}
}

// WithResultsDir sets the directory Sweep writes result files to.
func WithResultsDir(dir string) Option {
	return func(c *runnerConfig) {
		c.resultsDir = dir
	}
}

// WithEvictionSize sets the OverwriteScan buffer size in bytes.
func WithEvictionSize(size int) Option {
	return func(c *runnerConfig) {
		c.evictionSize = size
	}
}

// WithInvalidatePath sets the file read to invalidate caches in
// PrivilegedInvalidate mode.
func WithInvalidatePath(path string) Option {
	return func(c *runnerConfig) {
		c.invalidatePath = path
	}
}

// WithZ sets the confidence interval multiplier used in reports.
func WithZ(z float64) Option {
	return func(c *runnerConfig) {
		c.z = z
	}
}

// WithRegistry registers search and harness metrics on reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *runnerConfig) {
		c.registry = reg
	}
}

// WithCPU pins measurements to one CPU. A negative value disables pinning.
func WithCPU(cpu int) Option {
	return func(c *runnerConfig) {
		c.cpu = cpu
	}
}

// WithModes restricts sweeps to the given flush modes, in order.
func WithModes(modes ...FlushMode) Option {
	return func(c *runnerConfig) {
		c.modes = append([]FlushMode(nil), modes...)
	}
}

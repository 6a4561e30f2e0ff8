// Command byzbench searches for byzantine Ed25519 inputs and times their
// verification under different cache flush modes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/vaultsandbox/byzbench"
	"github.com/vaultsandbox/byzbench/internal/input"
	"github.com/vaultsandbox/byzbench/internal/metrics"
	"github.com/vaultsandbox/byzbench/internal/stats"
)

// Config holds the process environment the command runs against.
type Config struct {
	Stdout io.Writer
	Stderr io.Writer
	// EnvFile is loaded before flags are parsed. A missing file is ignored.
	EnvFile string
	// Logger overrides the production logger built from --verbose.
	Logger *zap.Logger
}

// DefaultConfig returns a Config using the standard streams.
func DefaultConfig() Config {
	return Config{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		EnvFile: ".env",
	}
}

// app is the state shared by all subcommands.
type app struct {
	cfg      Config
	logger   *zap.Logger
	registry *prometheus.Registry

	verbose        bool
	fixtureDir     string
	resultsDir     string
	metricsFile    string
	seed           string
	maxAttempts    int
	evictionSize   int
	invalidatePath string
	cpu            int
}

func run(args []string, cfg Config) error {
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", cfg.EnvFile, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, registry: prometheus.NewRegistry()}
	root := newRootCmd(a)
	root.SetArgs(args[1:])
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	// Failed commands still flush logs and metrics.
	err := root.ExecuteContext(ctx)
	if terr := a.teardown(); terr != nil {
		return errors.Join(err, terr)
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "byzbench",
		Short: "Time Ed25519 verification on byzantine inputs",
		Long: `byzbench finds signatures whose verification takes unusual code paths
and measures how long verifying them takes with warm caches, after an
eviction scan, and after a privileged cache invalidation.

Flag defaults can be set with BYZBENCH_* environment variables or a .env
file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	f := root.PersistentFlags()
	f.BoolVarP(&a.verbose, "verbose", "v", envBool("BYZBENCH_VERBOSE", false), "enable debug logging")
	f.StringVar(&a.fixtureDir, "fixtures", envString("BYZBENCH_FIXTURES", byzbench.DefaultFixtureDir), "fixture directory")
	f.StringVar(&a.resultsDir, "results", envString("BYZBENCH_RESULTS", byzbench.DefaultResultsDir), "result directory")
	f.StringVar(&a.metricsFile, "metrics-file", envString("BYZBENCH_METRICS_FILE", ""), "write Prometheus metrics to this textfile on exit")
	f.StringVar(&a.seed, "seed", envString("BYZBENCH_SEED", ""), "derive all randomness from this seed instead of the OS")
	f.IntVar(&a.maxAttempts, "max-attempts", envInt("BYZBENCH_MAX_ATTEMPTS", byzbench.DefaultMaxAttempts), "attempt limit per byzantine search")
	f.IntVar(&a.evictionSize, "eviction-size", envInt("BYZBENCH_EVICTION_SIZE", 0), "overwrite scan buffer size in bytes (default 128 MiB)")
	f.StringVar(&a.invalidatePath, "invalidate-path", envString("BYZBENCH_INVALIDATE_PATH", ""), "cache invalidation file (default /proc/wbinvd)")
	f.IntVar(&a.cpu, "cpu", envInt("BYZBENCH_CPU", -1), "pin measurements to this CPU")

	root.AddCommand(
		newGenFixturesCmd(a),
		newSearchCmd(a),
		newScoresCmd(a),
		newBenchCmd(a),
		newIntervalsCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if a.cfg.Logger != nil {
		a.logger = a.cfg.Logger
		return nil
	}

	config := zap.NewProductionConfig()
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) teardown() error {
	if a.logger == nil {
		// setup never ran, nothing was recorded.
		return nil
	}
	_ = a.logger.Sync()
	if a.metricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(a.metricsFile, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// runner builds a Runner from the persistent flags plus extra options.
func (a *app) runner(extra ...byzbench.Option) (*byzbench.Runner, error) {
	opts := []byzbench.Option{
		byzbench.WithLogger(a.logger),
		byzbench.WithRegistry(a.registry),
		byzbench.WithFixtureDir(a.fixtureDir),
		byzbench.WithResultsDir(a.resultsDir),
		byzbench.WithMaxAttempts(a.maxAttempts),
		byzbench.WithCPU(a.cpu),
	}
	if a.evictionSize > 0 {
		opts = append(opts, byzbench.WithEvictionSize(a.evictionSize))
	}
	if a.invalidatePath != "" {
		opts = append(opts, byzbench.WithInvalidatePath(a.invalidatePath))
	}
	return byzbench.New(append(opts, extra...)...)
}

// rng returns the randomness source for label: a seeded stream when
// --seed is set, crypto/rand otherwise.
func (a *app) rng(label string) (io.Reader, error) {
	if a.seed == "" {
		return nil, nil
	}
	return input.NewSeededReader([]byte(a.seed), label)
}

// renderer picks box glyphs for terminals and ASCII otherwise.
func (a *app) renderer() stats.Renderer {
	if f, ok := a.cfg.Stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return stats.DefaultRenderer
	}
	return stats.ASCIIRenderer
}

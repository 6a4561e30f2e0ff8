package byzbench

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vaultsandbox/byzbench/internal/fixture"
	"github.com/vaultsandbox/byzbench/internal/harness"
	"github.com/vaultsandbox/byzbench/internal/input"
	"github.com/vaultsandbox/byzbench/internal/metrics"
	"github.com/vaultsandbox/byzbench/internal/oracle"
	"github.com/vaultsandbox/byzbench/internal/search"
	"github.com/vaultsandbox/byzbench/internal/stats"
)

// BenchmarkInput is one public key, message and signature triple.
type BenchmarkInput = input.BenchmarkInput

// Candidate is an accepted byzantine search result.
type Candidate = search.Candidate

// FlushMode selects how the environment is primed before each trial.
type FlushMode = harness.FlushMode

// Flush mode constants.
const (
	// NoFlush leaves caches as they are.
	NoFlush = harness.NoFlush
	// OverwriteScan reads a buffer twice the size of the last-level cache.
	OverwriteScan = harness.OverwriteScan
	// PrivilegedInvalidate asks the kernel to write back and invalidate
	// all caches.
	PrivilegedInvalidate = harness.PrivilegedInvalidate
)

// TimingSample holds one elapsed duration per trial.
type TimingSample = harness.TimingSample

// Summary condenses one timing sample.
type Summary = stats.Summary

// PhaseTimings splits one verification into its phases.
type PhaseTimings = oracle.PhaseTimings

// PhaseResult is one timed verification. Err is nil for a valid signature.
// The timings are zero when the input failed to decode.
type PhaseResult struct {
	PhaseTimings
	Err error
}

// Oracle verifies signatures and scores inputs. Scores must be
// deterministic.
type Oracle interface {
	search.Scorer
	Verify(publicKey, message, signature []byte) error
}

// TimedOracle is an Oracle that can also time the phases of one
// verification.
type TimedOracle interface {
	Oracle
	VerifyTimed(publicKey, message, signature []byte) (PhaseTimings, error)
}

// ModeReport is the outcome of one measurement in a sweep.
type ModeReport struct {
	Run        int
	Mode       FlushMode
	Input      BenchmarkInput
	ResultPath string
	Summary    Summary
}

// Runner runs searches and timing sweeps. It is not safe for concurrent
// use: trials must never overlap.
type Runner struct {
	cfg      runnerConfig
	logger   *zap.Logger
	oracle   Oracle
	searcher *search.Searcher
	harness  *harness.Harness
}

// New creates a Runner.
func New(opts ...Option) (*Runner, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := cfg.oracle
	if o == nil {
		o = oracle.Ed25519{}
	}

	var m *metrics.Metrics
	if cfg.registry != nil {
		m = metrics.New(cfg.registry)
	}

	return &Runner{
		cfg:    cfg,
		logger: cfg.logger,
		oracle: o,
		searcher: search.New(o,
			search.WithMaxAttempts(cfg.maxAttempts),
			search.WithLogger(cfg.logger.Named("search")),
			search.WithMetrics(m),
		),
		harness: harness.New(
			harness.WithEvictionSize(cfg.evictionSize),
			harness.WithInvalidatePath(cfg.invalidatePath),
			harness.WithCPU(cfg.cpu),
			harness.WithLogger(cfg.logger.Named("harness")),
			harness.WithMetrics(m),
		),
	}, nil
}

func (c *runnerConfig) validate() error {
	if c.maxAttempts < 1 {
		return fmt.Errorf("%w: max attempts %d", ErrInvalidConfig, c.maxAttempts)
	}
	if c.repetitions < 1 {
		return fmt.Errorf("%w: repetitions %d", ErrInvalidConfig, c.repetitions)
	}
	if c.evictionSize < 1 {
		return fmt.Errorf("%w: eviction size %d", ErrInvalidConfig, c.evictionSize)
	}
	if c.z < 0 {
		return fmt.Errorf("%w: z %v", ErrInvalidConfig, c.z)
	}
	if len(c.modes) == 0 {
		return fmt.Errorf("%w: no flush modes", ErrInvalidConfig)
	}
	for _, m := range c.modes {
		if !m.Valid() {
			return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, harness.ErrUnknownFlushMode, int(m))
		}
	}
	return nil
}

// Modes returns the flush modes a sweep measures, in order.
func (r *Runner) Modes() []FlushMode {
	return append([]FlushMode(nil), r.cfg.modes...)
}

// GenerateFixtures writes the four standard fixtures to the fixture
// directory: ten random inputs, ten forged inputs, and ten byzantine
// inputs at threshold and at threshold plus the hard bonus. It returns the
// paths written. A nil rng uses crypto/rand.
func (r *Runner) GenerateFixtures(ctx context.Context, rng io.Reader, threshold int) ([]string, error) {
	n := DefaultSampleCount
	dir := r.cfg.fixtureDir

	random, err := input.RandomBatch(rng, n)
	if err != nil {
		return nil, err
	}
	randomPath := filepath.Join(dir, fixture.RandomFile)
	if err := fixture.Save(randomPath, fixture.KindRandom, entries(random)); err != nil {
		return nil, err
	}

	forgedPath := filepath.Join(dir, fixture.ForgedFile)
	if err := fixture.Save(forgedPath, fixture.KindForged, entries(input.ForgedBatch(n))); err != nil {
		return nil, err
	}

	paths := []string{randomPath, forgedPath}
	for _, t := range []struct {
		file      string
		threshold int
	}{
		{fixture.ByzantineFile, threshold},
		{fixture.HardByzantineFile, threshold + search.HardThresholdBonus},
	} {
		path := filepath.Join(dir, t.file)
		if _, err := r.SearchByzantine(ctx, rng, t.threshold, n, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	r.logger.Info("fixtures written", zap.Strings("paths", paths))
	return paths, nil
}

// SearchByzantine finds count inputs scoring at least minScore and saves
// them to path as a byzantine fixture.
func (r *Runner) SearchByzantine(ctx context.Context, rng io.Reader, minScore, count int, path string) ([]Candidate, error) {
	found, err := r.searcher.GenerateByzantineSamples(ctx, rng, minScore, count)
	if err != nil {
		return nil, err
	}

	es := make([]fixture.Entry, len(found))
	for i, c := range found {
		es[i] = fixture.Entry{Input: c.Input, Score: c.Score}
	}
	if err := fixture.Save(path, fixture.KindByzantine, es); err != nil {
		return nil, err
	}
	return found, nil
}

// ScoreDistribution scores n random inputs with the oracle.
func (r *Runner) ScoreDistribution(ctx context.Context, rng io.Reader, n int) ([]int, error) {
	return r.searcher.ScoreDistribution(ctx, rng, n)
}

// Sweep measures verification of the fixture at fixturePath runs times
// under every configured flush mode. Run i uses fixture input i modulo the
// fixture length. Every sample is written to the results directory and
// summarized; a manifest describing the sweep is written first.
//
// All modes are checked before the first trial, so an unavailable
// environment fails the sweep up front instead of after partial results.
func (r *Runner) Sweep(ctx context.Context, fixturePath string, runs int) ([]ModeReport, error) {
	if runs < 1 {
		return nil, fmt.Errorf("%w: runs %d", ErrInvalidConfig, runs)
	}

	f, err := fixture.Load(fixturePath)
	if err != nil {
		return nil, err
	}
	for _, mode := range r.cfg.modes {
		if err := r.harness.Check(mode); err != nil {
			return nil, &SweepError{Mode: mode, Run: -1, Err: err}
		}
	}

	manifest := fixture.NewManifest(fixturePath, r.cfg.modes, r.cfg.repetitions, runs)
	if err := fixture.WriteManifest(r.cfg.resultsDir, manifest); err != nil {
		return nil, err
	}
	log := r.logger.With(zap.Stringer("run_id", manifest.RunID))
	log.Info("sweep started",
		zap.String("fixture", fixturePath),
		zap.Strings("modes", manifest.Modes),
		zap.Int("runs", runs),
		zap.Int("repetitions", r.cfg.repetitions),
	)

	inputs := f.Inputs()
	reports := make([]ModeReport, 0, runs*len(r.cfg.modes))
	for run := 0; run < runs; run++ {
		in := inputs[run%len(inputs)]
		for _, mode := range r.cfg.modes {
			sample, err := r.harness.Measure(ctx, r.verifier(in), mode, r.cfg.repetitions)
			if err != nil {
				return nil, &SweepError{Mode: mode, Run: run, Err: err}
			}
			path, err := fixture.WriteResult(r.cfg.resultsDir, mode, run, sample)
			if err != nil {
				return nil, &SweepError{Mode: mode, Run: run, Err: err}
			}
			summary, err := stats.Summarize(sample, r.cfg.z)
			if err != nil {
				return nil, &SweepError{Mode: mode, Run: run, Err: err}
			}

			log.Info("measured",
				zap.Int("run", run),
				zap.Stringer("mode", mode),
				zap.Stringer("summary", summary),
				zap.String("result", path),
			)
			reports = append(reports, ModeReport{
				Run:        run,
				Mode:       mode,
				Input:      in,
				ResultPath: path,
				Summary:    summary,
			})
		}
	}
	return reports, nil
}

// Intervals measures each input repetitions times without flushing and
// summarizes every sample with the configured z.
func (r *Runner) Intervals(ctx context.Context, inputs []BenchmarkInput, repetitions int) ([]Summary, error) {
	if len(inputs) == 0 {
		return nil, ErrNoData
	}

	out := make([]Summary, 0, len(inputs))
	for i, in := range inputs {
		sample, err := r.harness.Measure(ctx, r.verifier(in), NoFlush, repetitions)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		s, err := stats.Summarize(sample, r.cfg.z)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Phases times the verification phases of each input once. The oracle
// must implement TimedOracle. Rejected inputs keep their error in the
// matching PhaseResult.
func (r *Runner) Phases(inputs []BenchmarkInput) ([]PhaseResult, error) {
	timed, ok := r.oracle.(TimedOracle)
	if !ok {
		return nil, ErrUntimedOracle
	}

	out := make([]PhaseResult, len(inputs))
	for i, in := range inputs {
		pt, err := timed.VerifyTimed(in.PublicKey[:], in.MessageBytes(), in.Signature[:])
		if err != nil {
			r.logger.Debug("timed verification rejected input", zap.Int("index", i), zap.Error(err))
		}
		out[i] = PhaseResult{PhaseTimings: pt, Err: err}
	}
	return out, nil
}

// Z returns the confidence interval multiplier used in summaries.
func (r *Runner) Z() float64 {
	return r.cfg.z
}

// verifier returns a closure verifying in. The argument slices are built
// once so the timed call does no conversion work.
func (r *Runner) verifier(in BenchmarkInput) func() error {
	pk := in.PublicKey[:]
	msg := in.MessageBytes()
	sig := in.Signature[:]
	o := r.oracle
	return func() error {
		return o.Verify(pk, msg, sig)
	}
}

func entries(inputs []BenchmarkInput) []fixture.Entry {
	out := make([]fixture.Entry, len(inputs))
	for i, in := range inputs {
		out[i] = fixture.Entry{Input: in}
	}
	return out
}

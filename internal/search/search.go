// Package search finds byzantine inputs: random benchmark inputs that a
// scoring oracle rates at or above a threshold.
package search

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/vaultsandbox/byzbench/internal/input"
	"github.com/vaultsandbox/byzbench/internal/metrics"
)

// Scorer rates a verification input. Identical arguments must yield
// identical scores.
type Scorer interface {
	ByzScore(publicKey, message, signature []byte) int
}

// Candidate is an accepted search result.
type Candidate struct {
	Input input.BenchmarkInput
	// Score is the oracle score, at least the threshold searched for.
	Score int
	// Attempts is the number of candidates drawn, including this one.
	Attempts int
}

// Searcher runs bounded rejection sampling against a Scorer.
// Accepted samples are logged only when WithLogger is given.
// It is not safe for concurrent use.
type Searcher struct {
	scorer      Scorer
	maxAttempts int
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// New creates a Searcher for scorer.
func New(scorer Scorer, opts ...Option) *Searcher {
	s := &Searcher{
		scorer:      scorer,
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxAttempts returns the per-search attempt limit.
func (s *Searcher) MaxAttempts() int {
	return s.maxAttempts
}

// FindByzInput draws random inputs from rng until one scores at least
// minScore. Each accepted input is logged once before it is returned.
//
// After MaxAttempts draws without success it returns an *ExhaustedError,
// which matches ErrSearchExhausted. ctx is checked between draws.
func (s *Searcher) FindByzInput(ctx context.Context, rng io.Reader, minScore int) (Candidate, error) {
	if minScore < 0 {
		return Candidate{}, ErrInvalidThreshold
	}

	best := -1
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Candidate{}, err
		}

		in, err := input.Random(rng)
		if err != nil {
			return Candidate{}, fmt.Errorf("draw candidate: %w", err)
		}

		score := s.scorer.ByzScore(in.PublicKey[:], in.MessageBytes(), in.Signature[:])
		s.metrics.SearchAttempt()
		if score > best {
			best = score
		}
		if score < minScore {
			continue
		}

		c := Candidate{Input: in, Score: score, Attempts: attempt}
		s.metrics.SearchAccepted(score)
		s.logger.Info("accepted byzantine input",
			zap.Int("score", score),
			zap.Int("min_score", minScore),
			zap.Int("attempts", attempt),
			zap.Object("input", in),
		)
		return c, nil
	}

	s.metrics.SearchExhausted()
	return Candidate{}, &ExhaustedError{
		MinScore:  minScore,
		Attempts:  s.maxAttempts,
		BestScore: best,
	}
}

// GenerateByzantineSamples runs count searches sharing rng and returns the
// accepted candidates in the order found. It stops at the first failure.
func (s *Searcher) GenerateByzantineSamples(ctx context.Context, rng io.Reader, minScore, count int) ([]Candidate, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	out := make([]Candidate, 0, count)
	for i := 0; i < count; i++ {
		c, err := s.FindByzInput(ctx, rng, minScore)
		if err != nil {
			return nil, fmt.Errorf("sample %d of %d: %w", i+1, count, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// ScoreDistribution scores n fresh random inputs and returns the scores in
// draw order. It is used to pick a threshold for a given oracle.
func (s *Searcher) ScoreDistribution(ctx context.Context, rng io.Reader, n int) ([]int, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}

	scores := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := input.Random(rng)
		if err != nil {
			return nil, fmt.Errorf("draw candidate: %w", err)
		}
		score := s.scorer.ByzScore(in.PublicKey[:], in.MessageBytes(), in.Signature[:])
		s.metrics.SearchAttempt()
		s.logger.Debug("scored random input", zap.Int("score", score), zap.Object("input", in))
		scores = append(scores, score)
	}
	return scores, nil
}

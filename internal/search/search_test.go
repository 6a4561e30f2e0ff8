package search

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vaultsandbox/byzbench/internal/input"
	"github.com/vaultsandbox/byzbench/internal/metrics"
	"github.com/vaultsandbox/byzbench/internal/oracle"
)

// ffScorer scores a triple by the number of 0xFF bytes in its signature.
type ffScorer struct {
	calls int
}

func (s *ffScorer) ByzScore(_, _, signature []byte) int {
	s.calls++
	return bytes.Count(signature, []byte{0xFF})
}

// constScorer always returns the same score.
type constScorer int

func (c constScorer) ByzScore(_, _, _ []byte) int { return int(c) }

func seeded(t *testing.T, label string) io.Reader {
	t.Helper()
	r, err := input.NewSeededReader([]byte("search-test"), label)
	require.NoError(t, err)
	return r
}

func TestFindByzInput_FFBytes(t *testing.T) {
	scorer := &ffScorer{}
	s := New(scorer)

	c, err := s.FindByzInput(context.Background(), seeded(t, "ff"), 2)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, bytes.Count(c.Input.Signature[:], []byte{0xFF}), 2)
	assert.Equal(t, bytes.Count(c.Input.Signature[:], []byte{0xFF}), c.Score)
	assert.Equal(t, scorer.calls, c.Attempts)
	assert.Equal(t, input.Message, c.Input.Message)
}

func TestFindByzInput_ScoreMeetsThreshold(t *testing.T) {
	s := New(oracle.Ed25519{}, WithMaxAttempts(10_000))
	for _, threshold := range []int{0, 60, 70, 74} {
		c, err := s.FindByzInput(context.Background(), seeded(t, "ed"), threshold)
		require.NoError(t, err, "threshold=%d", threshold)
		assert.GreaterOrEqual(t, c.Score, threshold)

		again := oracle.Ed25519{}.ByzScore(c.Input.PublicKey[:], c.Input.MessageBytes(), c.Input.Signature[:])
		assert.Equal(t, c.Score, again, "oracle not deterministic")
	}
}

func TestFindByzInput_ZeroThresholdAcceptsFirst(t *testing.T) {
	c, err := New(constScorer(0)).FindByzInput(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Attempts)
}

func TestFindByzInput_Exhausted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s := New(constScorer(3), WithMaxAttempts(25), WithMetrics(m))

	_, err := s.FindByzInput(context.Background(), seeded(t, "x"), 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchExhausted)

	var ex *ExhaustedError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, 25, ex.Attempts)
	assert.Equal(t, 3, ex.BestScore)
	assert.Equal(t, 4, ex.MinScore)
}

func TestFindByzInput_InvalidThreshold(t *testing.T) {
	_, err := New(constScorer(0)).FindByzInput(context.Background(), nil, -1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestFindByzInput_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(constScorer(0)).FindByzInput(ctx, nil, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindByzInput_ReaderFailure(t *testing.T) {
	_, err := New(constScorer(0)).FindByzInput(context.Background(), bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, input.ErrKeyGeneration)
}

func TestFindByzInput_LogsOncePerAccepted(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := New(&ffScorer{}, WithLogger(zap.New(core)))

	samples, err := s.GenerateByzantineSamples(context.Background(), seeded(t, "log"), 1, 4)
	require.NoError(t, err)
	require.Len(t, samples, 4)

	accepted := logs.FilterMessage("accepted byzantine input").All()
	require.Len(t, accepted, 4)
	for i, entry := range accepted {
		fields := entry.ContextMap()
		assert.EqualValues(t, samples[i].Score, fields["score"])
		assert.EqualValues(t, samples[i].Attempts, fields["attempts"])
		in, ok := fields["input"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, input.ToBase64URL(samples[i].Input.Signature[:]), in["signature"])
	}
}

func TestGenerateByzantineSamples_SharedStream(t *testing.T) {
	s := New(&ffScorer{})

	a, err := s.GenerateByzantineSamples(context.Background(), seeded(t, "shared"), 1, 5)
	require.NoError(t, err)
	b, err := s.GenerateByzantineSamples(context.Background(), seeded(t, "shared"), 1, 5)
	require.NoError(t, err)

	seen := make(map[[input.SignatureSize]byte]bool)
	for i := range a {
		assert.Equal(t, a[i], b[i], "same seed must give the same samples")
		assert.False(t, seen[a[i].Input.Signature], "sample %d repeated", i)
		seen[a[i].Input.Signature] = true
	}
}

func TestGenerateByzantineSamples_StopsOnError(t *testing.T) {
	s := New(constScorer(0), WithMaxAttempts(3))
	_, err := s.GenerateByzantineSamples(context.Background(), nil, 1, DefaultSampleCount)
	assert.ErrorIs(t, err, ErrSearchExhausted)

	_, err = s.GenerateByzantineSamples(context.Background(), nil, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestScoreDistribution(t *testing.T) {
	scorer := &ffScorer{}
	scores, err := New(scorer).ScoreDistribution(context.Background(), seeded(t, "dist"), 50)
	require.NoError(t, err)
	assert.Len(t, scores, 50)
	assert.Equal(t, 50, scorer.calls)
	for _, sc := range scores {
		assert.GreaterOrEqual(t, sc, 0)
	}
}

func TestOptions(t *testing.T) {
	s := New(constScorer(0))
	assert.Equal(t, DefaultMaxAttempts, s.MaxAttempts())

	s = New(constScorer(0), WithMaxAttempts(7), WithMaxAttempts(0), WithLogger(nil))
	assert.Equal(t, 7, s.MaxAttempts())
	assert.NotNil(t, s.logger)
}

func TestNew_DefaultLoggerIsSilent(t *testing.T) {
	s := New(constScorer(0))
	assert.False(t, s.logger.Core().Enabled(zapcore.FatalLevel))

	core, logs := observer.New(zapcore.InfoLevel)
	s = New(constScorer(0), WithLogger(zap.New(core)))
	_, err := s.FindByzInput(context.Background(), seeded(t, "silent"), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("accepted byzantine input").Len())
}

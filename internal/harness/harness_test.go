package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsandbox/byzbench/internal/metrics"
)

func TestMeasure_NoFlush(t *testing.T) {
	h := New()
	calls := 0

	sample, err := h.Measure(context.Background(), func() error {
		calls++
		return nil
	}, NoFlush, DefaultRepetitions)
	require.NoError(t, err)

	assert.Len(t, sample, 100)
	assert.Equal(t, 100, calls)
	for i, d := range sample {
		assert.GreaterOrEqual(t, d, time.Duration(0), "trial %d", i)
	}
	assert.False(t, h.EvictionBuffer().Ready(), "NoFlush must not build the eviction buffer")
}

func TestMeasure_ClosureErrorsIgnored(t *testing.T) {
	h := New()
	calls := 0
	fail := errors.New("verification failed")

	sample, err := h.Measure(context.Background(), func() error {
		calls++
		return fail
	}, NoFlush, 10)
	require.NoError(t, err)
	assert.Len(t, sample, 10)
	assert.Equal(t, 10, calls)
	assert.Nil(t, h.sink)
}

func TestMeasure_RecordsElapsed(t *testing.T) {
	sample, err := New().Measure(context.Background(), func() error {
		time.Sleep(2 * time.Millisecond)
		return nil
	}, NoFlush, 3)
	require.NoError(t, err)
	for _, d := range sample {
		assert.GreaterOrEqual(t, d, 2*time.Millisecond)
	}
}

func TestMeasure_TrialsAreSequential(t *testing.T) {
	active, maxActive := 0, 0

	_, err := New(WithEvictionSize(4096)).Measure(context.Background(), func() error {
		active++
		if active > maxActive {
			maxActive = active
		}
		active--
		return nil
	}, OverwriteScan, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, maxActive)
}

func TestMeasure_OverwriteScanBuildsBufferOnce(t *testing.T) {
	h := New(WithEvictionSize(1 << 16))
	buf := h.EvictionBuffer()
	assert.False(t, buf.Ready())

	_, err := h.Measure(context.Background(), func() error { return nil }, OverwriteScan, 5)
	require.NoError(t, err)
	require.True(t, buf.Ready())

	first := buf.Bytes()
	assert.Len(t, first, 1<<16)

	_, err = h.Measure(context.Background(), func() error { return nil }, OverwriteScan, 5)
	require.NoError(t, err)
	second := buf.Bytes()
	assert.Same(t, &first[0], &second[0], "buffer was rebuilt")
}

func TestMeasure_InjectedBuffer(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	buf := NewEvictionBufferFrom(data)
	h := New(WithEvictionBuffer(buf))

	assert.True(t, buf.Ready())
	_, err := h.Measure(context.Background(), func() error { return nil }, OverwriteScan, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, buf.Bytes())
	assert.Equal(t, byte(1^2^3^4^5^6^7^8), scanSink)
}

func TestMeasure_PrivilegedInvalidateUnavailable(t *testing.T) {
	h := New(WithInvalidatePath(filepath.Join(t.TempDir(), "missing")))
	calls := 0

	sample, err := h.Measure(context.Background(), func() error {
		calls++
		return nil
	}, PrivilegedInvalidate, 10)
	assert.ErrorIs(t, err, ErrEnvironmentUnavailable)
	assert.Nil(t, sample)
	assert.Zero(t, calls, "closure ran without a primed environment")
	assert.ErrorIs(t, h.Check(PrivilegedInvalidate), ErrEnvironmentUnavailable)
}

func TestMeasure_PrivilegedInvalidateAvailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wbinvd")
	require.NoError(t, os.WriteFile(path, []byte("ok\n"), 0o600))
	h := New(WithInvalidatePath(path))

	require.NoError(t, h.Check(PrivilegedInvalidate))
	sample, err := h.Measure(context.Background(), func() error { return nil }, PrivilegedInvalidate, 4)
	require.NoError(t, err)
	assert.Len(t, sample, 4)
}

func TestMeasure_InvalidArguments(t *testing.T) {
	h := New()
	noop := func() error { return nil }

	_, err := h.Measure(context.Background(), noop, NoFlush, 0)
	assert.ErrorIs(t, err, ErrInvalidRepetitions)

	_, err = h.Measure(context.Background(), noop, FlushMode(9), 1)
	assert.ErrorIs(t, err, ErrUnknownFlushMode)
	assert.ErrorIs(t, h.Check(FlushMode(-1)), ErrUnknownFlushMode)
}

func TestMeasure_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := New().Measure(ctx, func() error {
		calls++
		if calls == 3 {
			cancel()
		}
		return nil
	}, NoFlush, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestMeasure_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(WithMetrics(metrics.New(reg)))

	_, err := h.Measure(context.Background(), func() error { return nil }, NoFlush, 7)
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "byzbench_harness_trials_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMeasure_PinnedCPU(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("CPU pinning is linux only")
	}
	sample, err := New(WithCPU(0)).Measure(context.Background(), func() error { return nil }, NoFlush, 5)
	if errors.Is(err, ErrAffinity) {
		t.Skipf("affinity not permitted here: %v", err)
	}
	require.NoError(t, err)
	assert.Len(t, sample, 5)
}

func TestTimingSample_Nanos(t *testing.T) {
	s := TimingSample{time.Microsecond, 2500 * time.Nanosecond}
	assert.Equal(t, []int64{1000, 2500}, s.Nanos())
}

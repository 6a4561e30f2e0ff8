package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	m, err := Mean([]int{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, 20.0, m)

	d, err := Mean([]time.Duration{time.Microsecond, 3 * time.Microsecond})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, d)
}

func TestPopulationStdDev(t *testing.T) {
	s, err := PopulationStdDev([]int{10, 20, 30})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(200.0/3.0), s, 1e-12)
	assert.InDelta(t, 8.16, s, 0.01)

	s, err = PopulationStdDev([]float64{5, 5, 5})
	require.NoError(t, err)
	assert.Zero(t, s)

	s, err = PopulationStdDev([]int{42})
	require.NoError(t, err)
	assert.Zero(t, s)
}

func TestEmptyIsNoData(t *testing.T) {
	_, err := Mean([]int64{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = PopulationStdDev[int64](nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ConfidenceInterval([]float64{}, DefaultZ)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Summarize([]time.Duration{}, DefaultZ)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestConfidenceInterval_Symmetric(t *testing.T) {
	xs := []int64{31000, 33000, 29000, 35000, 30500, 32000}
	mean, err := Mean(xs)
	require.NoError(t, err)

	for _, z := range []float64{0, 0.5, DefaultZ, 1.96, 3} {
		iv, err := ConfidenceInterval(xs, z)
		require.NoError(t, err)
		assert.InDelta(t, mean-iv.Low, iv.High-mean, 1e-9, "z=%v", z)
		assert.InDelta(t, mean, iv.Mean(), 1e-9)
	}

	_, err = ConfidenceInterval(xs, -1)
	assert.ErrorIs(t, err, ErrInvalidZ)
}

func TestConfidenceInterval_ShrinksWithN(t *testing.T) {
	// Alternating 0/10 keeps the population variance at 25 for every even n.
	prev := math.Inf(1)
	for _, n := range []int{2, 4, 8, 16, 64, 256} {
		xs := make([]int, n)
		for i := range xs {
			xs[i] = (i % 2) * 10
		}
		iv, err := ConfidenceInterval(xs, DefaultZ)
		require.NoError(t, err)
		assert.Less(t, iv.HalfWidth(), prev, "n=%d", n)
		assert.InDelta(t, DefaultZ*5/math.Sqrt(float64(n)), iv.HalfWidth(), 1e-9)
		prev = iv.HalfWidth()
	}
}

func TestInterval_Overlaps(t *testing.T) {
	a := Interval{Low: 1, High: 3}
	assert.True(t, a.Overlaps(Interval{Low: 2, High: 5}))
	assert.True(t, a.Overlaps(Interval{Low: 3, High: 4}))
	assert.False(t, a.Overlaps(Interval{Low: 3.5, High: 4}))
	assert.Equal(t, 1.0, a.HalfWidth())
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]int64{1000, 2000, 3000}, DefaultZ)
	require.NoError(t, err)
	assert.Equal(t, 3, s.N)
	assert.Equal(t, 2000.0, s.Mean)
	assert.InDelta(t, 816.5, s.StdDev, 0.1)
	assert.Equal(t, "2.000µs +/-0.816µs (n=3)", s.String())

	s, err = Summarize([]int{9, 1, 5, 3, 7}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 5.0, s.Median, 1e-9)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 5.0, s.Interval.Low, 1e-9)
	assert.Equal(t, s.Interval.Low, s.Interval.High)

	xs := []int{4, 1, 3, 2}
	s, err = Summarize(xs, DefaultZ)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.Equal(t, []int{4, 1, 3, 2}, xs)
}

package stats

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
)

// DefaultZ is the interval multiplier used by the reports. It gives a
// roughly 85% two-sided normal interval.
const DefaultZ = 1.44

// Number is any sample type the statistics accept, including
// time.Duration.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Mean returns the arithmetic mean of xs.
func Mean[T Number](xs []T) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrNoData
	}
	return sampleOf(xs).Mean(), nil
}

// PopulationStdDev returns the square root of the mean squared deviation
// from the mean. No Bessel correction is applied.
func PopulationStdDev[T Number](xs []T) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrNoData
	}
	return populationStdDev(sampleOf(xs)), nil
}

// ConfidenceInterval returns mean ± z*stddev/sqrt(n).
func ConfidenceInterval[T Number](xs []T, z float64) (Interval, error) {
	if z < 0 || math.IsNaN(z) {
		return Interval{}, ErrInvalidZ
	}
	if len(xs) == 0 {
		return Interval{}, ErrNoData
	}
	s := sampleOf(xs)
	return interval(s.Mean(), populationStdDev(s), len(xs), z), nil
}

// sampleOf converts xs to a moremath sample.
func sampleOf[T Number](xs []T) *moremath.Sample {
	fs := make([]float64, len(xs))
	for i, x := range xs {
		fs[i] = float64(x)
	}
	return &moremath.Sample{Xs: fs}
}

// populationStdDev rescales moremath's n-1 variance to the population form.
func populationStdDev(s *moremath.Sample) float64 {
	n := float64(len(s.Xs))
	return math.Sqrt(s.Variance() * (n - 1) / n)
}

func interval(mean, std float64, n int, z float64) Interval {
	half := z * std / math.Sqrt(float64(n))
	return Interval{Low: mean - half, High: mean + half}
}

// Interval is a closed range of sample values.
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Mean returns the midpoint.
func (iv Interval) Mean() float64 {
	return (iv.Low + iv.High) / 2
}

// HalfWidth returns half the distance between the bounds.
func (iv Interval) HalfWidth() float64 {
	return (iv.High - iv.Low) / 2
}

// Overlaps reports whether iv and other share at least one point.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Low <= other.High && other.Low <= iv.High
}

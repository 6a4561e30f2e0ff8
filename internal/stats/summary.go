package stats

import (
	"fmt"
	"math"
)

// Summary condenses one timing sample.
type Summary struct {
	N        int      `json:"n"`
	Mean     float64  `json:"mean"`
	StdDev   float64  `json:"std_dev"`
	Interval Interval `json:"interval"`
	Min      float64  `json:"min"`
	Median   float64  `json:"median"`
	Max      float64  `json:"max"`
}

// Summarize computes the mean, population standard deviation and z
// interval of xs, plus its bounds and median.
func Summarize[T Number](xs []T, z float64) (Summary, error) {
	if z < 0 || math.IsNaN(z) {
		return Summary{}, ErrInvalidZ
	}
	if len(xs) == 0 {
		return Summary{}, ErrNoData
	}

	sample := sampleOf(xs)
	mean := sample.Mean()
	std := populationStdDev(sample)
	sample.Sort()
	lo, hi := sample.Bounds()

	return Summary{
		N:        len(xs),
		Mean:     mean,
		StdDev:   std,
		Interval: interval(mean, std, len(xs), z),
		Min:      lo,
		Median:   sample.Quantile(0.5),
		Max:      hi,
	}, nil
}

// String formats a summary of nanosecond samples in microseconds.
func (s Summary) String() string {
	return fmt.Sprintf("%.3fµs +/-%.3fµs (n=%d)", s.Mean/1e3, s.StdDev/1e3, s.N)
}

// Package metrics holds the Prometheus collectors shared by the searcher and
// the timing harness.
//
// All updates happen outside timed regions. A nil *Metrics is valid and
// records nothing, so callers that do not care about metrics pass nil.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "byzbench"

// Metrics groups the collectors registered for one run.
type Metrics struct {
	searchAttempts  prometheus.Counter
	searchAccepted  prometheus.Counter
	searchExhausted prometheus.Counter
	acceptedScore   prometheus.Histogram
	trials          *prometheus.CounterVec
	trialNanos      *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		searchAttempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "attempts_total",
			Help:      "Random candidates drawn and scored by the byzantine search.",
		}),
		searchAccepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "accepted_total",
			Help:      "Candidates accepted because their score met the threshold.",
		}),
		searchExhausted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "exhausted_total",
			Help:      "Searches that hit the attempt limit without an accepted candidate.",
		}),
		acceptedScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "accepted_score",
			Help:      "Oracle score of accepted candidates.",
			Buckets:   prometheus.LinearBuckets(60, 4, 10),
		}),
		trials: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "harness",
			Name:      "trials_total",
			Help:      "Timed trials executed, by cache flush mode.",
		}, []string{"mode"}),
		trialNanos: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "harness",
			Name:      "trial_nanoseconds",
			Help:      "Per-trial elapsed time, by cache flush mode.",
			Buckets:   prometheus.ExponentialBuckets(1000, 2, 16),
		}, []string{"mode"}),
	}
}

// SearchAttempt records one scored candidate.
func (m *Metrics) SearchAttempt() {
	if m == nil {
		return
	}
	m.searchAttempts.Inc()
}

// SearchAccepted records an accepted candidate and its score.
func (m *Metrics) SearchAccepted(score int) {
	if m == nil {
		return
	}
	m.searchAccepted.Inc()
	m.acceptedScore.Observe(float64(score))
}

// SearchExhausted records a search that gave up.
func (m *Metrics) SearchExhausted() {
	if m == nil {
		return
	}
	m.searchExhausted.Inc()
}

// Trials records a completed measurement of per-trial nanoseconds.
func (m *Metrics) Trials(mode string, nanos []int64) {
	if m == nil {
		return
	}
	m.trials.WithLabelValues(mode).Add(float64(len(nanos)))
	h := m.trialNanos.WithLabelValues(mode)
	for _, n := range nanos {
		h.Observe(float64(n))
	}
}

// WriteTextfile writes the gathered metrics in the text exposition format,
// e.g. for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

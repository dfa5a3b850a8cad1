package solver

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordlebot",
		Subsystem: "solver",
		Name:      "requests_total",
		Help:      "Remote solver calls by result (word, no_candidates, invalid_word, transport_error).",
	}, []string{"result"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wordlebot",
		Subsystem: "solver",
		Name:      "request_duration_seconds",
		Help:      "Latency of remote solver calls.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordlebot",
		Subsystem: "solver",
		Name:      "cache_lookups_total",
		Help:      "Solver cache lookups by result (hit, miss, error).",
	}, []string{"result"})
)

// resultLabel maps a NextGuess error to a metric label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "word"
	case errors.Is(err, ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, ErrInvalidWord):
		return "invalid_word"
	default:
		return "transport_error"
	}
}

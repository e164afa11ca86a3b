package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports statement timings as prometheus metrics.
type Recorder struct {
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rfb",
			Subsystem: "db",
			Name:      "statement_duration_seconds",
			Help:      "Duration of statements issued by the entity manager.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "verb"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rfb",
			Subsystem: "db",
			Name:      "statements_total",
			Help:      "Statements issued by the entity manager by outcome.",
		}, []string{"table", "verb", "result"}),
	}
	reg.MustRegister(r.duration, r.results)
	return r
}

// Observe takes an op of the form "<table>.<verb>".
func (r *Recorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	table, verb, found := strings.Cut(op, ".")
	if !found {
		verb = "unknown"
	}
	result := "success"
	if !success {
		result = "error"
	}
	r.duration.WithLabelValues(table, verb).Observe(duration.Seconds())
	r.results.WithLabelValues(table, verb, result).Inc()
}

package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "executor"

type metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	dropped  prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "Number of handled execution requests by the response status.",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "run_duration_seconds",
				Help:      "Code execution time.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		dropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "dropped_requests_total",
				Help:      "Number of connections closed without response.",
			},
		),
	}
}

func (m *metrics) register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.requests, m.duration, m.dropped} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *metrics) observe(res Result, start time.Time) {
	status := "success"
	if res.Status != StatusSuccess {
		status = "failure"
	}

	m.requests.WithLabelValues(status).Inc()
	m.duration.Observe(time.Since(start).Seconds())
}

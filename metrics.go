package jwtscreen

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records screening outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// IncVerdict counts one screening outcome. The code is a stable
	// verdict code: "accepted", a screener RejectKind code, or one of
	// the middleware-level codes "token_missing" / "extraction_error".
	IncVerdict(code string)

	// ObserveScreenLatency records how long one screening took.
	ObserveScreenLatency(seconds float64)
}

// NoopMetrics is the default Metrics implementation and does nothing.
type NoopMetrics struct{}

func (NoopMetrics) IncVerdict(code string)               {}
func (NoopMetrics) ObserveScreenLatency(seconds float64) {}

// PrometheusMetrics implements Metrics with Prometheus collectors.
type PrometheusMetrics struct {
	verdicts *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewPrometheusMetrics builds a PrometheusMetrics and registers its
// collectors with the given registerer. Pass prometheus.DefaultRegisterer
// for the default registry.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_screen_verdicts_total",
			Help: "Screening outcomes by verdict code.",
		}, []string{"code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "token_screen_duration_seconds",
			Help:    "Time spent screening a single token.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.verdicts, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) IncVerdict(code string) {
	m.verdicts.WithLabelValues(code).Inc()
}

func (m *PrometheusMetrics) ObserveScreenLatency(seconds float64) {
	m.latency.Observe(seconds)
}

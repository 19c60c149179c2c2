package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/linegroup/authcore/pkg/errors"
)

// Metrics manages the Prometheus metrics of the token core.
type Metrics struct {
	TokensIssued     prometheus.Counter
	IssueLatency     prometheus.Histogram
	Verifications    *prometheus.CounterVec
	Rejections       *prometheus.CounterVec
	VerifyLatency    prometheus.Histogram
	Revocations      prometheus.Counter
	RefreshRotations prometheus.Counter
}

// NewMetrics creates and registers the metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics on the given registerer, letting
// tests use an isolated registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TokensIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "authcore_tokens_issued_total",
			Help: "Total number of access tokens issued.",
		}),
		IssueLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "authcore_token_issue_latency_seconds",
			Help:    "Latency of token issuance.",
			Buckets: prometheus.DefBuckets,
		}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authcore_token_verifications_total",
			Help: "Total number of token verifications by outcome.",
		}, []string{"result"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authcore_token_rejections_total",
			Help: "Total number of token rejections by internal reason.",
		}, []string{"reason"}),
		VerifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "authcore_token_verify_latency_seconds",
			Help:    "Latency of token verification.",
			Buckets: prometheus.DefBuckets,
		}),
		Revocations: factory.NewCounter(prometheus.CounterOpts{
			Name: "authcore_token_revocations_total",
			Help: "Total number of explicit token revocations.",
		}),
		RefreshRotations: factory.NewCounter(prometheus.CounterOpts{
			Name: "authcore_refresh_rotations_total",
			Help: "Total number of refresh credential rotations.",
		}),
	}
}

// RecordIssue records a successful issuance.
func (m *Metrics) RecordIssue(duration time.Duration) {
	m.TokensIssued.Inc()
	m.IssueLatency.Observe(duration.Seconds())
}

// RecordVerification records a verification outcome. The precise reason
// feeds metrics and logs only; it is never exposed to callers.
func (m *Metrics) RecordVerification(err error, duration time.Duration) {
	m.VerifyLatency.Observe(duration.Seconds())
	if err == nil {
		m.Verifications.WithLabelValues("success").Inc()
		return
	}
	m.Verifications.WithLabelValues("rejected").Inc()
	if reason, ok := errors.ReasonOf(err); ok {
		m.Rejections.WithLabelValues(string(reason)).Inc()
	}
}

// RecordRevocation records an explicit revocation.
func (m *Metrics) RecordRevocation() {
	m.Revocations.Inc()
}

// RecordRefreshRotation records a refresh credential rotation.
func (m *Metrics) RecordRefreshRotation() {
	m.RefreshRotations.Inc()
}

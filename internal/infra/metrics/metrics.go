package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astro-web3/jwt-validator/internal/domain/validation"
)

const namespace = "jwt_validator"

const (
	reasonNone   = "none"
	reasonPolicy = "policy"
)

// Metrics records validation outcomes. It implements validation.Observer.
type Metrics struct {
	validations *prometheus.CounterVec
	violations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Token pipeline runs by operation, outcome and failure reason.",
		}, []string{"operation", "outcome", "reason"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_violations_total",
			Help:      "Claim rule violations by rule and kind.",
		}, []string{"rule", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent in the token pipeline.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.validations, m.violations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) Observe(_ context.Context, op validation.Operation, o validation.Outcome, elapsed time.Duration) {
	outcome := string(validation.StageRejected)
	reason := reasonNone
	switch {
	case o.Accepted():
		outcome = string(validation.StageAccepted)
	case o.FailedAt == validation.StagePolicyCheck:
		reason = reasonPolicy
	case o.Reason != "":
		reason = string(o.Reason)
	}

	m.validations.WithLabelValues(string(op), outcome, reason).Inc()
	m.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
	for _, v := range o.Violations {
		m.violations.WithLabelValues(string(v.Rule), string(v.Kind)).Inc()
	}
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

package csrf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "xsrf"

// Metrics counts guard decisions. A nil *Metrics records nothing.
type Metrics struct {
	Decisions      *prometheus.CounterVec
	TokensIssued   *prometheus.CounterVec
	RenewalDropped prometheus.Counter
}

// NewMetrics registers the guard's collectors with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Total number of requests by guard outcome",
			},
			[]string{"state"},
		),
		TokensIssued: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_issued_total",
				Help:      "Total number of tokens minted into response cookies",
			},
			[]string{"reason"},
		),
		RenewalDropped: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renewals_dropped_total",
				Help:      "Renewals skipped because the response was already committed or the request was cancelled",
			},
		),
	}
}

func (m *Metrics) observe(s State) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(s.String()).Inc()
}

func (m *Metrics) issued(reason string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(reason).Inc()
}

func (m *Metrics) dropped() {
	if m == nil {
		return
	}
	m.RenewalDropped.Inc()
}

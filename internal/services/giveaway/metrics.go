package giveaway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeFinalized = "finalized"
	outcomeLostRace  = "lost_race"
	outcomeError     = "error"
)

type metrics struct {
	finalize *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	return &metrics{
		finalize: promauto.With(registerer).NewCounterVec(prometheus.CounterOpts{
			Name: "giveaway_finalize_total",
			Help: "Finalize attempts by source and outcome",
		}, []string{"source", "outcome"}),
	}
}

func (m *metrics) observe(source FinalizeSource, outcome string) {
	m.finalize.WithLabelValues(string(source), outcome).Inc()
}

package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	pending  prometheus.Gauge
	fires    prometheus.Counter
	sweeps   prometheus.Counter
	failures prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)

	return &metrics{
		pending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "giveaway_scheduler_pending",
			Help: "Giveaways with an armed expiry timer",
		}),
		fires: factory.NewCounter(prometheus.CounterOpts{
			Name: "giveaway_scheduler_fires_total",
			Help: "Expiry timers that fired",
		}),
		sweeps: factory.NewCounter(prometheus.CounterOpts{
			Name: "giveaway_scheduler_sweeps_total",
			Help: "Completed reconciliation sweeps",
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "giveaway_scheduler_failures_total",
			Help: "Finalize attempts or sweeps that failed or panicked",
		}),
	}
}

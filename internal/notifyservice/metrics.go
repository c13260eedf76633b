package notifyservice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewRelayMetrics registers the relay counters with reg, or with the default registerer when reg is nil.
func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &RelayMetrics{
		Dispatched: f.NewCounter(prometheus.CounterOpts{
			Namespace: "blogfeed",
			Subsystem: "outbox",
			Name:      "dispatched_total",
			Help:      "New post events handed to the broker.",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "blogfeed",
			Subsystem: "outbox",
			Name:      "failed_attempts_total",
			Help:      "Dispatch attempts that returned an error.",
		}),
		Skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "blogfeed",
			Subsystem: "outbox",
			Name:      "skipped_total",
			Help:      "New post events closed without publishing because the blog has no subscribers.",
		}),
	}
}

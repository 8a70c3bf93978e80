// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authority

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the resolution counters of one Authority.
type Metrics struct {
	resolutions    prometheus.Counter
	silent         prometheus.Counter
	feederFailures *prometheus.CounterVec
	suggestions    *prometheus.CounterVec
	signals        prometheus.Histogram
}

// NewMetrics creates the resolution metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		resolutions: f.NewCounter(prometheus.CounterOpts{
			Namespace: "supplier_resolver",
			Name:      "resolutions_total",
			Help:      "Total number of supplier name resolutions",
		}),
		silent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "supplier_resolver",
			Name:      "silent_resolutions_total",
			Help:      "Resolutions where no feeder produced any signal",
		}),
		feederFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplier_resolver",
			Name:      "feeder_failures_total",
			Help:      "Feeder failures by feeder name",
		}, []string{"feeder"}),
		suggestions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplier_resolver",
			Name:      "suggestions_total",
			Help:      "Suggestions returned by level",
		}, []string{"level"}),
		signals: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "supplier_resolver",
			Name:      "signals_per_resolution",
			Help:      "Number of signals gathered per resolution",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
	}
}

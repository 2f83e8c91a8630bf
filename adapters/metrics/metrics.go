// Package metrics provides Prometheus metrics collection for digigate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for digigate.
type Collector struct {
	// Transaction metrics
	TrxTotal    *prometheus.CounterVec
	TrxDuration *prometheus.HistogramVec

	// Authorization metrics
	AuthFailures *prometheus.CounterVec

	// Record store metrics
	StoreReloads      *prometheus.CounterVec
	StoreReloadErrors *prometheus.CounterVec
	StoreRecords      *prometheus.GaugeVec

	// Upstream metrics
	UpstreamDuration *prometheus.HistogramVec
	UpstreamErrors   *prometheus.CounterVec
}

// New creates a collector registered against the default registry.
func New() *Collector {
	return newCollector(promauto.With(prometheus.DefaultRegisterer))
}

// NewWithRegistry creates a collector registered against a custom registry.
// Tests use this to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	return newCollector(promauto.With(reg))
}

func newCollector(factory promauto.Factory) *Collector {
	return &Collector{
		TrxTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digigate",
				Name:      "transactions_total",
				Help:      "Total number of transactions processed",
			},
			[]string{"provider", "outcome"},
		),
		TrxDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "digigate",
				Name:      "transaction_duration_seconds",
				Help:      "Transaction handling duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digigate",
				Name:      "auth_failures_total",
				Help:      "Authorization rejections by stage and code",
			},
			[]string{"stage", "code"},
		),
		StoreReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digigate",
				Name:      "store_reloads_total",
				Help:      "Successful record store reloads",
			},
			[]string{"store"},
		),
		StoreReloadErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digigate",
				Name:      "store_reload_errors_total",
				Help:      "Failed record store reloads",
			},
			[]string{"store"},
		),
		StoreRecords: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "digigate",
				Name:      "store_records",
				Help:      "Committed records per store",
			},
			[]string{"store"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "digigate",
				Name:      "upstream_duration_seconds",
				Help:      "Upstream provider call duration in seconds",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digigate",
				Name:      "upstream_errors_total",
				Help:      "Upstream provider call failures",
			},
			[]string{"provider"},
		),
	}
}

// ObserveStoreReload records a reload attempt outcome for a store.
func (c *Collector) ObserveStoreReload(store string, ok bool, count int) {
	if ok {
		c.StoreReloads.WithLabelValues(store).Inc()
	} else {
		c.StoreReloadErrors.WithLabelValues(store).Inc()
	}
	c.StoreRecords.WithLabelValues(store).Set(float64(count))
}

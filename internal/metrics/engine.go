package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntitlementDecisions counts access decisions by reason.
	EntitlementDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_decisions_total",
			Help: "Total number of entitlement decisions by reason",
		},
		[]string{"reason"},
	)

	// StoreFallbacks counts renders served from demo content because the
	// tenant store was slow or unavailable.
	StoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_fallbacks_total",
		Help: "Total number of tenant loads that fell back to demo content",
	})

	// CacheLookups counts tenant cache lookups by result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_cache_lookups_total",
			Help: "Total number of tenant cache lookups by result",
		},
		[]string{"result"},
	)

	// LiveSubscribers tracks open live-preview connections.
	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "live_subscribers",
		Help: "Number of open live content connections",
	})
)

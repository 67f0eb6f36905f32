package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "livetrack"

var (
	// SnapshotFetches counts market snapshot fetches by result (success, failure, stale).
	SnapshotFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_fetches_total",
			Help:      "Market snapshot fetches by result.",
		},
		[]string{"result"},
	)

	// SnapshotFetchDuration observes the latency of a full snapshot refresh.
	SnapshotFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_fetch_duration_seconds",
			Help:      "Duration of market snapshot refreshes.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// Recomputations counts valuation recomputations by trigger.
	Recomputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputations_total",
			Help:      "Portfolio valuation recomputations by trigger.",
		},
		[]string{"trigger"},
	)

	// PortfolioValue is the latest total value in the active currency.
	PortfolioValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "portfolio_total_value",
			Help:      "Latest portfolio total value.",
		},
		[]string{"currency"},
	)

	// MemeCache counts meme feed cache lookups by outcome (hit, miss).
	MemeCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meme_cache_total",
			Help:      "Meme feed cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	// RateLimited counts requests rejected by the per-IP limiter.
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-IP rate limiter.",
		},
		[]string{"route"},
	)
)

var registerOnce sync.Once

// MustRegisterMetrics registers all collectors with the default registry.
// Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SnapshotFetches,
			SnapshotFetchDuration,
			Recomputations,
			PortfolioValue,
			MemeCache,
			RateLimited,
		)
	})
}

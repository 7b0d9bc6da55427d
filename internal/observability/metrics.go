package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	syncFetchesTotal        *prometheus.CounterVec
	syncLatencySeconds      *prometheus.HistogramVec
	syncStaleDropsTotal     *prometheus.CounterVec
	identityTimeoutsTotal   *prometheus.CounterVec
	dashboardRequestsTotal  *prometheus.CounterVec
	dashboardLatencySeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the sync layer
// and the dashboard HTTP surface.
func RegisterMetrics() {
	registerOnce.Do(func() {
		syncFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_fetches_total",
			Help: "Total number of fetch cycles per resource and outcome.",
		}, []string{"resource", "outcome"})

		syncLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sync_fetch_latency_seconds",
			Help:    "Latency distribution of upstream fetch cycles.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"resource"})

		syncStaleDropsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_stale_responses_total",
			Help: "Responses discarded because a newer fetch superseded them.",
		}, []string{"resource"})

		identityTimeoutsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_identity_timeouts_total",
			Help: "Synchronizers that gave up waiting for a valid identity.",
		}, []string{"resource"})

		dashboardRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Total number of dashboard API requests served.",
		}, []string{"method", "route", "status"})

		dashboardLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_latency_seconds",
			Help:    "Latency distribution for dashboard API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(
			syncFetchesTotal,
			syncLatencySeconds,
			syncStaleDropsTotal,
			identityTimeoutsTotal,
			dashboardRequestsTotal,
			dashboardLatencySeconds,
		)
	})
}

// SyncFetches exposes the per-resource fetch outcome counter.
func SyncFetches() *prometheus.CounterVec {
	RegisterMetrics()
	return syncFetchesTotal
}

// SyncLatency exposes the upstream fetch latency histogram.
func SyncLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return syncLatencySeconds
}

// SyncStaleDrops exposes the stale-response counter.
func SyncStaleDrops() *prometheus.CounterVec {
	RegisterMetrics()
	return syncStaleDropsTotal
}

// IdentityTimeouts exposes the identity deadline counter.
func IdentityTimeouts() *prometheus.CounterVec {
	RegisterMetrics()
	return identityTimeoutsTotal
}

// DashboardRequests exposes the counter for dashboard requests.
func DashboardRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardRequestsTotal
}

// DashboardLatency exposes the latency histogram for dashboard requests.
func DashboardLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return dashboardLatencySeconds
}

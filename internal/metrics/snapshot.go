package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog snapshot Prometheus metrics.
var (
	SnapshotVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_version",
			Help:      "Version of the catalog snapshot currently served",
		},
	)

	SnapshotCandidates = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_candidates",
			Help:      "Searchable products in the current snapshot",
		},
	)

	SnapshotSkippedCandidates = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_skipped_candidates",
			Help:      "Malformed or duplicate products skipped while building the current snapshot",
		},
	)

	SnapshotRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_refresh_total",
			Help:      "Catalog snapshot refresh attempts",
		},
		[]string{"status"}, // "ok" / "error"
	)
)

var snapshotMetricsRegistered bool

// RegisterSnapshotMetrics registers Prometheus snapshot metrics. Must be called once from main.
func RegisterSnapshotMetrics() {
	if snapshotMetricsRegistered {
		return
	}
	prometheus.MustRegister(SnapshotVersion)
	prometheus.MustRegister(SnapshotCandidates)
	prometheus.MustRegister(SnapshotSkippedCandidates)
	prometheus.MustRegister(SnapshotRefreshTotal)
	snapshotMetricsRegistered = true
}

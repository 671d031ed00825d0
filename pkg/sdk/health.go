package catalogsearch

import (
	"context"
	"time"
)

// HealthStatus represents the aggregated engine health.
type HealthStatus struct {
	Status          string            // "ok", "degraded", "error"
	Checks          map[string]string // component → "ok"/"stale"/"error"
	SnapshotVersion uint64
	SnapshotAge     time.Duration
}

// Health checks the catalog database, the cache and the served snapshot.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:          string(report.Status),
		Checks:          checks,
		SnapshotVersion: report.SnapshotVersion,
		SnapshotAge:     report.SnapshotAge,
	}
}

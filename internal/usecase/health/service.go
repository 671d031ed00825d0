package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; searches are still served.
	Degraded Status = "degraded"
	// Unhealthy indicates no snapshot is available to search.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckStale indicates the snapshot is older than the allowed age.
	CheckStale CheckResult = "stale"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status          Status
	Checks          map[string]CheckResult
	SnapshotVersion uint64
	SnapshotAge     time.Duration
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	cache     CachePinger
	snapshots SnapshotSource
	maxAge    time.Duration
}

// New creates a Service. cache can be nil; a non-positive maxAge disables the staleness check.
func New(db DBPinger, cache CachePinger, snapshots SnapshotSource, maxAge time.Duration) *Service {
	return &Service{db: db, cache: cache, snapshots: snapshots, maxAge: maxAge}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Checks: make(map[string]CheckResult)}

	if err := s.db.Ping(ctx); err != nil {
		r.Checks["database"] = CheckError
	} else {
		r.Checks["database"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			r.Checks["cache"] = CheckError
		} else {
			r.Checks["cache"] = CheckOK
		}
	}

	snap, err := s.snapshots.Current(ctx)
	switch {
	case err != nil:
		r.Checks["snapshot"] = CheckError
	default:
		r.SnapshotVersion = snap.Version()
		r.SnapshotAge = time.Since(snap.BuiltAt())
		if s.maxAge > 0 && r.SnapshotAge > s.maxAge {
			r.Checks["snapshot"] = CheckStale
		} else {
			r.Checks["snapshot"] = CheckOK
		}
	}

	r.Status = Healthy
	for _, v := range r.Checks {
		if v != CheckOK {
			r.Status = Degraded
			break
		}
	}
	if r.Checks["snapshot"] == CheckError {
		r.Status = Unhealthy
	}
	return r
}

// Package catalog keeps the served catalog snapshot current.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// Refresher periodically rebuilds the snapshot from the loader.
// A failed refresh keeps the previous snapshot.
type Refresher struct {
	loader      Loader
	holder      *Holder
	interval    time.Duration
	loadTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time

	mu sync.Mutex
}

// NewRefresher creates a Refresher. A non-positive interval disables periodic refresh.
func NewRefresher(loader Loader, holder *Holder, interval, loadTimeout time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{
		loader:      loader,
		holder:      holder,
		interval:    interval,
		loadTimeout: loadTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Refresh loads the catalog and publishes it as the next snapshot version.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	if r.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.loadTimeout)
		defer cancel()
	}

	src, err := r.loader.Load(ctx)
	if err != nil {
		metrics.SnapshotRefreshTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("load catalog: %w", err)
	}

	snap := catalog.NewSnapshot(r.nextVersion(), src.Candidates, src.Dictionary)
	r.holder.Swap(snap)

	metrics.SnapshotRefreshTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotVersion.Set(float64(snap.Version()))
	metrics.SnapshotCandidates.Set(float64(snap.Len()))
	metrics.SnapshotSkippedCandidates.Set(float64(snap.Skipped()))

	fields := []zap.Field{
		zap.Uint64("version", snap.Version()),
		zap.Int("candidates", snap.Len()),
		zap.Int("skipped", snap.Skipped()),
		zap.Strings("languages", snap.Languages()),
		zap.Duration("duration", time.Since(start)),
	}
	if snap.Skipped() > 0 {
		r.logger.Warn("Snapshot refreshed with skipped products", fields...)
	} else {
		r.logger.Info("Snapshot refreshed", fields...)
	}
	return nil
}

// nextVersion returns the load time in nanoseconds, bumped past the served version.
// Versions key the shared outcome cache, so they must not repeat across restarts or replicas.
func (r *Refresher) nextVersion() uint64 {
	v := uint64(max(r.now().UnixNano(), 0))
	return max(v, r.holder.Version()+1)
}

// Run refreshes once, then on every interval until ctx is done.
// Failures are logged; the next tick retries.
func (r *Refresher) Run(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		r.logger.Error("Initial snapshot load failed", zap.Error(err))
	}
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Error("Snapshot refresh failed",
					zap.Uint64("served_version", r.holder.Version()),
					zap.Error(err),
				)
			}
		}
	}
}

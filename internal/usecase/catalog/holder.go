package catalog

import (
	"context"
	"sync/atomic"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// Holder publishes the snapshot currently served. Readers never block writers.
type Holder struct {
	current atomic.Pointer[catalog.Snapshot]
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the served snapshot, or domain.ErrSnapshotUnavailable before the first load.
func (h *Holder) Current(_ context.Context) (*catalog.Snapshot, error) {
	s := h.current.Load()
	if s == nil {
		return nil, domain.ErrSnapshotUnavailable
	}
	return s, nil
}

// Swap publishes a new snapshot and returns the previous one.
func (h *Holder) Swap(s *catalog.Snapshot) *catalog.Snapshot {
	return h.current.Swap(s)
}

// Version returns the served snapshot version, 0 when none is loaded.
func (h *Holder) Version() uint64 {
	if s := h.current.Load(); s != nil {
		return s.Version()
	}
	return 0
}

package search

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// SnapshotProvider exposes the catalog snapshot currently served.
type SnapshotProvider interface {
	Current(ctx context.Context) (*catalog.Snapshot, error)
}

// Hydrator turns ranked ids into display projections. Missing ids are omitted from the result.
type Hydrator interface {
	Hydrate(ctx context.Context, ids []int64, lang string) ([]catalog.ProductView, error)
}

// OutcomeCache stores pre-hydration outcomes per snapshot version and request fingerprint.
// Implementations treat storage errors as misses.
type OutcomeCache interface {
	Get(ctx context.Context, version uint64, fingerprint string) (result.Outcome, bool)
	Put(ctx context.Context, version uint64, fingerprint string, o result.Outcome)
}

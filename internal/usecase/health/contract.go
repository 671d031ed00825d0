package health

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// DBPinger checks catalog database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks outcome cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// SnapshotSource exposes the served catalog snapshot.
type SnapshotSource interface {
	Current(ctx context.Context) (*catalog.Snapshot, error)
}

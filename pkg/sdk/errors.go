package catalogsearch

import "github.com/kailas-cloud/catalogsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery        = domain.ErrInvalidQuery
	ErrSearchTimeout       = domain.ErrSearchTimeout
	ErrSnapshotUnavailable = domain.ErrSnapshotUnavailable
)

package catalog

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// Loader reads the full catalog from the system of record.
type Loader interface {
	Load(ctx context.Context) (catalog.Source, error)
}

// Package catalog reads the product catalog from PostgreSQL.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// querier is the consumer interface for the catalog database (ISP).
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Repo implements usecase/catalog.Loader and usecase/search.Hydrator.
type Repo struct {
	db querier
}

// New creates a catalog repository.
func New(q querier) *Repo {
	return &Repo{db: q}
}

// query runs a statement and hands every row to scan. Rows are closed on return.
func (r *Repo) query(ctx context.Context, what, stmt string, scan func(*sql.Rows) error, args ...any) error {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", what, &db.Error{Op: db.OpQuery, Err: err})
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", what, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", what, &db.Error{Op: db.OpQuery, Err: err})
	}
	return nil
}

package catalog

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var testCreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var productColumns = []string{
	"id", "model", "reference_number", "barcode", "manufacturer_id", "price", "status",
	"active", "on_sale", "featured", "in_stock", "flags", "warranty_months", "weight_kg",
	"created_at", "popularity", "category_ids",
}

var viewColumns = []string{
	"id", "name", "description", "model", "reference_number", "barcode", "price", "status",
	"on_sale", "featured", "in_stock", "images", "manufacturer", "category_names",
}

func newTestRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return New(conn), mock
}

// expectDictionary registers the three dictionary queries with a single row each.
func expectDictionary(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Storage").AddRow(9, "Accessories"))
	mock.ExpectQuery(`FROM manufacturers`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Samsung"))
	mock.ExpectQuery(`FROM parameters`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Capacity"))
}

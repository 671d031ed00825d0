package catalog

import (
	"database/sql"
	"strings"
	"time"

	domcat "github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// productRow is one row of the products query.
type productRow struct {
	ID             int64
	Model          string
	Reference      string
	Barcode        string
	ManufacturerID int64
	Price          float64
	Status         string
	Active         bool
	OnSale         bool
	Featured       bool
	InStock        bool
	Flags          []string
	CategoryIDs    []int64
	Warranty       *float64
	Weight         *float64
	CreatedAt      time.Time
	Popularity     int64
}

func (r productRow) toSpec() *domcat.Spec {
	return &domcat.Spec{
		ID:             r.ID,
		Names:          make(map[string]string),
		Descriptions:   make(map[string]string),
		Model:          r.Model,
		Reference:      r.Reference,
		Barcode:        r.Barcode,
		CategoryIDs:    r.CategoryIDs,
		ManufacturerID: r.ManufacturerID,
		Price:          r.Price,
		Status:         r.Status,
		Active:         r.Active,
		OnSale:         r.OnSale,
		Featured:       r.Featured,
		InStock:        r.InStock,
		Flags:          r.Flags,
		Warranty:       r.Warranty,
		Weight:         r.Weight,
		CreatedAt:      r.CreatedAt,
		Popularity:     r.Popularity,
	}
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func normalizeStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	domcat "github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

const hydrateQuery = `SELECT p.id, COALESCE(t.name, d.name, ''), COALESCE(t.description, d.description, ''),
	COALESCE(p.model, ''), COALESCE(p.reference_number, ''), COALESCE(p.barcode, ''),
	p.price, COALESCE(p.status, ''), p.on_sale, p.featured, p.in_stock, p.images, COALESCE(m.name, ''),
	ARRAY(SELECT c.name FROM product_categories pc JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = p.id ORDER BY c.name)
FROM products p
LEFT JOIN product_translations t ON t.product_id = p.id AND t.language = $2
LEFT JOIN product_translations d ON d.product_id = p.id AND d.language = $3
LEFT JOIN manufacturers m ON m.id = p.manufacturer_id
WHERE p.id = ANY($1)`

// Hydrate loads display projections for ids in lang, falling back to the default language.
// Views come back in ids order; ids missing from the database are omitted.
func (r *Repo) Hydrate(ctx context.Context, ids []int64, lang string) ([]domcat.ProductView, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	byID := make(map[int64]domcat.ProductView, len(ids))
	err := r.query(ctx, "product views", hydrateQuery, func(rows *sql.Rows) error {
		var (
			v      domcat.ProductView
			images pq.StringArray
			cats   pq.StringArray
		)
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Description,
			&v.Model, &v.Reference, &v.Barcode,
			&v.Price, &v.Status, &v.OnSale, &v.Featured, &v.InStock, &images, &v.ManufacturerName,
			&cats,
		); err != nil {
			return err
		}
		v.Status = normalizeStatus(v.Status)
		v.Images = images
		v.CategoryNames = cats
		byID[v.ID] = v
		return nil
	}, pq.Array(ids), lang, domcat.DefaultLanguage)
	if err != nil {
		return nil, err
	}

	views := make([]domcat.ProductView, 0, len(byID))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			views = append(views, v)
		}
	}
	return views, nil
}

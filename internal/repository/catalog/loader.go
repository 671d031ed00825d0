package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	domcat "github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

const (
	productsQuery = `SELECT p.id, COALESCE(p.model, ''), COALESCE(p.reference_number, ''), COALESCE(p.barcode, ''),
	COALESCE(p.manufacturer_id, 0), p.price, COALESCE(p.status, ''), p.active, p.on_sale, p.featured, p.in_stock,
	p.flags, p.warranty_months, p.weight_kg, p.created_at, COALESCE(p.popularity, 0),
	ARRAY(SELECT pc.category_id FROM product_categories pc WHERE pc.product_id = p.id ORDER BY pc.category_id)
FROM products p ORDER BY p.id`

	translationsQuery = `SELECT product_id, language, name, COALESCE(description, '')
FROM product_translations`

	paramsQuery = `SELECT product_id, parameter_id, COALESCE(option_id, 0), COALESCE(value, '')
FROM product_parameters ORDER BY product_id, parameter_id`

	categoriesQuery    = `SELECT id, name FROM categories`
	manufacturersQuery = `SELECT id, name FROM manufacturers`
	parametersQuery    = `SELECT id, name FROM parameters`
)

// Load reads every product with its translations and parameters, plus the facet dictionary.
// Candidates are returned unvalidated; the snapshot builder skips malformed rows.
func (r *Repo) Load(ctx context.Context) (domcat.Source, error) {
	specs, order, err := r.loadProducts(ctx)
	if err != nil {
		return domcat.Source{}, err
	}
	if err := r.loadTranslations(ctx, specs); err != nil {
		return domcat.Source{}, err
	}
	if err := r.loadParams(ctx, specs); err != nil {
		return domcat.Source{}, err
	}
	dict, err := r.loadDictionary(ctx)
	if err != nil {
		return domcat.Source{}, err
	}

	candidates := make([]domcat.Candidate, 0, len(order))
	for _, id := range order {
		candidates = append(candidates, domcat.ReconstructCandidate(*specs[id]))
	}
	return domcat.Source{Candidates: candidates, Dictionary: dict}, nil
}

func (r *Repo) loadProducts(ctx context.Context) (map[int64]*domcat.Spec, []int64, error) {
	specs := make(map[int64]*domcat.Spec)
	var order []int64
	err := r.query(ctx, "products", productsQuery, func(rows *sql.Rows) error {
		var (
			row      productRow
			flags    pq.StringArray
			cats     pq.Int64Array
			warranty sql.NullFloat64
			weight   sql.NullFloat64
		)
		if err := rows.Scan(
			&row.ID, &row.Model, &row.Reference, &row.Barcode,
			&row.ManufacturerID, &row.Price, &row.Status, &row.Active, &row.OnSale, &row.Featured, &row.InStock,
			&flags, &warranty, &weight, &row.CreatedAt, &row.Popularity,
			&cats,
		); err != nil {
			return err
		}
		row.Flags = flags
		row.CategoryIDs = cats
		row.Warranty = nullFloat(warranty)
		row.Weight = nullFloat(weight)

		if _, dup := specs[row.ID]; !dup {
			order = append(order, row.ID)
		}
		specs[row.ID] = row.toSpec()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return specs, order, nil
}

func (r *Repo) loadTranslations(ctx context.Context, specs map[int64]*domcat.Spec) error {
	return r.query(ctx, "translations", translationsQuery, func(rows *sql.Rows) error {
		var (
			id                      int64
			lang, name, description string
		)
		if err := rows.Scan(&id, &lang, &name, &description); err != nil {
			return err
		}
		s, ok := specs[id]
		if !ok {
			return nil
		}
		s.Names[lang] = name
		if description != "" {
			s.Descriptions[lang] = description
		}
		return nil
	})
}

func (r *Repo) loadParams(ctx context.Context, specs map[int64]*domcat.Spec) error {
	return r.query(ctx, "parameters", paramsQuery, func(rows *sql.Rows) error {
		var (
			id int64
			p  domcat.ParamOption
		)
		if err := rows.Scan(&id, &p.ParameterID, &p.OptionID, &p.Value); err != nil {
			return err
		}
		if s, ok := specs[id]; ok {
			s.Params = append(s.Params, p)
		}
		return nil
	})
}

func (r *Repo) loadDictionary(ctx context.Context) (domcat.Dictionary, error) {
	dict := domcat.Dictionary{
		Categories:    make(map[int64]string),
		Manufacturers: make(map[int64]string),
		Parameters:    make(map[int64]string),
	}
	tables := []struct {
		what  string
		query string
		into  map[int64]string
	}{
		{"categories", categoriesQuery, dict.Categories},
		{"manufacturers", manufacturersQuery, dict.Manufacturers},
		{"parameter names", parametersQuery, dict.Parameters},
	}
	for _, tbl := range tables {
		into := tbl.into
		err := r.query(ctx, tbl.what, tbl.query, func(rows *sql.Rows) error {
			var (
				id   int64
				name string
			)
			if err := rows.Scan(&id, &name); err != nil {
				return err
			}
			into[id] = name
			return nil
		})
		if err != nil {
			return domcat.Dictionary{}, err
		}
	}
	return dict, nil
}

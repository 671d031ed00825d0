package catalogsearch

import (
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// Product is the display projection of a matched product.
// Only ID is set when the catalog row vanished between ranking and hydration.
type Product struct {
	ID               int64
	Name             string
	Description      string
	Model            string
	ReferenceNumber  string
	Barcode          string
	Price            float64
	Status           string
	OnSale           bool
	Featured         bool
	InStock          bool
	Images           []string
	CategoryNames    []string
	ManufacturerName string
}

// Hit is a ranked product.
type Hit struct {
	Product
	Score         float64
	MatchedFields []string
}

// Page describes the returned window of the result list.
type Page struct {
	Number      int
	Size        int
	Total       int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// FacetValue is one value of a facet dimension with its match count.
type FacetValue struct {
	Value    string
	Label    string
	Count    int
	Selected bool
}

// PriceRange is a price facet bucket. Max is nil for the open-ended top bucket.
type PriceRange struct {
	Min      float64
	Max      *float64
	Label    string
	Count    int
	Selected bool
}

// ParameterFacet holds the option counts of one product parameter.
type ParameterFacet struct {
	ParameterID int64
	Name        string
	Options     []FacetValue
}

// Facets holds the counts per dimension over the filtered result set.
type Facets struct {
	Categories    []FacetValue
	Manufacturers []FacetValue
	Parameters    []ParameterFacet
	PriceRanges   []PriceRange
	Statuses      []FacetValue
}

// Suggestion is a query completion or correction.
type Suggestion struct {
	Text string
	Kind string // "product", "model", "manufacturer" or "category"
}

// Result is the outcome of a search.
type Result struct {
	Hits           []Hit
	Page           Page
	Facets         *Facets // nil unless requested
	Suggestions    []Suggestion
	OriginalQuery  string
	ProcessedQuery string
	// CorrectedQuery is set when the results were produced by a spelling-corrected query.
	CorrectedQuery  string
	SearchedFields  []string
	AppliedFilters  map[string]any
	MaxScore        float64
	Elapsed         time.Duration
	SnapshotVersion uint64
}

func convertOutcome(o *result.Outcome) *Result {
	r := &Result{
		Hits: make([]Hit, 0, len(o.Hits)),
		Page: Page{
			Number:      o.Page.Page,
			Size:        o.Page.Size,
			Total:       o.Page.TotalElements,
			TotalPages:  o.Page.TotalPages,
			HasNext:     o.Page.HasNext,
			HasPrevious: o.Page.HasPrevious,
		},
		Suggestions:     convertSuggestions(o.Suggestions),
		OriginalQuery:   o.OriginalQuery,
		ProcessedQuery:  o.ProcessedQuery,
		CorrectedQuery:  o.CorrectedQuery,
		SearchedFields:  fieldNames(o.SearchedFields),
		AppliedFilters:  o.AppliedFilters,
		MaxScore:        o.MaxScore,
		Elapsed:         o.Elapsed,
		SnapshotVersion: o.SnapshotVersion,
	}
	for _, h := range o.Hits {
		hit := Hit{Product: Product{ID: h.ID}, Score: h.Score, MatchedFields: fieldNames(h.Matched)}
		if h.View != nil {
			hit.Product = convertView(h.View)
		}
		r.Hits = append(r.Hits, hit)
	}
	if o.Facets != nil {
		r.Facets = convertFacets(o.Facets)
	}
	return r
}

func convertView(v *catalog.ProductView) Product {
	return Product{
		ID:               v.ID,
		Name:             v.Name,
		Description:      v.Description,
		Model:            v.Model,
		ReferenceNumber:  v.Reference,
		Barcode:          v.Barcode,
		Price:            v.Price,
		Status:           v.Status,
		OnSale:           v.OnSale,
		Featured:         v.Featured,
		InStock:          v.InStock,
		Images:           v.Images,
		CategoryNames:    v.CategoryNames,
		ManufacturerName: v.ManufacturerName,
	}
}

func convertFacets(f *result.Facets) *Facets {
	out := &Facets{
		Categories:    convertBuckets(f.Categories),
		Manufacturers: convertBuckets(f.Manufacturers),
		Statuses:      convertBuckets(f.Statuses),
	}
	for _, p := range f.Parameters {
		out.Parameters = append(out.Parameters, ParameterFacet{
			ParameterID: p.ParameterID,
			Name:        p.Name,
			Options:     convertBuckets(p.Options),
		})
	}
	for _, b := range f.PriceRanges {
		out.PriceRanges = append(out.PriceRanges, PriceRange{
			Min: b.Min, Max: b.Max, Label: b.Label, Count: b.Count, Selected: b.Selected,
		})
	}
	return out
}

func convertBuckets(bs []result.Bucket) []FacetValue {
	if len(bs) == 0 {
		return nil
	}
	out := make([]FacetValue, len(bs))
	for i, b := range bs {
		out[i] = FacetValue{Value: b.Value, Label: b.Label, Count: b.Count, Selected: b.Selected}
	}
	return out
}

func convertSuggestions(ss []result.Suggestion) []Suggestion {
	if len(ss) == 0 {
		return nil
	}
	out := make([]Suggestion, len(ss))
	for i, s := range ss {
		out[i] = Suggestion{Text: s.Text, Kind: string(s.Kind)}
	}
	return out
}

func fieldNames(fs []catalog.Field) []string {
	if len(fs) == 0 {
		return nil
	}
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

package chi

import (
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// searchParamsFromBody maps the POST body onto request parameters.
// The active flag is accepted for compatibility; only includeInactive lifts the active-only filter.
func searchParamsFromBody(b *SearchRequest) (request.Params, error) {
	m, ok := mode.Parse(b.SearchMode)
	if !ok {
		return request.Params{}, domain.NewInvalidQuery("searchMode", "unknown search mode %q", b.SearchMode)
	}

	fields := make([]catalog.Field, 0, len(b.SearchFields))
	for _, name := range b.SearchFields {
		f, ok := catalog.ParseField(name)
		if !ok {
			return request.Params{}, domain.NewInvalidQuery("searchFields", "unknown field %q", name)
		}
		fields = append(fields, f)
	}

	price, err := filter.NewRange("Price", b.MinPrice, b.MaxPrice)
	if err != nil {
		return request.Params{}, err
	}
	warranty, err := filter.NewRange("Warranty", b.MinWarranty, b.MaxWarranty)
	if err != nil {
		return request.Params{}, err
	}
	weight, err := filter.NewRange("Weight", b.MinWeight, b.MaxWeight)
	if err != nil {
		return request.Params{}, err
	}

	params := make([]filter.ParameterFilter, 0, len(b.ParameterFilters))
	for _, pf := range b.ParameterFilters {
		op, ok := filter.ParseOperator(pf.Operator)
		if !ok {
			return request.Params{}, domain.NewInvalidQuery("parameterFilters", "unknown operator %q", pf.Operator)
		}
		p, err := filter.NewParameterFilter(pf.ParameterID, pf.ParameterName, pf.OptionIDs, pf.Values, op)
		if err != nil {
			return request.Params{}, err
		}
		params = append(params, p)
	}

	if b.TimeoutMs < 0 {
		return request.Params{}, domain.NewInvalidQuery("timeoutMs", "must not be negative")
	}

	return request.Params{
		Query:    b.Query,
		Language: b.Language,
		FieldMatches: request.FieldMatches{
			Name:        b.Name,
			Description: b.Description,
			Reference:   b.ReferenceNumber,
			Model:       b.Model,
			Barcode:     b.Barcode,
		},
		Fields: fields,
		Criteria: filter.Criteria{
			CategoryIDs:     b.CategoryIDs,
			ManufacturerIDs: b.ManufacturerIDs,
			Statuses:        b.Statuses,
			FlagNames:       b.Flags,
			Price:           price,
			Warranty:        warranty,
			Weight:          weight,
			OnSale:          b.OnSale,
			Featured:        b.Featured,
			InStock:         b.InStock,
			IncludeInactive: b.IncludeInactive,
			Parameters:      params,
		},
		Mode:          m,
		ExactMatch:    b.ExactMatch,
		FuzzySearch:   b.FuzzySearch,
		SortBy:        b.SortBy,
		SortDirection: b.SortDirection,
		Page:          b.Page,
		Size:          b.Size,
		Faceted:       b.FacetedSearch,
		Timeout:       time.Duration(b.TimeoutMs) * time.Millisecond,
	}, nil
}

// bodyFromQuery lifts the query-string variant into the POST body shape.
func bodyFromQuery(p SearchProductsByQueryParams) SearchRequest {
	b := SearchRequest{
		MinPrice: p.MinPrice,
		MaxPrice: p.MaxPrice,
	}
	if p.Q != nil {
		b.Query = *p.Q
	}
	if p.Page != nil {
		b.Page = *p.Page
	}
	if p.Size != nil {
		b.Size = *p.Size
	}
	if p.SortBy != nil {
		b.SortBy = *p.SortBy
	}
	if p.SortDirection != nil {
		b.SortDirection = *p.SortDirection
	}
	if p.SearchMode != nil {
		b.SearchMode = *p.SearchMode
	}
	if p.CategoryIds != nil {
		b.CategoryIDs = *p.CategoryIds
	}
	if p.ManufacturerIds != nil {
		b.ManufacturerIDs = *p.ManufacturerIds
	}
	if p.Statuses != nil {
		b.Statuses = *p.Statuses
	}
	if p.Language != nil {
		b.Language = *p.Language
	}
	if p.FacetedSearch != nil {
		b.FacetedSearch = *p.FacetedSearch
	}
	return b
}

func outcomeToResponse(o *result.Outcome) SearchResponse {
	products := make([]Product, 0, len(o.Hits))
	for _, h := range o.Hits {
		p := Product{Score: h.Score, MatchedFields: fieldNames(h.Matched)}
		if h.View != nil {
			p.ProductView = *h.View
		} else {
			p.ID = h.ID
		}
		products = append(products, p)
	}

	applied := o.AppliedFilters
	if applied == nil {
		applied = map[string]any{}
	}

	resp := SearchResponse{
		Products: products,
		Pagination: Pagination{
			CurrentPage:   o.Page.Page,
			PageSize:      o.Page.Size,
			TotalElements: o.Page.TotalElements,
			TotalPages:    o.Page.TotalPages,
			HasNext:       o.Page.HasNext,
			HasPrevious:   o.Page.HasPrevious,
		},
		Stats: Stats{
			TotalFound:     o.Total,
			SearchTimeMs:   o.Elapsed.Milliseconds(),
			MaxScore:       o.MaxScore,
			SearchQuery:    o.ProcessedQuery,
			SearchedFields: fieldNames(o.SearchedFields),
		},
		Suggestions: suggestionsToDTO(o.Suggestions),
		Metadata: Metadata{
			OriginalQuery:   o.OriginalQuery,
			ProcessedQuery:  o.ProcessedQuery,
			CorrectedQuery:  o.CorrectedQuery,
			AppliedFilters:  applied,
			SnapshotVersion: o.SnapshotVersion,
		},
	}
	if o.Facets != nil {
		resp.Facets = facetsToDTO(o.Facets)
	}
	return resp
}

func facetsToDTO(f *result.Facets) *Facets {
	out := &Facets{
		Categories:    bucketsToDTO(f.Categories),
		Manufacturers: bucketsToDTO(f.Manufacturers),
		Parameters:    make([]ParameterFacet, 0, len(f.Parameters)),
		PriceRanges:   make([]PriceRange, 0, len(f.PriceRanges)),
		Statuses:      bucketsToDTO(f.Statuses),
	}
	for _, p := range f.Parameters {
		out.Parameters = append(out.Parameters, ParameterFacet{
			ParameterID: p.ParameterID,
			Name:        p.Name,
			Options:     bucketsToDTO(p.Options),
		})
	}
	for _, b := range f.PriceRanges {
		out.PriceRanges = append(out.PriceRanges, PriceRange{
			Min:      b.Min,
			Max:      b.Max,
			Label:    b.Label,
			Count:    b.Count,
			Selected: b.Selected,
		})
	}
	return out
}

func bucketsToDTO(bs []result.Bucket) []FacetValue {
	out := make([]FacetValue, 0, len(bs))
	for _, b := range bs {
		out = append(out, FacetValue{Value: b.Value, Label: b.Label, Count: b.Count, Selected: b.Selected})
	}
	return out
}

func suggestionsToDTO(ss []result.Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(ss))
	for _, s := range ss {
		out = append(out, Suggestion{Text: s.Text, Kind: string(s.Kind)})
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

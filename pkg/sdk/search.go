package catalogsearch

import (
	"context"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
)

// SearchMode selects the text matching strategy.
type SearchMode = mode.Mode

// Search modes.
const (
	ModeAllFields      = mode.AllFields
	ModeSpecificFields = mode.SpecificFields
	ModeSmart          = mode.Smart
)

// Field is a searchable product field.
type Field = catalog.Field

// Searchable fields.
const (
	FieldName        = catalog.Name
	FieldDescription = catalog.Description
	FieldModel       = catalog.Model
	FieldReference   = catalog.Reference
	FieldBarcode     = catalog.Barcode
)

// SortKey orders results.
type SortKey = request.SortKey

// Sort keys.
const (
	SortRelevance  = request.SortRelevance
	SortPrice      = request.SortPrice
	SortName       = request.SortName
	SortCreatedAt  = request.SortCreatedAt
	SortPopularity = request.SortPopularity
)

// SearchBuilder is a fluent builder for search requests.
// The first invalid argument is reported by Do.
type SearchBuilder struct {
	client *Client
	p      request.Params

	minPrice, maxPrice *float64
	err                error
}

// Query sets the free-text query.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.p.Query = q
	return b
}

// Mode sets the matching strategy.
func (b *SearchBuilder) Mode(m SearchMode) *SearchBuilder {
	b.p.Mode = m
	return b
}

// Fields restricts ModeSpecificFields to the given fields.
func (b *SearchBuilder) Fields(fs ...Field) *SearchBuilder {
	b.p.Fields = append(b.p.Fields, fs...)
	return b
}

// Match sets an explicit input for a single field.
func (b *SearchBuilder) Match(f Field, text string) *SearchBuilder {
	switch f {
	case catalog.Name:
		b.p.FieldMatches.Name = text
	case catalog.Description:
		b.p.FieldMatches.Description = text
	case catalog.Model:
		b.p.FieldMatches.Model = text
	case catalog.Reference:
		b.p.FieldMatches.Reference = text
	case catalog.Barcode:
		b.p.FieldMatches.Barcode = text
	}
	return b
}

// Exact counts only full-field equality as a match.
func (b *SearchBuilder) Exact() *SearchBuilder {
	b.p.ExactMatch = true
	return b
}

// Fuzzy tolerates small spelling differences.
func (b *SearchBuilder) Fuzzy() *SearchBuilder {
	b.p.FuzzySearch = true
	return b
}

// Language selects the localized names and descriptions.
func (b *SearchBuilder) Language(lang string) *SearchBuilder {
	b.p.Language = lang
	return b
}

// Category keeps products in any of the given categories.
func (b *SearchBuilder) Category(ids ...int64) *SearchBuilder {
	b.p.Criteria.CategoryIDs = append(b.p.Criteria.CategoryIDs, ids...)
	return b
}

// Manufacturer keeps products of any of the given manufacturers.
func (b *SearchBuilder) Manufacturer(ids ...int64) *SearchBuilder {
	b.p.Criteria.ManufacturerIDs = append(b.p.Criteria.ManufacturerIDs, ids...)
	return b
}

// Status keeps products in any of the given statuses.
func (b *SearchBuilder) Status(statuses ...string) *SearchBuilder {
	b.p.Criteria.Statuses = append(b.p.Criteria.Statuses, statuses...)
	return b
}

// Flag keeps products carrying any of the given flags.
func (b *SearchBuilder) Flag(flags ...string) *SearchBuilder {
	b.p.Criteria.FlagNames = append(b.p.Criteria.FlagNames, flags...)
	return b
}

// Price keeps products priced within [lo, hi].
func (b *SearchBuilder) Price(lo, hi float64) *SearchBuilder {
	b.minPrice, b.maxPrice = &lo, &hi
	return b
}

// MinPrice keeps products priced at least lo.
func (b *SearchBuilder) MinPrice(lo float64) *SearchBuilder {
	b.minPrice = &lo
	return b
}

// MaxPrice keeps products priced at most hi.
func (b *SearchBuilder) MaxPrice(hi float64) *SearchBuilder {
	b.maxPrice = &hi
	return b
}

// OnSale filters on the sale flag.
func (b *SearchBuilder) OnSale(v bool) *SearchBuilder {
	b.p.Criteria.OnSale = &v
	return b
}

// Featured filters on the featured flag.
func (b *SearchBuilder) Featured(v bool) *SearchBuilder {
	b.p.Criteria.Featured = &v
	return b
}

// InStock filters on stock availability.
func (b *SearchBuilder) InStock(v bool) *SearchBuilder {
	b.p.Criteria.InStock = &v
	return b
}

// IncludeInactive also returns inactive products.
func (b *SearchBuilder) IncludeInactive() *SearchBuilder {
	b.p.Criteria.IncludeInactive = true
	return b
}

// AnyOption keeps products having at least one of the options of a parameter.
func (b *SearchBuilder) AnyOption(parameterID int64, optionIDs ...int64) *SearchBuilder {
	return b.parameter(parameterID, optionIDs, filter.OpOr)
}

// AllOptions keeps products having every listed option of a parameter.
func (b *SearchBuilder) AllOptions(parameterID int64, optionIDs ...int64) *SearchBuilder {
	return b.parameter(parameterID, optionIDs, filter.OpAnd)
}

func (b *SearchBuilder) parameter(id int64, optionIDs []int64, op filter.Operator) *SearchBuilder {
	pf, err := filter.NewParameterFilter(id, "", optionIDs, nil, op)
	if err != nil {
		b.fail(err)
		return b
	}
	b.p.Criteria.Parameters = append(b.p.Criteria.Parameters, pf)
	return b
}

// SortBy orders results. desc reverses the key's natural direction.
func (b *SearchBuilder) SortBy(key SortKey, desc bool) *SearchBuilder {
	b.p.SortBy = string(key)
	b.p.SortDirection = string(request.Asc)
	if desc {
		b.p.SortDirection = string(request.Desc)
	}
	return b
}

// Page selects the zero-based page and its size. A zero size uses the default.
func (b *SearchBuilder) Page(page, size int) *SearchBuilder {
	b.p.Page = page
	b.p.Size = size
	return b
}

// Facets requests facet counts alongside the results.
func (b *SearchBuilder) Facets() *SearchBuilder {
	b.p.Faceted = true
	return b
}

// Timeout overrides the default search deadline.
func (b *SearchBuilder) Timeout(d time.Duration) *SearchBuilder {
	b.p.Timeout = d
	return b
}

func (b *SearchBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Do validates the request and runs it against the current snapshot.
func (b *SearchBuilder) Do(ctx context.Context) (*Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	price, err := filter.NewRange("Price", b.minPrice, b.maxPrice)
	if err != nil {
		return nil, err
	}
	b.p.Criteria.Price = price
	return b.client.run(ctx, &b.p)
}

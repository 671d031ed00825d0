package chi

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// ErrorCode is the machine-readable error kind returned to clients.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeInvalidQuery        ErrorCode = "invalid_query"
	ErrorCodeSearchTimeout       ErrorCode = "search_timeout"
	ErrorCodeSnapshotUnavailable ErrorCode = "snapshot_unavailable"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ParameterFilterRequest restricts results by the options of one parameter.
type ParameterFilterRequest struct {
	ParameterID   int64    `json:"parameterId"`
	ParameterName string   `json:"parameterName,omitempty"`
	OptionIDs     []int64  `json:"optionIds,omitempty"`
	Values        []string `json:"values,omitempty"`
	Operator      string   `json:"operator,omitempty"`
}

// SearchRequest is the POST /api/v1/products/search body.
type SearchRequest struct {
	Query           string `json:"query,omitempty"`
	Name            string `json:"name,omitempty"`
	Description     string `json:"description,omitempty"`
	ReferenceNumber string `json:"referenceNumber,omitempty"`
	Model           string `json:"model,omitempty"`
	Barcode         string `json:"barcode,omitempty"`

	CategoryIDs      []int64                  `json:"categoryIds,omitempty"`
	ManufacturerIDs  []int64                  `json:"manufacturerIds,omitempty"`
	MinPrice         *float64                 `json:"minPrice,omitempty"`
	MaxPrice         *float64                 `json:"maxPrice,omitempty"`
	Statuses         []string                 `json:"statuses,omitempty"`
	OnSale           *bool                    `json:"onSale,omitempty"`
	Featured         *bool                    `json:"featured,omitempty"`
	Active           *bool                    `json:"active,omitempty"`
	InStock          *bool                    `json:"inStock,omitempty"`
	ParameterFilters []ParameterFilterRequest `json:"parameterFilters,omitempty"`
	MinWarranty      *float64                 `json:"minWarranty,omitempty"`
	MaxWarranty      *float64                 `json:"maxWarranty,omitempty"`
	MinWeight        *float64                 `json:"minWeight,omitempty"`
	MaxWeight        *float64                 `json:"maxWeight,omitempty"`
	Flags            []string                 `json:"flags,omitempty"`

	ExactMatch      bool     `json:"exactMatch,omitempty"`
	FuzzySearch     bool     `json:"fuzzySearch,omitempty"`
	SearchMode      string   `json:"searchMode,omitempty"`
	SearchFields    []string `json:"searchFields,omitempty"`
	SortBy          string   `json:"sortBy,omitempty"`
	SortDirection   string   `json:"sortDirection,omitempty"`
	Page            int      `json:"page,omitempty"`
	Size            int      `json:"size,omitempty"`
	Language        string   `json:"language,omitempty"`
	IncludeInactive bool     `json:"includeInactive,omitempty"`
	FacetedSearch   bool     `json:"facetedSearch,omitempty"`
	TimeoutMs       int      `json:"timeoutMs,omitempty"`
}

// SearchProductsByQueryParams are the GET /api/v1/products/search query parameters.
type SearchProductsByQueryParams struct {
	Q               *string   `form:"q" json:"q,omitempty"`
	Page            *int      `form:"page" json:"page,omitempty"`
	Size            *int      `form:"size" json:"size,omitempty"`
	SortBy          *string   `form:"sortBy" json:"sortBy,omitempty"`
	SortDirection   *string   `form:"sortDirection" json:"sortDirection,omitempty"`
	SearchMode      *string   `form:"searchMode" json:"searchMode,omitempty"`
	CategoryIds     *[]int64  `form:"categoryIds" json:"categoryIds,omitempty"`
	ManufacturerIds *[]int64  `form:"manufacturerIds" json:"manufacturerIds,omitempty"`
	MinPrice        *float64  `form:"minPrice" json:"minPrice,omitempty"`
	MaxPrice        *float64  `form:"maxPrice" json:"maxPrice,omitempty"`
	Language        *string   `form:"language" json:"language,omitempty"`
	FacetedSearch   *bool     `form:"facetedSearch" json:"facetedSearch,omitempty"`
	Statuses        *[]string `form:"statuses" json:"statuses,omitempty"`
}

// SuggestProductsParams are the GET /api/v1/products/suggest query parameters.
type SuggestProductsParams struct {
	Q        string  `form:"q" json:"q"`
	Language *string `form:"language" json:"language,omitempty"`
	Limit    *int    `form:"limit" json:"limit,omitempty"`
}

// Product is one search hit.
type Product struct {
	catalog.ProductView
	Score         float64  `json:"score"`
	MatchedFields []string `json:"matchedFields,omitempty"`
}

// Pagination is the page metadata.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	PageSize      int  `json:"pageSize"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	HasNext       bool `json:"hasNext"`
	HasPrevious   bool `json:"hasPrevious"`
}

// Stats summarizes the search execution.
type Stats struct {
	TotalFound     int      `json:"totalFound"`
	SearchTimeMs   int64    `json:"searchTimeMs"`
	MaxScore       float64  `json:"maxScore"`
	SearchQuery    string   `json:"searchQuery"`
	SearchedFields []string `json:"searchedFields"`
}

// FacetValue is one facet bucket.
type FacetValue struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// PriceRange is one price facet bucket. Max is omitted for the open-ended bucket.
type PriceRange struct {
	Min      float64  `json:"min"`
	Max      *float64 `json:"max,omitempty"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
	Selected bool     `json:"selected"`
}

// ParameterFacet groups option counts of one parameter.
type ParameterFacet struct {
	ParameterID int64        `json:"parameterId"`
	Name        string       `json:"name"`
	Options     []FacetValue `json:"options"`
}

// Facets holds every facet dimension.
type Facets struct {
	Categories    []FacetValue     `json:"categories"`
	Manufacturers []FacetValue     `json:"manufacturers"`
	Parameters    []ParameterFacet `json:"parameters"`
	PriceRanges   []PriceRange     `json:"priceRanges"`
	Statuses      []FacetValue     `json:"statuses"`
}

// Suggestion is an alternative query.
type Suggestion struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

// Metadata echoes how the request was interpreted.
type Metadata struct {
	OriginalQuery   string         `json:"originalQuery"`
	ProcessedQuery  string         `json:"processedQuery"`
	CorrectedQuery  string         `json:"correctedQuery,omitempty"`
	AppliedFilters  map[string]any `json:"appliedFilters"`
	SnapshotVersion uint64         `json:"snapshotVersion"`
}

// SearchResponse is the search endpoint response.
type SearchResponse struct {
	Products    []Product    `json:"products"`
	Pagination  Pagination   `json:"pagination"`
	Stats       Stats        `json:"stats"`
	Facets      *Facets      `json:"facets,omitempty"`
	Suggestions []Suggestion `json:"suggestions"`
	Metadata    Metadata     `json:"metadata"`
}

// SuggestResponse is the suggest endpoint response.
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// HealthResponse is the health endpoint response.
type HealthResponse struct {
	Status          string            `json:"status"`
	Checks          map[string]string `json:"checks"`
	SnapshotVersion uint64            `json:"snapshotVersion,omitempty"`
	SnapshotAgeSec  int64             `json:"snapshotAgeSec,omitempty"`
}

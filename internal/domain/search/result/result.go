package result

import (
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// Scored is a ranked candidate.
type Scored struct {
	ID    int64
	Score float64
	// Matched lists the fields that contributed to the score.
	Matched []catalog.Field
}

// Hit is a scored candidate with its display projection.
type Hit struct {
	Scored
	View *catalog.ProductView
}

// Bucket is one facet value.
type Bucket struct {
	Value    string
	Label    string
	Count    int
	Selected bool
}

// PriceBucket is a price range facet value covering [Min, Max). A nil Max is unbounded.
type PriceBucket struct {
	Min      float64
	Max      *float64
	Label    string
	Count    int
	Selected bool
}

// ParameterFacet groups the option counts of one parameter.
type ParameterFacet struct {
	ParameterID int64
	Name        string
	Options     []Bucket
}

// Facets holds the aggregated counts of every facet dimension.
type Facets struct {
	Categories    []Bucket
	Manufacturers []Bucket
	Parameters    []ParameterFacet
	PriceRanges   []PriceBucket
	Statuses      []Bucket
}

// SuggestionKind tells where a suggestion came from.
type SuggestionKind string

// Suggestion is an autocomplete-style alternative to the query.
type Suggestion struct {
	Text string
	Kind SuggestionKind
}

// Outcome is the assembled result of one search.
type Outcome struct {
	Hits  []Hit
	Total int
	Page  Pagination
	// Facets is nil when facets were not requested.
	Facets         *Facets
	Suggestions    []Suggestion
	OriginalQuery  string
	ProcessedQuery string
	// CorrectedQuery is empty when no correction was applied.
	CorrectedQuery  string
	SearchedFields  []catalog.Field
	AppliedFilters  map[string]any
	MaxScore        float64
	Elapsed         time.Duration
	SnapshotVersion uint64
	Skipped         int
}

// Corrected reports whether the search ran with a corrected query.
func (o *Outcome) Corrected() bool { return o.CorrectedQuery != "" }

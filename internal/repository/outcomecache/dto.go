package outcomecache

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// outcomeDTO is the stored form of an outcome. Display views and timing are not cached.
type outcomeDTO struct {
	Hits            []hitDTO            `json:"hits"`
	Total           int                 `json:"total"`
	Page            result.Pagination   `json:"page"`
	Facets          *result.Facets      `json:"facets,omitempty"`
	Suggestions     []result.Suggestion `json:"suggestions,omitempty"`
	OriginalQuery   string              `json:"original_query"`
	ProcessedQuery  string              `json:"processed_query"`
	CorrectedQuery  string              `json:"corrected_query,omitempty"`
	SearchedFields  []catalog.Field     `json:"searched_fields,omitempty"`
	AppliedFilters  map[string]any      `json:"applied_filters,omitempty"`
	MaxScore        float64             `json:"max_score"`
	SnapshotVersion uint64              `json:"snapshot_version"`
	Skipped         int                 `json:"skipped,omitempty"`
}

type hitDTO struct {
	ID      int64           `json:"id"`
	Score   float64         `json:"score"`
	Matched []catalog.Field `json:"matched,omitempty"`
}

func fromOutcome(o result.Outcome) outcomeDTO {
	hits := make([]hitDTO, len(o.Hits))
	for i, h := range o.Hits {
		hits[i] = hitDTO{ID: h.ID, Score: h.Score, Matched: h.Matched}
	}
	return outcomeDTO{
		Hits:            hits,
		Total:           o.Total,
		Page:            o.Page,
		Facets:          o.Facets,
		Suggestions:     o.Suggestions,
		OriginalQuery:   o.OriginalQuery,
		ProcessedQuery:  o.ProcessedQuery,
		CorrectedQuery:  o.CorrectedQuery,
		SearchedFields:  o.SearchedFields,
		AppliedFilters:  o.AppliedFilters,
		MaxScore:        o.MaxScore,
		SnapshotVersion: o.SnapshotVersion,
		Skipped:         o.Skipped,
	}
}

func (d outcomeDTO) toOutcome() result.Outcome {
	hits := make([]result.Hit, len(d.Hits))
	for i, h := range d.Hits {
		hits[i] = result.Hit{Scored: result.Scored{ID: h.ID, Score: h.Score, Matched: h.Matched}}
	}
	return result.Outcome{
		Hits:            hits,
		Total:           d.Total,
		Page:            d.Page,
		Facets:          d.Facets,
		Suggestions:     d.Suggestions,
		OriginalQuery:   d.OriginalQuery,
		ProcessedQuery:  d.ProcessedQuery,
		CorrectedQuery:  d.CorrectedQuery,
		SearchedFields:  d.SearchedFields,
		AppliedFilters:  d.AppliedFilters,
		MaxScore:        d.MaxScore,
		SnapshotVersion: d.SnapshotVersion,
		Skipped:         d.Skipped,
	}
}

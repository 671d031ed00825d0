package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// core is the pure computation result of one search pass, before paging.
type core struct {
	req     *request.Request
	matches []match
	facets  *result.Facets
}

// assemble pages the ordered matches and merges facets, suggestions and query metadata.
func assemble(
	snap *catalog.Snapshot, original *request.Request, c core,
	suggestions []result.Suggestion, corrected string,
) result.Outcome {
	total := len(c.matches)
	page := result.NewPagination(original.Page(), original.Size(), total)
	start, end := page.Bounds()

	var maxScore float64
	for _, m := range c.matches {
		maxScore = max(maxScore, m.score)
	}

	scored := toScored(snap, c.matches[start:end])
	hits := make([]result.Hit, len(scored))
	for i := range scored {
		hits[i] = result.Hit{Scored: scored[i]}
	}

	return result.Outcome{
		Hits:            hits,
		Total:           total,
		Page:            page,
		Facets:          c.facets,
		Suggestions:     suggestions,
		OriginalQuery:   original.Query().Original(),
		ProcessedQuery:  c.req.Query().Processed(),
		CorrectedQuery:  corrected,
		SearchedFields:  c.req.SearchedFields(),
		AppliedFilters:  original.Criteria().Applied(),
		MaxScore:        maxScore,
		SnapshotVersion: snap.Version(),
		Skipped:         snap.Skipped(),
	}
}

// hydrate attaches display projections to the page hits. Hits whose id the hydrator does not return are dropped.
func hydrate(ctx context.Context, h Hydrator, lang string, out *result.Outcome) error {
	if h == nil || len(out.Hits) == 0 {
		return nil
	}
	ids := make([]int64, len(out.Hits))
	for i, hit := range out.Hits {
		ids[i] = hit.ID
	}
	views, err := h.Hydrate(ctx, ids, lang)
	if err != nil {
		return fmt.Errorf("hydrate products: %w", err)
	}
	byID := make(map[int64]*catalog.ProductView, len(views))
	for i := range views {
		byID[views[i].ID] = &views[i]
	}
	kept := out.Hits[:0]
	for _, hit := range out.Hits {
		if v, ok := byID[hit.ID]; ok {
			hit.View = v
			kept = append(kept, hit)
		}
	}
	out.Hits = kept
	return nil
}

// deadlineError maps a context error to the search timeout sentinel.
func deadlineError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrSearchTimeout, err)
	}
	return err
}

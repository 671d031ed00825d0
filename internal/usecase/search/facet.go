package search

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// aggregateFacets counts every facet dimension over the text-matching candidates.
// Each dimension ignores its own filter so counts show the effect of additionally selecting a value.
// Dimensions are computed concurrently; each goroutine writes only its own field of the result.
func aggregateFacets(
	ctx context.Context, snap *catalog.Snapshot, set *filter.Set, entries []facetEntry, cfg *Config,
) (*result.Facets, error) {
	f := &result.Facets{}
	dict := snap.Dictionary()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := countIDs(gctx, snap, entries, filter.Category, func(c *catalog.Candidate) []int64 {
			return c.CategoryIDs()
		})
		if err != nil {
			return err
		}
		f.Categories = idBuckets(counts, dict.CategoryName, set.SelectedCategory, cfg.MaxFacetValues)
		return nil
	})
	g.Go(func() error {
		counts, err := countIDs(gctx, snap, entries, filter.Manufacturer, func(c *catalog.Candidate) []int64 {
			if c.ManufacturerID() == 0 {
				return nil
			}
			return []int64{c.ManufacturerID()}
		})
		if err != nil {
			return err
		}
		f.Manufacturers = idBuckets(counts, dict.ManufacturerName, set.SelectedManufacturer, cfg.MaxFacetValues)
		return nil
	})
	g.Go(func() error {
		statuses, err := countStatuses(gctx, snap, set, entries, cfg.MaxFacetValues)
		if err != nil {
			return err
		}
		f.Statuses = statuses
		return nil
	})
	g.Go(func() error {
		prices, err := countPrices(gctx, snap, set, entries, cfg.PriceBuckets)
		if err != nil {
			return err
		}
		f.PriceRanges = prices
		return nil
	})
	g.Go(func() error {
		params, err := countParameters(gctx, snap, set, entries, cfg.MaxFacetValues)
		if err != nil {
			return err
		}
		f.Parameters = params
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

func eachEntry(ctx context.Context, entries []facetEntry, own filter.Mask, fn func(idx int)) error {
	for i, e := range entries {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return deadlineError(err)
			}
		}
		if e.mask.Without(own) == 0 {
			fn(e.idx)
		}
	}
	return nil
}

func countIDs(
	ctx context.Context, snap *catalog.Snapshot, entries []facetEntry, own filter.Mask,
	ids func(*catalog.Candidate) []int64,
) (map[int64]int, error) {
	counts := make(map[int64]int)
	err := eachEntry(ctx, entries, own, func(idx int) {
		for _, id := range ids(snap.At(idx)) {
			counts[id]++
		}
	})
	return counts, err
}

func idBuckets(counts map[int64]int, name func(int64) string, selected func(int64) bool, limit int) []result.Bucket {
	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b int64) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]result.Bucket, 0, len(ids))
	for _, id := range ids {
		out = append(out, result.Bucket{
			Value:    strconv.FormatInt(id, 10),
			Label:    name(id),
			Count:    counts[id],
			Selected: selected(id),
		})
	}
	return out
}

func countStatuses(
	ctx context.Context, snap *catalog.Snapshot, set *filter.Set, entries []facetEntry, limit int,
) ([]result.Bucket, error) {
	counts := make(map[string]int)
	err := eachEntry(ctx, entries, filter.Status, func(idx int) {
		if s := snap.At(idx).Status(); s != "" {
			counts[s]++
		}
	})
	if err != nil {
		return nil, err
	}
	out := make([]result.Bucket, 0, len(counts))
	for s, n := range counts {
		out = append(out, result.Bucket{Value: s, Label: s, Count: n, Selected: set.SelectedStatus(s)})
	}
	sortBuckets(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func countPrices(
	ctx context.Context, snap *catalog.Snapshot, set *filter.Set, entries []facetEntry, breakpoints []float64,
) ([]result.PriceBucket, error) {
	if len(breakpoints) == 0 {
		return nil, nil
	}
	counts := make([]int, len(breakpoints))
	err := eachEntry(ctx, entries, filter.Price, func(idx int) {
		first, last := priceBuckets(breakpoints, snap.At(idx).Price())
		for i := max(first, 0); i <= last; i++ {
			counts[i]++
		}
	})
	if err != nil {
		return nil, err
	}
	priceRange := set.PriceRange()
	out := make([]result.PriceBucket, len(breakpoints))
	for i, lo := range breakpoints {
		var hi *float64
		if i+1 < len(breakpoints) {
			v := breakpoints[i+1]
			hi = &v
		}
		out[i] = result.PriceBucket{
			Min:      lo,
			Max:      hi,
			Label:    priceLabel(lo, hi),
			Count:    counts[i],
			Selected: !priceRange.IsEmpty() && priceRange.Overlaps(lo, hi),
		}
	}
	return out, nil
}

// priceBuckets returns the indices of the closed buckets [b_i, b_i+1] holding price.
// A price on an inner breakpoint belongs to both neighbours, matching the inclusive
// price filter a selected bucket turns into. last is -1 below the first breakpoint.
func priceBuckets(breakpoints []float64, price float64) (first, last int) {
	i, found := slices.BinarySearch(breakpoints, price)
	if !found {
		return i - 1, i - 1
	}
	if i > 0 {
		return i - 1, i
	}
	return i, i
}

func priceLabel(lo float64, hi *float64) string {
	if hi == nil {
		return formatPrice(lo) + "+"
	}
	return formatPrice(lo) + "-" + formatPrice(*hi)
}

func formatPrice(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

type optionKey struct {
	parameterID int64
	optionID    int64
	value       string
}

func countParameters(
	ctx context.Context, snap *catalog.Snapshot, set *filter.Set, entries []facetEntry, limit int,
) ([]result.ParameterFacet, error) {
	counts := make(map[optionKey]int)
	labels := make(map[optionKey]string)
	own := make(map[int64]filter.Mask)
	for i, e := range entries {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, deadlineError(err)
			}
		}
		c := snap.At(e.idx)
		seen := make(map[optionKey]struct{}, len(c.Params()))
		for _, p := range c.Params() {
			m, ok := own[p.ParameterID]
			if !ok {
				m = set.ParameterMask(p.ParameterID)
				own[p.ParameterID] = m
			}
			if e.mask.Without(m) != 0 {
				continue
			}
			k := optionKey{parameterID: p.ParameterID, optionID: p.OptionID}
			if p.OptionID == 0 {
				k.value = p.Value
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			counts[k]++
			if _, ok := labels[k]; !ok {
				labels[k] = p.Value
			}
		}
	}

	byParam := make(map[int64][]result.Bucket)
	for k, n := range counts {
		value := k.value
		if k.optionID != 0 {
			value = strconv.FormatInt(k.optionID, 10)
		}
		label := labels[k]
		if label == "" {
			label = value
		}
		byParam[k.parameterID] = append(byParam[k.parameterID], result.Bucket{
			Value:    value,
			Label:    label,
			Count:    n,
			Selected: set.SelectedOption(k.parameterID, k.optionID, k.value),
		})
	}

	ids := make([]int64, 0, len(byParam))
	for id := range byParam {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	dict := snap.Dictionary()
	out := make([]result.ParameterFacet, 0, len(ids))
	for _, id := range ids {
		opts := byParam[id]
		sortBuckets(opts)
		if len(opts) > limit {
			opts = opts[:limit]
		}
		out = append(out, result.ParameterFacet{ParameterID: id, Name: dict.ParameterName(id), Options: opts})
	}
	return out, nil
}

// sortBuckets orders by count descending, then value ascending (numerically when both values are ids).
func sortBuckets(b []result.Bucket) {
	slices.SortFunc(b, func(x, y result.Bucket) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		xi, errX := strconv.ParseInt(x.Value, 10, 64)
		yi, errY := strconv.ParseInt(y.Value, 10, 64)
		if errX == nil && errY == nil {
			return cmp.Compare(xi, yi)
		}
		return cmp.Compare(x.Value, y.Value)
	})
}

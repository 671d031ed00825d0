package config

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// Tuning overlays the configured values on search.DefaultConfig and validates the result.
func (c SearchConfig) Tuning() (search.Config, error) {
	t := search.DefaultConfig()
	if c.TimeoutMs > 0 {
		t.Timeout = time.Duration(c.TimeoutMs) * time.Millisecond
	}
	if len(c.PriceBuckets) > 0 {
		t.PriceBuckets = append([]float64(nil), c.PriceBuckets...)
	}
	for name, w := range c.Weights {
		f, ok := catalog.ParseField(name)
		if !ok {
			return search.Config{}, fmt.Errorf("search.weights: unknown field %q", name)
		}
		t.Weights[f] = w
	}
	if c.ExactNameBoost > 0 {
		t.ExactNameBoost = c.ExactNameBoost
	}
	if c.FeaturedBoost > 0 {
		t.FeaturedBoost = c.FeaturedBoost
	}
	if c.OnSaleBoost > 0 {
		t.OnSaleBoost = c.OnSaleBoost
	}
	if c.Fuzzy.ShortMaxDistance > 0 {
		t.Fuzzy.ShortMaxDistance = c.Fuzzy.ShortMaxDistance
	}
	if c.Fuzzy.LongMaxDistance > 0 {
		t.Fuzzy.LongMaxDistance = c.Fuzzy.LongMaxDistance
	}
	if c.Fuzzy.LongMinLength > 0 {
		t.Fuzzy.LongMinLength = c.Fuzzy.LongMinLength
	}
	if c.MaxFacetValues > 0 {
		t.MaxFacetValues = c.MaxFacetValues
	}
	if c.SuggestionLimit > 0 {
		t.SuggestionLimit = c.SuggestionLimit
	}
	if c.MinResults > 0 {
		t.MinResults = c.MinResults
	}
	if c.MaxCorrectionDistance > 0 {
		t.MaxCorrectionDistance = c.MaxCorrectionDistance
	}
	if c.CorrectionCacheSize > 0 {
		t.CorrectionCacheSize = c.CorrectionCacheSize
	}
	if err := t.Validate(); err != nil {
		return search.Config{}, fmt.Errorf("search: %w", err)
	}
	return t, nil
}

// Limits returns the request page size limits.
func (c SearchConfig) Limits() request.Limits {
	return request.Limits{DefaultSize: c.DefaultPageSize, MaxSize: c.MaxPageSize}
}

package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
)

// Config tunes ranking, faceting and suggestions.
type Config struct {
	// Timeout applies when a request carries none.
	Timeout time.Duration
	// PriceBuckets are ascending breakpoints; the last bucket is open-ended.
	PriceBuckets []float64
	// Weights are the SMART field weights.
	Weights        map[catalog.Field]float64
	ExactNameBoost float64
	FeaturedBoost  float64
	OnSaleBoost    float64
	Fuzzy          query.FuzzyConfig
	MaxFacetValues int

	SuggestionLimit       int
	MinResults            int
	MaxCorrectionDistance int
	CorrectionCacheSize   int
}

// DefaultConfig returns the built-in tuning.
func DefaultConfig() Config {
	return Config{
		Timeout:      2 * time.Second,
		PriceBuckets: []float64{0, 50, 100, 200, 500, 1000},
		Weights: map[catalog.Field]float64{
			catalog.Name:        3,
			catalog.Model:       2,
			catalog.Reference:   2,
			catalog.Barcode:     2,
			catalog.Description: 1,
		},
		ExactNameBoost:        2,
		FeaturedBoost:         0.001,
		OnSaleBoost:           0.001,
		Fuzzy:                 query.DefaultFuzzyConfig(),
		MaxFacetValues:        100,
		SuggestionLimit:       5,
		MinResults:            1,
		MaxCorrectionDistance: 2,
		CorrectionCacheSize:   4096,
	}
}

// Validate checks the tuning invariants.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if !sort.Float64sAreSorted(c.PriceBuckets) {
		return fmt.Errorf("price buckets must be ascending")
	}
	for i := 1; i < len(c.PriceBuckets); i++ {
		if c.PriceBuckets[i] == c.PriceBuckets[i-1] {
			return fmt.Errorf("duplicate price bucket %v", c.PriceBuckets[i])
		}
	}
	for f, w := range c.Weights {
		if !f.IsValid() {
			return fmt.Errorf("unknown weighted field %q", f)
		}
		if w <= 0 {
			return fmt.Errorf("weight for %s must be positive", f)
		}
	}
	if c.ExactNameBoost < 1 {
		return fmt.Errorf("exact name boost must be at least 1")
	}
	// Boosts break ties between equal text scores and must stay below the smallest hit difference.
	if c.FeaturedBoost < 0 || c.FeaturedBoost >= 0.01 || c.OnSaleBoost < 0 || c.OnSaleBoost >= 0.01 {
		return fmt.Errorf("featured and on-sale boosts must be in [0, 0.01)")
	}
	if c.Fuzzy.ShortMaxDistance < 0 || c.Fuzzy.LongMaxDistance < c.Fuzzy.ShortMaxDistance {
		return fmt.Errorf("invalid fuzzy distances")
	}
	if c.SuggestionLimit < 0 || c.MinResults < 0 || c.MaxCorrectionDistance < 0 {
		return fmt.Errorf("suggestion settings must not be negative")
	}
	if c.MaxFacetValues <= 0 {
		return fmt.Errorf("max facet values must be positive")
	}
	return nil
}

func (c *Config) weight(f catalog.Field) float64 {
	if w, ok := c.Weights[f]; ok {
		return w
	}
	return 1
}

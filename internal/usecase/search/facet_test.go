package search

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

func TestPriceBuckets(t *testing.T) {
	breakpoints := []float64{0, 50, 100}
	tests := []struct {
		price       float64
		first, last int
	}{
		{0, 0, 0},
		{49.99, 0, 0},
		{50, 0, 1},
		{99, 1, 1},
		{100, 1, 2},
		{10000, 2, 2},
		{-1, -1, -1},
	}
	for _, tt := range tests {
		first, last := priceBuckets(breakpoints, tt.price)
		if first != tt.first || last != tt.last {
			t.Errorf("priceBuckets(%v) = %d..%d, want %d..%d", tt.price, first, last, tt.first, tt.last)
		}
	}
}

func TestPriceLabel(t *testing.T) {
	hi := 99.5
	if got := priceLabel(50, &hi); got != "50-99.5" {
		t.Errorf("label = %q", got)
	}
	if got := priceLabel(1000, nil); got != "1000+" {
		t.Errorf("label = %q", got)
	}
}

func TestSortBuckets(t *testing.T) {
	b := []result.Bucket{
		{Value: "10", Count: 1},
		{Value: "9", Count: 1},
		{Value: "AVAILABLE", Count: 1},
		{Value: "2", Count: 5},
	}

	sortBuckets(b)

	got := make([]string, len(b))
	for i, x := range b {
		got[i] = x.Value
	}
	if want := []string{"2", "9", "10", "AVAILABLE"}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestIDBuckets_Limit(t *testing.T) {
	counts := map[int64]int{1: 3, 2: 7, 3: 3, 4: 1}
	name := func(id int64) string { return "n" }
	selected := func(id int64) bool { return id == 3 }

	got := idBuckets(counts, name, selected, 3)

	if len(got) != 3 {
		t.Fatalf("buckets = %d, want 3", len(got))
	}
	values := []string{got[0].Value, got[1].Value, got[2].Value}
	if want := []string{"2", "1", "3"}; !slices.Equal(values, want) {
		t.Errorf("values = %v, want %v", values, want)
	}
	if !got[2].Selected || got[0].Selected {
		t.Errorf("selection = %+v", got)
	}
}

func facetsFor(t *testing.T, p request.Params) *result.Facets {
	t.Helper()
	p.Faceted = true
	snap := testSnapshot(t)
	cfg := DefaultConfig()
	req := makeRequest(t, p)
	set := filter.Compile(req.Criteria())
	found, err := scanSnapshot(context.Background(), snap, req, &set, newScorer(&cfg, req))
	if err != nil {
		t.Fatalf("scanSnapshot: %v", err)
	}
	f, err := aggregateFacets(context.Background(), snap, &set, found.entries, &cfg)
	if err != nil {
		t.Fatalf("aggregateFacets: %v", err)
	}
	return f
}

func TestAggregateFacets_Statuses(t *testing.T) {
	f := facetsFor(t, request.Params{Criteria: filter.Criteria{Statuses: []string{"preorder"}}})

	got := bucketCounts(f.Statuses)
	if got["AVAILABLE"] != 7 || got["PREORDER"] != 1 {
		t.Errorf("statuses = %v", got)
	}
	for _, b := range f.Statuses {
		if b.Selected != (b.Value == "PREORDER") {
			t.Errorf("status %s selected = %v", b.Value, b.Selected)
		}
	}
	// Other dimensions honor the status filter.
	if cats := bucketCounts(f.Categories); len(cats) != 1 || cats["5"] != 1 {
		t.Errorf("categories = %v, want only 5:1", cats)
	}
}

func TestAggregateFacets_TextQueryBoundsCounts(t *testing.T) {
	f := facetsFor(t, request.Params{Query: "monitor"})

	cats := bucketCounts(f.Categories)
	if len(cats) != 1 || cats["5"] != 2 {
		t.Errorf("categories = %v, want 5:2", cats)
	}
	mans := bucketCounts(f.Manufacturers)
	if mans["1"] != 1 || mans["2"] != 1 {
		t.Errorf("manufacturers = %v", mans)
	}
}

func TestAggregateFacets_ParameterExcludesOwnFilterOnly(t *testing.T) {
	capacity, err := filter.NewParameterFilter(1, "", []int64{11}, nil, filter.OpOr)
	if err != nil {
		t.Fatalf("NewParameterFilter: %v", err)
	}
	f := facetsFor(t, request.Params{Criteria: filter.Criteria{
		Parameters:  []filter.ParameterFilter{capacity},
		CategoryIDs: []int64{7},
	}})

	if len(f.Parameters) != 1 {
		t.Fatalf("parameters = %+v, want one", f.Parameters)
	}
	opts := bucketCounts(f.Parameters[0].Options)
	// Option 10 counts ignore the capacity filter but keep the category filter.
	if opts["10"] != 2 || opts["11"] != 1 {
		t.Errorf("options = %v, want 10:2 11:1", opts)
	}
	for _, o := range f.Parameters[0].Options {
		if o.Selected != (o.Value == "11") {
			t.Errorf("option %s selected = %v", o.Value, o.Selected)
		}
		if o.Label == "" {
			t.Errorf("option %s has no label", o.Value)
		}
	}
}

func TestAggregateFacets_DeadlineExceeded(t *testing.T) {
	snap := testSnapshot(t)
	cfg := DefaultConfig()
	req := makeRequest(t, request.Params{Faceted: true})
	set := filter.Compile(req.Criteria())
	found, err := scanSnapshot(context.Background(), snap, req, &set, newScorer(&cfg, req))
	if err != nil {
		t.Fatalf("scanSnapshot: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_, err = aggregateFacets(ctx, snap, &set, found.entries, &cfg)

	if !errors.Is(err, domain.ErrSearchTimeout) {
		t.Fatalf("expected ErrSearchTimeout, got %v", err)
	}
}

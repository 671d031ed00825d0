package request

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
)

func floatPtr(f float64) *float64 { return &f }

func TestNew_Defaults(t *testing.T) {
	r, err := New(Params{Query: "SSD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query().Processed() != "ssd" {
		t.Errorf("Query() = %q", r.Query().Processed())
	}
	if r.Mode() != mode.AllFields {
		t.Errorf("Mode() = %q, want ALL_FIELDS (default)", r.Mode())
	}
	if r.SortBy() != SortRelevance || r.Direction() != Desc {
		t.Errorf("sort = %s %s, want relevance desc", r.SortBy(), r.Direction())
	}
	if r.Size() != DefaultPageSize || r.Page() != 0 {
		t.Errorf("page = %d/%d", r.Page(), r.Size())
	}
	if r.Language() != "en" {
		t.Errorf("Language() = %q", r.Language())
	}
	if !reflect.DeepEqual(r.SearchedFields(), catalog.AllFields()) {
		t.Errorf("SearchedFields() = %v", r.SearchedFields())
	}
	if r.Faceted() || r.ExactMatch() || r.FuzzySearch() || r.Timeout() != 0 {
		t.Error("unexpected flag set")
	}
}

func TestNew_NonRelevanceSortDefaultsAscending(t *testing.T) {
	r, err := New(Params{SortBy: "price"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Direction() != Asc {
		t.Errorf("Direction() = %q, want asc", r.Direction())
	}
	r, err = New(Params{SortBy: "created_at", SortDirection: "DESC"})
	if err != nil {
		t.Fatal(err)
	}
	if r.SortBy() != SortCreatedAt || r.Direction() != Desc {
		t.Errorf("sort = %s %s", r.SortBy(), r.Direction())
	}
}

func TestNew_RelevanceIgnoresAscending(t *testing.T) {
	r, err := New(Params{Query: "ssd", SortBy: "relevance", SortDirection: "asc"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Direction() != Desc {
		t.Errorf("Direction() = %q, want desc", r.Direction())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"query too long", Params{Query: strings.Repeat("x", 201)}, "query"},
		{"field input too long", Params{FieldMatches: FieldMatches{Model: strings.Repeat("x", 201)}}, "model"},
		{"bad mode", Params{Mode: "FUZZY"}, "searchMode"},
		{"bad sort", Params{SortBy: "rating"}, "sortBy"},
		{"bad direction", Params{SortDirection: "up"}, "sortDirection"},
		{"negative page", Params{Page: -1}, "page"},
		{"size too large", Params{Size: 101}, "size"},
		{"negative size", Params{Size: -5}, "size"},
		{"negative timeout", Params{Timeout: -time.Second}, "timeoutMs"},
		{"bad language", Params{Language: "??"}, "language"},
		{"specific without fields", Params{Query: "dell", Mode: mode.SpecificFields}, "searchFields"},
		{"unknown field", Params{Query: "dell", Mode: mode.SpecificFields, Fields: []catalog.Field{"sku"}}, "searchFields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p)
			var iq *domain.InvalidQueryError
			if !errors.As(err, &iq) {
				t.Fatalf("err = %v, want *InvalidQueryError", err)
			}
			if iq.Field != tt.field {
				t.Errorf("Field = %q, want %q", iq.Field, tt.field)
			}
		})
	}
}

func TestNew_TooManyParameterFilters(t *testing.T) {
	p, _ := filter.NewParameterFilter(1, "", []int64{1}, nil, filter.OpOr)
	params := make([]filter.ParameterFilter, filter.MaxParameterFilters+1)
	for i := range params {
		params[i] = p
	}
	_, err := New(Params{Criteria: filter.Criteria{Parameters: params}})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("err = %v", err)
	}
}

func TestNew_SpecificFieldsSelection(t *testing.T) {
	r, err := New(Params{
		Query:        "dell",
		Mode:         mode.SpecificFields,
		Fields:       []catalog.Field{catalog.Description},
		FieldMatches: FieldMatches{Name: "Latitude", Barcode: "  "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []catalog.Field{catalog.Name, catalog.Description}
	if !reflect.DeepEqual(r.SearchedFields(), want) {
		t.Errorf("SearchedFields() = %v, want %v", r.SearchedFields(), want)
	}
	if got := r.FieldInput(catalog.Name).Tokens; !reflect.DeepEqual(got, []string{"latitude"}) {
		t.Errorf("FieldInput(name) = %v", got)
	}
	if len(r.FieldInput(catalog.Barcode).Tokens) != 0 {
		t.Error("blank explicit input should be ignored")
	}
}

func TestNew_SpecificFieldsEmptyQueryAllowed(t *testing.T) {
	r, err := New(Params{Mode: mode.SpecificFields})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HasText() {
		t.Error("HasText() = true for empty request")
	}
}

func TestNew_PageSizeLimits(t *testing.T) {
	r, err := NewWithLimits(Params{}, Limits{DefaultSize: 50, MaxSize: 60})
	if err != nil {
		t.Fatal(err)
	}
	if r.Size() != 50 {
		t.Errorf("Size() = %d, want 50", r.Size())
	}
	if _, err := NewWithLimits(Params{Size: 61}, Limits{DefaultSize: 50, MaxSize: 60}); err == nil {
		t.Error("size above configured max accepted")
	}
	r, err = NewWithLimits(Params{Size: 100}, Limits{MaxSize: 500})
	if err != nil {
		t.Fatalf("max size should be capped at %d, not rejected: %v", MaxPageSize, err)
	}
	if r.Size() != 100 {
		t.Errorf("Size() = %d", r.Size())
	}
}

func TestRequest_WithQuery(t *testing.T) {
	r, _ := New(Params{Query: "laptp", Page: 2})
	q, _ := query.Normalize("laptop", "en")
	r2 := r.WithQuery(q)
	if r2.Query().Processed() != "laptop" || r2.Page() != 2 {
		t.Errorf("WithQuery() = %q page %d", r2.Query().Processed(), r2.Page())
	}
	if r.Query().Processed() != "laptp" {
		t.Error("WithQuery mutated the original")
	}
}

func TestRequest_FingerprintOrderInsensitive(t *testing.T) {
	price, _ := filter.NewRange("Price", floatPtr(50), floatPtr(200))
	a, _ := New(Params{Query: "SSD", Criteria: filter.Criteria{CategoryIDs: []int64{3, 7}, Statuses: []string{"a", "B"}, Price: price}})
	b, _ := New(Params{Query: " ssd ", Criteria: filter.Criteria{CategoryIDs: []int64{7, 3}, Statuses: []string{"b", "A"}, Price: price}})
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("fingerprints differ:\n%s\n%s", a.Fingerprint(), b.Fingerprint())
	}
	c, _ := New(Params{Query: "ssd", Criteria: filter.Criteria{CategoryIDs: []int64{3}}, Page: 1})
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different requests share a fingerprint")
	}
	d, _ := New(Params{Query: "SSD", Criteria: filter.Criteria{CategoryIDs: []int64{3, 7}, Statuses: []string{"a", "B"}, Price: price}, Timeout: time.Second})
	if a.Fingerprint() != d.Fingerprint() {
		t.Error("timeout should not affect the fingerprint")
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
		ok   bool
	}{
		{"", SortRelevance, true},
		{"PRICE", SortPrice, true},
		{"createdAt", SortCreatedAt, true},
		{"popularity", SortPopularity, true},
		{"stars", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSortKey(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSortKey(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

package filter

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool       { return &b }

func passes(s *Set, c *catalog.Candidate) bool { return s.Evaluate(c) == 0 }

func candidate(t *testing.T, s catalog.Spec) *catalog.Candidate {
	t.Helper()
	if s.Names == nil {
		s.Names = map[string]string{"en": "product"}
	}
	c, err := catalog.NewCandidate(s)
	if err != nil {
		t.Fatalf("NewCandidate: %v", err)
	}
	return &c
}

// --- Range tests ---

func TestNewRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max *float64
		wantErr  bool
	}{
		{"unbounded", nil, nil, false},
		{"min only", floatPtr(1), nil, false},
		{"max only", nil, floatPtr(10), false},
		{"equal bounds", floatPtr(5), floatPtr(5), false},
		{"ordered", floatPtr(1), floatPtr(10), false},
		{"contradictory", floatPtr(10), floatPtr(5), true},
		{"NaN", floatPtr(math.NaN()), nil, true},
		{"inf", nil, floatPtr(math.Inf(1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRange("Price", tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("err = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestNewRange_ErrorNamesField(t *testing.T) {
	_, err := NewRange("Warranty", floatPtr(24), floatPtr(12))
	var iq *domain.InvalidQueryError
	if !errors.As(err, &iq) {
		t.Fatalf("err = %v", err)
	}
	if iq.Field != "minWarranty" {
		t.Errorf("Field = %q, want minWarranty", iq.Field)
	}
}

func TestRange_Contains(t *testing.T) {
	r, _ := NewRange("Price", floatPtr(50), floatPtr(200))
	for _, v := range []float64{50, 100, 200} {
		if !r.Contains(v) {
			t.Errorf("Contains(%v) = false (bounds are inclusive)", v)
		}
	}
	for _, v := range []float64{49.99, 200.01} {
		if r.Contains(v) {
			t.Errorf("Contains(%v) = true", v)
		}
	}
	if r.ContainsOptional(nil) {
		t.Error("unknown value should fail a bounded range")
	}
	if !(Range{}).ContainsOptional(nil) {
		t.Error("unknown value should pass an empty range")
	}
}

func TestRange_Overlaps(t *testing.T) {
	r, _ := NewRange("Price", floatPtr(50), floatPtr(200))
	tests := []struct {
		lo   float64
		hi   *float64
		want bool
	}{
		{0, floatPtr(50), false},
		{0, floatPtr(100), true},
		{100, floatPtr(500), true},
		{200, floatPtr(500), false},
		{500, nil, false},
	}
	for _, tt := range tests {
		if got := r.Overlaps(tt.lo, tt.hi); got != tt.want {
			t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.lo, tt.hi, got, tt.want)
		}
	}

	point, _ := NewRange("Price", floatPtr(100), floatPtr(100))
	if !point.Overlaps(50, floatPtr(100)) || !point.Overlaps(100, floatPtr(200)) {
		t.Error("a single-point range on a breakpoint overlaps both neighbours")
	}
	if point.Overlaps(200, nil) {
		t.Error("single-point range outside the interval")
	}
}

// --- ParameterFilter tests ---

func TestNewParameterFilter(t *testing.T) {
	p, err := NewParameterFilter(1, "Capacity", []int64{10, 11}, []string{" ", "1 TB"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Operator() != OpOr {
		t.Errorf("Operator() = %q, want OR default", p.Operator())
	}
	if !reflect.DeepEqual(p.Values(), []string{"1 TB"}) {
		t.Errorf("Values() = %v", p.Values())
	}
}

func TestNewParameterFilter_Invalid(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		ids  []int64
		vals []string
		op   Operator
	}{
		{"zero parameter", 0, []int64{1}, nil, OpOr},
		{"no options", 1, nil, nil, OpOr},
		{"bad option", 1, []int64{-1}, nil, OpOr},
		{"bad operator", 1, []int64{1}, nil, "XOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParameterFilter(tt.id, "", tt.ids, tt.vals, tt.op)
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("err = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestParseOperator(t *testing.T) {
	if op, ok := ParseOperator("and"); !ok || op != OpAnd {
		t.Errorf("ParseOperator(and) = %q, %v", op, ok)
	}
	if op, ok := ParseOperator(""); !ok || op != OpOr {
		t.Errorf("ParseOperator('') = %q, %v", op, ok)
	}
	if _, ok := ParseOperator("nand"); ok {
		t.Error("ParseOperator(nand) ok")
	}
}

// --- Criteria tests ---

func TestCriteria_Validate(t *testing.T) {
	p, _ := NewParameterFilter(1, "", []int64{1}, nil, OpOr)
	params := make([]ParameterFilter, MaxParameterFilters+1)
	for i := range params {
		params[i] = p
	}
	if err := (Criteria{Parameters: params}).Validate(); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("too many parameters: err = %v", err)
	}
	if err := (Criteria{CategoryIDs: []int64{0}}).Validate(); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("zero category: err = %v", err)
	}
	if err := (Criteria{Parameters: params[:MaxParameterFilters]}).Validate(); err != nil {
		t.Errorf("at limit: %v", err)
	}
}

func TestCriteria_Applied(t *testing.T) {
	price, _ := NewRange("Price", floatPtr(50), nil)
	c := Criteria{CategoryIDs: []int64{3}, Price: price, OnSale: boolPtr(false)}
	got := c.Applied()
	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"categoryIds", "minPrice", "onSale"}) {
		t.Errorf("Applied() keys = %v", keys)
	}
	if len((Criteria{}).Applied()) != 0 {
		t.Error("empty criteria should report no filters")
	}
}

// --- Compiled set tests ---

func TestSet_ActiveOnlyByDefault(t *testing.T) {
	inactive := candidate(t, catalog.Spec{ID: 1, Active: false})
	active := candidate(t, catalog.Spec{ID: 2, Active: true})

	s := Compile(Criteria{})
	if passes(&s, inactive) {
		t.Error("inactive candidate passed default filter")
	}
	if !passes(&s, active) {
		t.Error("active candidate rejected")
	}
	s = Compile(Criteria{IncludeInactive: true})
	if !passes(&s, inactive) {
		t.Error("includeInactive should let inactive candidates through")
	}
}

func TestSet_ListDimensionsAreOr(t *testing.T) {
	c := candidate(t, catalog.Spec{ID: 1, Active: true, CategoryIDs: []int64{7, 9}, ManufacturerID: 2, Status: "available"})

	tests := []struct {
		name string
		crit Criteria
		want Mask
	}{
		{"category hit", Criteria{CategoryIDs: []int64{3, 7}}, 0},
		{"category miss", Criteria{CategoryIDs: []int64{3}}, Category},
		{"manufacturer miss", Criteria{ManufacturerIDs: []int64{1}}, Manufacturer},
		{"status case-insensitive", Criteria{Statuses: []string{"Available", "discontinued"}}, 0},
		{"status miss", Criteria{Statuses: []string{"DISCONTINUED"}}, Status},
		{"two misses", Criteria{CategoryIDs: []int64{1}, ManufacturerIDs: []int64{1}}, Category | Manufacturer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compile(tt.crit)
			if got := s.Evaluate(c); got != tt.want {
				t.Errorf("Evaluate() = %b, want %b", got, tt.want)
			}
		})
	}
}

func TestSet_CategoryOrderDoesNotMatter(t *testing.T) {
	cands := []*catalog.Candidate{
		candidate(t, catalog.Spec{ID: 1, Active: true, CategoryIDs: []int64{3}}),
		candidate(t, catalog.Spec{ID: 2, Active: true, CategoryIDs: []int64{7}}),
		candidate(t, catalog.Spec{ID: 3, Active: true, CategoryIDs: []int64{5}}),
	}
	a := Compile(Criteria{CategoryIDs: []int64{3, 7}})
	b := Compile(Criteria{CategoryIDs: []int64{7, 3, 7}})
	for _, c := range cands {
		if passes(&a, c) != passes(&b, c) {
			t.Errorf("candidate %d: order changed the result", c.ID())
		}
	}
}

func TestSet_GeneralDimensions(t *testing.T) {
	c := candidate(t, catalog.Spec{
		ID: 1, Active: true, OnSale: true, Featured: false, InStock: true,
		Flags: []string{"new"}, Warranty: floatPtr(24),
	})
	warranty, _ := NewRange("Warranty", floatPtr(12), floatPtr(36))
	shortWarranty, _ := NewRange("Warranty", nil, floatPtr(12))
	weight, _ := NewRange("Weight", floatPtr(1), nil)

	tests := []struct {
		name string
		crit Criteria
		pass bool
	}{
		{"on sale", Criteria{OnSale: boolPtr(true)}, true},
		{"not on sale", Criteria{OnSale: boolPtr(false)}, false},
		{"featured", Criteria{Featured: boolPtr(true)}, false},
		{"in stock", Criteria{InStock: boolPtr(true)}, true},
		{"flag hit", Criteria{FlagNames: []string{"NEW", "hot"}}, true},
		{"flag miss", Criteria{FlagNames: []string{"hot"}}, false},
		{"warranty in range", Criteria{Warranty: warranty}, true},
		{"warranty out of range", Criteria{Warranty: shortWarranty}, false},
		{"unknown weight", Criteria{Weight: weight}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compile(tt.crit)
			got := s.Evaluate(c)
			if tt.pass && got != 0 {
				t.Errorf("Evaluate() = %b, want pass", got)
			}
			if !tt.pass && got != General {
				t.Errorf("Evaluate() = %b, want General", got)
			}
		})
	}
}

func TestSet_ParameterOperators(t *testing.T) {
	both := candidate(t, catalog.Spec{ID: 1, Active: true, Params: []catalog.ParamOption{
		{ParameterID: 1, OptionID: 10}, {ParameterID: 1, OptionID: 11},
	}})
	one := candidate(t, catalog.Spec{ID: 2, Active: true, Params: []catalog.ParamOption{
		{ParameterID: 1, OptionID: 10},
	}})
	other := candidate(t, catalog.Spec{ID: 3, Active: true, Params: []catalog.ParamOption{
		{ParameterID: 2, OptionID: 10},
	}})

	or, _ := NewParameterFilter(1, "", []int64{10, 11}, nil, OpOr)
	and, _ := NewParameterFilter(1, "", []int64{10, 11}, nil, OpAnd)
	orSet := Compile(Criteria{Parameters: []ParameterFilter{or}})
	andSet := Compile(Criteria{Parameters: []ParameterFilter{and}})

	for _, tt := range []struct {
		c       *catalog.Candidate
		or, and bool
	}{
		{both, true, true},
		{one, true, false},
		{other, false, false},
	} {
		if got := passes(&orSet, tt.c); got != tt.or {
			t.Errorf("OR match(%d) = %v", tt.c.ID(), got)
		}
		if got := passes(&andSet, tt.c); got != tt.and {
			t.Errorf("AND match(%d) = %v", tt.c.ID(), got)
		}
		if passes(&andSet, tt.c) && !passes(&orSet, tt.c) {
			t.Errorf("AND result %d not a subset of OR", tt.c.ID())
		}
	}
}

func TestSet_ParameterFiltersAreAnded(t *testing.T) {
	c := candidate(t, catalog.Spec{ID: 1, Active: true, Params: []catalog.ParamOption{
		{ParameterID: 1, OptionID: 10}, {ParameterID: 2, OptionID: 20, Value: "Red"},
	}})
	p1, _ := NewParameterFilter(1, "", []int64{10}, nil, OpOr)
	p2, _ := NewParameterFilter(2, "", nil, []string{"blue"}, OpOr)
	s := Compile(Criteria{Parameters: []ParameterFilter{p1, p2}})

	got := s.Evaluate(c)
	if got != ParameterBit(1) {
		t.Fatalf("Evaluate() = %b, want %b", got, ParameterBit(1))
	}
	if got.Without(s.ParameterMask(2)) != 0 {
		t.Error("excluding parameter 2 should clear the mask")
	}
	if s.ParameterMask(3) != 0 {
		t.Error("ParameterMask for unfiltered parameter should be zero")
	}
}

func TestSet_Selected(t *testing.T) {
	p, _ := NewParameterFilter(1, "", []int64{10}, []string{"Red"}, OpOr)
	s := Compile(Criteria{
		CategoryIDs: []int64{3}, ManufacturerIDs: []int64{2}, Statuses: []string{"available"},
		Parameters: []ParameterFilter{p},
	})
	if !s.SelectedCategory(3) || s.SelectedCategory(4) {
		t.Error("SelectedCategory mismatch")
	}
	if !s.SelectedManufacturer(2) {
		t.Error("SelectedManufacturer(2) = false")
	}
	if !s.SelectedStatus("AVAILABLE") {
		t.Error("SelectedStatus(AVAILABLE) = false")
	}
	if !s.SelectedOption(1, 10, "") || !s.SelectedOption(1, 99, "red") || s.SelectedOption(2, 10, "") {
		t.Error("SelectedOption mismatch")
	}
}

func TestMask_Without(t *testing.T) {
	m := Category | Price | General
	if got := m.Without(Price); got != Category|General {
		t.Errorf("Without(Price) = %b", got)
	}
	if got := (Price).Without(Price); got != 0 {
		t.Errorf("Without own dimension = %b", got)
	}
}

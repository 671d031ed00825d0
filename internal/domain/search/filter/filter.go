package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

// MaxParameterFilters is the maximum number of parameter filters per request.
const MaxParameterFilters = 32

// Range is an inclusive numeric interval. A nil bound is unbounded on that side.
type Range struct {
	min *float64
	max *float64
}

// NewRange validates and creates a Range. min > max is rejected, never swapped.
func NewRange(field string, minV, maxV *float64) (Range, error) {
	if minV != nil && (math.IsNaN(*minV) || math.IsInf(*minV, 0)) {
		return Range{}, domain.NewInvalidQuery("min"+field, "must be a finite number")
	}
	if maxV != nil && (math.IsNaN(*maxV) || math.IsInf(*maxV, 0)) {
		return Range{}, domain.NewInvalidQuery("max"+field, "must be a finite number")
	}
	if minV != nil && maxV != nil && *minV > *maxV {
		return Range{}, domain.NewInvalidQuery("min"+field,
			"must not exceed max%s (%v > %v)", field, *minV, *maxV)
	}
	return Range{min: minV, max: maxV}, nil
}

// Min returns the lower inclusive bound.
func (r Range) Min() *float64 { return r.min }

// Max returns the upper inclusive bound.
func (r Range) Max() *float64 { return r.max }

// IsEmpty reports whether the range has no bounds.
func (r Range) IsEmpty() bool { return r.min == nil && r.max == nil }

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if r.min != nil && v < *r.min {
		return false
	}
	if r.max != nil && v > *r.max {
		return false
	}
	return true
}

// ContainsOptional is Contains for optional values. An unknown value only passes an empty range.
func (r Range) ContainsOptional(v *float64) bool {
	if v == nil {
		return r.IsEmpty()
	}
	return r.Contains(*v)
}

// Overlaps reports whether the range shares more than a boundary point with [lo, hi].
// A single-point range overlaps every interval containing it. A nil hi is unbounded.
func (r Range) Overlaps(lo float64, hi *float64) bool {
	if r.min != nil && r.max != nil && *r.min == *r.max {
		return *r.min >= lo && (hi == nil || *r.min <= *hi)
	}
	if r.max != nil && *r.max <= lo {
		return false
	}
	if r.min != nil && hi != nil && *r.min >= *hi {
		return false
	}
	return true
}

// Operator combines option membership inside one parameter filter.
type Operator string

// Parameter filter operators.
const (
	OpOr  Operator = "OR"
	OpAnd Operator = "AND"
)

// ParseOperator resolves an operator case-insensitively. Empty input yields OpOr.
func ParseOperator(s string) (Operator, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "OR":
		return OpOr, true
	case "AND":
		return OpAnd, true
	}
	return "", false
}

// ParameterFilter restricts candidates by the options of one parameter.
type ParameterFilter struct {
	parameterID int64
	name        string
	optionIDs   []int64
	values      []string
	op          Operator
}

// NewParameterFilter validates and creates a ParameterFilter.
func NewParameterFilter(parameterID int64, name string, optionIDs []int64, values []string, op Operator) (ParameterFilter, error) {
	if parameterID <= 0 {
		return ParameterFilter{}, domain.NewInvalidQuery("parameterFilters", "parameter id must be positive")
	}
	if op == "" {
		op = OpOr
	}
	if op != OpOr && op != OpAnd {
		return ParameterFilter{}, domain.NewInvalidQuery("parameterFilters", "unknown operator %q", op)
	}
	ids := make([]int64, 0, len(optionIDs))
	for _, id := range optionIDs {
		if id <= 0 {
			return ParameterFilter{}, domain.NewInvalidQuery("parameterFilters",
				"option id must be positive for parameter %d", parameterID)
		}
		ids = append(ids, id)
	}
	vals := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			vals = append(vals, v)
		}
	}
	if len(ids) == 0 && len(vals) == 0 {
		return ParameterFilter{}, domain.NewInvalidQuery("parameterFilters",
			"parameter %d needs at least one option id or value", parameterID)
	}
	return ParameterFilter{parameterID: parameterID, name: name, optionIDs: ids, values: vals, op: op}, nil
}

// ParameterID returns the filtered parameter.
func (p ParameterFilter) ParameterID() int64 { return p.parameterID }

// Name returns the parameter display name supplied by the caller.
func (p ParameterFilter) Name() string { return p.name }

// OptionIDs returns the acceptable option ids.
func (p ParameterFilter) OptionIDs() []int64 { return p.optionIDs }

// Values returns the acceptable option values.
func (p ParameterFilter) Values() []string { return p.values }

// Operator returns the option membership operator.
func (p ParameterFilter) Operator() Operator { return p.op }

// Criteria is the structured filter part of a search request.
// List dimensions are OR-ed internally; all dimensions are AND-ed.
type Criteria struct {
	CategoryIDs     []int64
	ManufacturerIDs []int64
	Statuses        []string
	FlagNames       []string
	Price           Range
	Warranty        Range
	Weight          Range
	OnSale          *bool
	Featured        *bool
	InStock         *bool
	// IncludeInactive disables the active-only filter.
	IncludeInactive bool
	Parameters      []ParameterFilter
}

// Validate checks criteria limits not covered by the Range and ParameterFilter constructors.
func (c Criteria) Validate() error {
	if len(c.Parameters) > MaxParameterFilters {
		return domain.NewInvalidQuery("parameterFilters", "too many parameter filters (max %d)", MaxParameterFilters)
	}
	for _, id := range c.CategoryIDs {
		if id <= 0 {
			return domain.NewInvalidQuery("categoryIds", "ids must be positive, got %d", id)
		}
	}
	for _, id := range c.ManufacturerIDs {
		if id <= 0 {
			return domain.NewInvalidQuery("manufacturerIds", "ids must be positive, got %d", id)
		}
	}
	return nil
}

// Applied describes the active filter dimensions for response metadata.
func (c Criteria) Applied() map[string]any {
	out := make(map[string]any)
	if len(c.CategoryIDs) > 0 {
		out["categoryIds"] = c.CategoryIDs
	}
	if len(c.ManufacturerIDs) > 0 {
		out["manufacturerIds"] = c.ManufacturerIDs
	}
	if len(c.Statuses) > 0 {
		out["statuses"] = c.Statuses
	}
	if len(c.FlagNames) > 0 {
		out["flags"] = c.FlagNames
	}
	addRange(out, "Price", c.Price)
	addRange(out, "Warranty", c.Warranty)
	addRange(out, "Weight", c.Weight)
	addBool(out, "onSale", c.OnSale)
	addBool(out, "featured", c.Featured)
	addBool(out, "inStock", c.InStock)
	if c.IncludeInactive {
		out["includeInactive"] = true
	}
	if len(c.Parameters) > 0 {
		params := make([]string, 0, len(c.Parameters))
		for _, p := range c.Parameters {
			params = append(params, fmt.Sprintf("%d:%s:%v%v", p.parameterID, p.op, p.optionIDs, p.values))
		}
		out["parameterFilters"] = params
	}
	return out
}

func addRange(out map[string]any, name string, r Range) {
	if r.min != nil {
		out["min"+name] = *r.min
	}
	if r.max != nil {
		out["max"+name] = *r.max
	}
}

func addBool(out map[string]any, name string, b *bool) {
	if b != nil {
		out[name] = *b
	}
}

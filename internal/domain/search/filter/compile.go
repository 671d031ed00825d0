package filter

import (
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// Mask is a bitset of filter dimensions a candidate failed.
type Mask uint64

// Dimension bits. Parameter filters take one bit each starting at paramBit.
const (
	Category Mask = 1 << iota
	Manufacturer
	Price
	Status
	// General groups the dimensions that have no facet: flags, stock, sale, featured, active, warranty, weight.
	General
)

const paramBit = 8

// Without clears the given dimension bits.
func (m Mask) Without(dims Mask) Mask { return m &^ dims }

// Set is a compiled filter. Evaluation is pure and safe for concurrent use.
type Set struct {
	categories    map[int64]struct{}
	manufacturers map[int64]struct{}
	statuses      map[string]struct{}
	flags         map[string]struct{}
	price         Range
	warranty      Range
	weight        Range
	onSale        *bool
	featured      *bool
	inStock       *bool
	activeOnly    bool
	params        []ParameterFilter
}

// Compile turns criteria into a predicate set.
func Compile(c Criteria) Set {
	return Set{
		categories:    idSet(c.CategoryIDs),
		manufacturers: idSet(c.ManufacturerIDs),
		statuses:      stringSet(c.Statuses, strings.ToUpper),
		flags:         stringSet(c.FlagNames, strings.ToLower),
		price:         c.Price,
		warranty:      c.Warranty,
		weight:        c.Weight,
		onSale:        c.OnSale,
		featured:      c.Featured,
		inStock:       c.InStock,
		activeOnly:    !c.IncludeInactive,
		params:        c.Parameters,
	}
}

// Evaluate returns the dimensions the candidate fails. Zero means the candidate passes.
func (s *Set) Evaluate(c *catalog.Candidate) Mask {
	var m Mask
	if s.categories != nil && !anyIn(c.CategoryIDs(), s.categories) {
		m |= Category
	}
	if s.manufacturers != nil {
		if _, ok := s.manufacturers[c.ManufacturerID()]; !ok {
			m |= Manufacturer
		}
	}
	if !s.price.Contains(c.Price()) {
		m |= Price
	}
	if s.statuses != nil {
		if _, ok := s.statuses[c.Status()]; !ok {
			m |= Status
		}
	}
	if !s.matchGeneral(c) {
		m |= General
	}
	for i := range s.params {
		if !matchParam(&s.params[i], c) {
			m |= ParameterBit(i)
		}
	}
	return m
}

// ParameterBit returns the mask bit of the i-th parameter filter.
func ParameterBit(i int) Mask { return 1 << (paramBit + uint(i)) }

// ParameterMask returns the bits of every filter on the given parameter.
func (s *Set) ParameterMask(parameterID int64) Mask {
	var m Mask
	for i := range s.params {
		if s.params[i].parameterID == parameterID {
			m |= ParameterBit(i)
		}
	}
	return m
}

// SelectedCategory reports whether the category is part of the filter.
func (s *Set) SelectedCategory(id int64) bool { return has(s.categories, id) }

// SelectedManufacturer reports whether the manufacturer is part of the filter.
func (s *Set) SelectedManufacturer(id int64) bool { return has(s.manufacturers, id) }

// SelectedStatus reports whether the status is part of the filter.
func (s *Set) SelectedStatus(status string) bool { return has(s.statuses, status) }

// SelectedOption reports whether a parameter option is part of the filter.
func (s *Set) SelectedOption(parameterID, optionID int64, value string) bool {
	for i := range s.params {
		p := &s.params[i]
		if p.parameterID != parameterID {
			continue
		}
		for _, id := range p.optionIDs {
			if id == optionID {
				return true
			}
		}
		for _, v := range p.values {
			if strings.EqualFold(v, value) {
				return true
			}
		}
	}
	return false
}

// PriceRange returns the price filter.
func (s *Set) PriceRange() Range { return s.price }

func (s *Set) matchGeneral(c *catalog.Candidate) bool {
	if s.activeOnly && !c.Active() {
		return false
	}
	if s.onSale != nil && c.OnSale() != *s.onSale {
		return false
	}
	if s.featured != nil && c.Featured() != *s.featured {
		return false
	}
	if s.inStock != nil && c.InStock() != *s.inStock {
		return false
	}
	if !s.warranty.ContainsOptional(c.Warranty()) || !s.weight.ContainsOptional(c.Weight()) {
		return false
	}
	if s.flags != nil {
		found := false
		for _, f := range c.Flags() {
			if _, ok := s.flags[f]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchParam(p *ParameterFilter, c *catalog.Candidate) bool {
	if p.op == OpAnd {
		for _, id := range p.optionIDs {
			if !c.HasParam(p.parameterID, id, "") {
				return false
			}
		}
		for _, v := range p.values {
			if !c.HasParam(p.parameterID, 0, v) {
				return false
			}
		}
		return true
	}
	for _, id := range p.optionIDs {
		if c.HasParam(p.parameterID, id, "") {
			return true
		}
	}
	for _, v := range p.values {
		if c.HasParam(p.parameterID, 0, v) {
			return true
		}
	}
	return false
}

func idSet(ids []int64) map[int64]struct{} {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func stringSet(vals []string, norm func(string) string) map[string]struct{} {
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v = norm(strings.TrimSpace(v)); v != "" {
			out[v] = struct{}{}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func anyIn(ids []int64, set map[int64]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func has[K comparable](set map[K]struct{}, k K) bool {
	_, ok := set[k]
	return ok
}

// Package catalog holds the read-only product projection searched by the engine.
package catalog

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
)

// DefaultLanguage is the language every candidate must carry a name in.
const DefaultLanguage = query.DefaultLanguage

// ParamOption is one parameter value assigned to a candidate.
type ParamOption struct {
	ParameterID int64
	OptionID    int64
	Value       string
}

// Spec is the raw input for building a Candidate.
type Spec struct {
	ID             int64
	Names          map[string]string
	Descriptions   map[string]string
	Model          string
	Reference      string
	Barcode        string
	CategoryIDs    []int64
	ManufacturerID int64
	Price          float64
	Status         string
	Active         bool
	OnSale         bool
	Featured       bool
	InStock        bool
	Flags          []string
	Params         []ParamOption
	// Warranty in months, nil when unknown.
	Warranty *float64
	// Weight in kilograms, nil when unknown.
	Weight     *float64
	CreatedAt  time.Time
	Popularity int64
}

// Candidate is a product projection used for filtering, scoring and faceting (immutable value object).
type Candidate struct {
	id             int64
	names          map[string]string
	descriptions   map[string]string
	model          string
	reference      string
	barcode        string
	categoryIDs    []int64
	manufacturerID int64
	price          float64
	status         string
	active         bool
	onSale         bool
	featured       bool
	inStock        bool
	flags          []string
	params         []ParamOption
	warranty       *float64
	weight         *float64
	createdAt      time.Time
	popularity     int64
}

// NewCandidate validates and creates a Candidate.
func NewCandidate(s Spec) (Candidate, error) {
	c := ReconstructCandidate(s)
	if err := c.Validate(); err != nil {
		return Candidate{}, err
	}
	return c, nil
}

// ReconstructCandidate creates a Candidate without validation (storage hydration).
// Status is upper-cased and flag names lower-cased.
func ReconstructCandidate(s Spec) Candidate {
	flags := make([]string, 0, len(s.Flags))
	for _, f := range s.Flags {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			flags = append(flags, f)
		}
	}
	return Candidate{
		id:             s.ID,
		names:          cloneStrings(s.Names),
		descriptions:   cloneStrings(s.Descriptions),
		model:          s.Model,
		reference:      s.Reference,
		barcode:        s.Barcode,
		categoryIDs:    append([]int64(nil), s.CategoryIDs...),
		manufacturerID: s.ManufacturerID,
		price:          s.Price,
		status:         strings.ToUpper(strings.TrimSpace(s.Status)),
		active:         s.Active,
		onSale:         s.OnSale,
		featured:       s.Featured,
		inStock:        s.InStock,
		flags:          flags,
		params:         append([]ParamOption(nil), s.Params...),
		warranty:       s.Warranty,
		weight:         s.Weight,
		createdAt:      s.CreatedAt,
		popularity:     s.Popularity,
	}
}

// Validate checks the invariants a candidate needs to be searchable.
func (c *Candidate) Validate() error {
	if c.id <= 0 {
		return fmt.Errorf("candidate id must be positive, got %d", c.id)
	}
	if strings.TrimSpace(c.names[DefaultLanguage]) == "" {
		return fmt.Errorf("candidate %d: name in %q is required", c.id, DefaultLanguage)
	}
	if math.IsNaN(c.price) || math.IsInf(c.price, 0) || c.price < 0 {
		return fmt.Errorf("candidate %d: invalid price %v", c.id, c.price)
	}
	if c.warranty != nil && (math.IsNaN(*c.warranty) || *c.warranty < 0) {
		return fmt.Errorf("candidate %d: invalid warranty %v", c.id, *c.warranty)
	}
	if c.weight != nil && (math.IsNaN(*c.weight) || *c.weight < 0) {
		return fmt.Errorf("candidate %d: invalid weight %v", c.id, *c.weight)
	}
	for _, p := range c.params {
		if p.ParameterID <= 0 {
			return fmt.Errorf("candidate %d: parameter id must be positive", c.id)
		}
	}
	return nil
}

// ID returns the product identifier.
func (c *Candidate) ID() int64 { return c.id }

// Names returns the localized names keyed by language code.
func (c *Candidate) Names() map[string]string { return c.names }

// Descriptions returns the localized descriptions keyed by language code.
func (c *Candidate) Descriptions() map[string]string { return c.descriptions }

// Model returns the model designation.
func (c *Candidate) Model() string { return c.model }

// Reference returns the reference number.
func (c *Candidate) Reference() string { return c.reference }

// Barcode returns the barcode.
func (c *Candidate) Barcode() string { return c.barcode }

// CategoryIDs returns the categories the product belongs to.
func (c *Candidate) CategoryIDs() []int64 { return c.categoryIDs }

// ManufacturerID returns the manufacturer id, 0 when none.
func (c *Candidate) ManufacturerID() int64 { return c.manufacturerID }

// Price returns the final price.
func (c *Candidate) Price() float64 { return c.price }

// Status returns the upper-cased product status.
func (c *Candidate) Status() string { return c.status }

// Active reports whether the product is active.
func (c *Candidate) Active() bool { return c.active }

// OnSale reports whether the product is on sale.
func (c *Candidate) OnSale() bool { return c.onSale }

// Featured reports whether the product is featured.
func (c *Candidate) Featured() bool { return c.featured }

// InStock reports whether the product is in stock.
func (c *Candidate) InStock() bool { return c.inStock }

// Flags returns the lower-cased flag names.
func (c *Candidate) Flags() []string { return c.flags }

// Params returns the parameter/option assignments.
func (c *Candidate) Params() []ParamOption { return c.params }

// Warranty returns the warranty in months, nil when unknown.
func (c *Candidate) Warranty() *float64 { return c.warranty }

// Weight returns the weight in kilograms, nil when unknown.
func (c *Candidate) Weight() *float64 { return c.weight }

// CreatedAt returns the creation time.
func (c *Candidate) CreatedAt() time.Time { return c.createdAt }

// Popularity returns the popularity rank input.
func (c *Candidate) Popularity() int64 { return c.popularity }

// Text returns the raw text of a field. Localized fields fall back to DefaultLanguage.
func (c *Candidate) Text(f Field, lang string) string {
	switch f {
	case Name:
		return localized(c.names, lang)
	case Description:
		return localized(c.descriptions, lang)
	case Model:
		return c.model
	case Reference:
		return c.reference
	case Barcode:
		return c.barcode
	}
	return ""
}

// Languages returns the language codes the candidate carries localized text in.
func (c *Candidate) Languages() []string {
	seen := map[string]bool{DefaultLanguage: true}
	out := []string{DefaultLanguage}
	for _, m := range []map[string]string{c.names, c.descriptions} {
		for lang := range m {
			if !seen[lang] {
				seen[lang] = true
				out = append(out, lang)
			}
		}
	}
	return out
}

// HasParam reports whether the candidate has the option (by id or case-insensitive value) for a parameter.
func (c *Candidate) HasParam(parameterID, optionID int64, value string) bool {
	for _, p := range c.params {
		if p.ParameterID != parameterID {
			continue
		}
		if optionID != 0 && p.OptionID == optionID {
			return true
		}
		if value != "" && strings.EqualFold(p.Value, value) {
			return true
		}
	}
	return false
}

func localized(m map[string]string, lang string) string {
	if v, ok := m[lang]; ok && v != "" {
		return v
	}
	return m[DefaultLanguage]
}

func cloneStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

package request

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
)

// Paging limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Limits bounds the page size of a request.
type Limits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultLimits returns the built-in page size limits.
func DefaultLimits() Limits {
	return Limits{DefaultSize: DefaultPageSize, MaxSize: MaxPageSize}
}

// FieldMatches holds explicit per-field text inputs.
type FieldMatches struct {
	Name        string
	Description string
	Reference   string
	Model       string
	Barcode     string
}

// Get returns the explicit input for a field.
func (m FieldMatches) Get(f catalog.Field) string {
	switch f {
	case catalog.Name:
		return m.Name
	case catalog.Description:
		return m.Description
	case catalog.Reference:
		return m.Reference
	case catalog.Model:
		return m.Model
	case catalog.Barcode:
		return m.Barcode
	}
	return ""
}

// Params is the raw input for building a Request.
type Params struct {
	Query         string
	Language      string
	FieldMatches  FieldMatches
	Fields        []catalog.Field
	Criteria      filter.Criteria
	Mode          mode.Mode
	ExactMatch    bool
	FuzzySearch   bool
	SortBy        string
	SortDirection string
	Page          int
	Size          int
	Faceted       bool
	// Timeout overrides the service default when positive.
	Timeout time.Duration
}

// Request is a validated search request.
type Request struct {
	query       query.Query
	fieldInputs map[catalog.Field]query.Analyzed
	fields      []catalog.Field
	criteria    filter.Criteria
	mode        mode.Mode
	exact       bool
	fuzzy       bool
	sortBy      SortKey
	direction   Direction
	page        int
	size        int
	faceted     bool
	timeout     time.Duration
}

// New validates and normalizes search parameters with DefaultLimits.
func New(p Params) (Request, error) {
	return NewWithLimits(p, DefaultLimits())
}

// NewWithLimits validates and normalizes search parameters.
// Defaults: mode=ALL_FIELDS, sort=relevance, direction desc for relevance and asc otherwise, size=l.DefaultSize.
func NewWithLimits(p Params, l Limits) (Request, error) {
	q, err := query.Normalize(p.Query, p.Language)
	if err != nil {
		return Request{}, err
	}

	m := p.Mode
	if m == "" {
		m = mode.AllFields
	}
	if !m.IsValid() {
		return Request{}, domain.NewInvalidQuery("searchMode", "unknown search mode %q", m)
	}

	inputs := make(map[catalog.Field]query.Analyzed)
	for _, f := range catalog.AllFields() {
		raw := p.FieldMatches.Get(f)
		if utf8.RuneCountInString(raw) > query.MaxQueryLength {
			return Request{}, domain.NewInvalidQuery(string(f), "too long (max %d chars)", query.MaxQueryLength)
		}
		if a := query.Analyze(raw, q.Language()); len(a.Tokens) > 0 {
			inputs[f] = a
		}
	}

	fields, err := selectFields(m, p.Fields, inputs)
	if err != nil {
		return Request{}, err
	}
	if m == mode.SpecificFields && len(fields) == 0 && (!q.IsEmpty() || len(inputs) > 0) {
		return Request{}, domain.NewInvalidQuery("searchFields", "at least one field is required for %s", mode.SpecificFields)
	}

	if err := p.Criteria.Validate(); err != nil {
		return Request{}, err
	}

	sortBy, ok := ParseSortKey(p.SortBy)
	if !ok {
		return Request{}, domain.NewInvalidQuery("sortBy", "unknown sort key %q", p.SortBy)
	}
	dir, ok := ParseDirection(p.SortDirection, sortBy)
	if !ok {
		return Request{}, domain.NewInvalidQuery("sortDirection", "unknown sort direction %q", p.SortDirection)
	}

	if p.Page < 0 {
		return Request{}, domain.NewInvalidQuery("page", "must not be negative")
	}
	if l.MaxSize <= 0 || l.MaxSize > MaxPageSize {
		l.MaxSize = MaxPageSize
	}
	if l.DefaultSize <= 0 || l.DefaultSize > l.MaxSize {
		l.DefaultSize = min(DefaultPageSize, l.MaxSize)
	}
	size := p.Size
	if size == 0 {
		size = l.DefaultSize
	}
	if size < 1 || size > l.MaxSize {
		return Request{}, domain.NewInvalidQuery("size", "must be between 1 and %d", l.MaxSize)
	}
	if p.Timeout < 0 {
		return Request{}, domain.NewInvalidQuery("timeoutMs", "must not be negative")
	}

	return Request{
		query:       q,
		fieldInputs: inputs,
		fields:      fields,
		criteria:    p.Criteria,
		mode:        m,
		exact:       p.ExactMatch,
		fuzzy:       p.FuzzySearch,
		sortBy:      sortBy,
		direction:   dir,
		page:        p.Page,
		size:        size,
		faceted:     p.Faceted,
		timeout:     p.Timeout,
	}, nil
}

// selectFields returns the searched fields in canonical order.
// SPECIFIC_FIELDS searches the requested fields plus every field with an explicit input.
func selectFields(m mode.Mode, requested []catalog.Field, inputs map[catalog.Field]query.Analyzed) ([]catalog.Field, error) {
	if m != mode.SpecificFields {
		return catalog.AllFields(), nil
	}
	want := make(map[catalog.Field]bool)
	for _, f := range requested {
		if !f.IsValid() {
			return nil, domain.NewInvalidQuery("searchFields", "unknown field %q", f)
		}
		want[f] = true
	}
	for f := range inputs {
		want[f] = true
	}
	var out []catalog.Field
	for _, f := range catalog.AllFields() {
		if want[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Query returns the normalized free-text query.
func (r *Request) Query() query.Query { return r.query }

// Language returns the resolved language code.
func (r *Request) Language() string { return r.query.Language() }

// FieldInput returns the analyzed explicit input for a field.
func (r *Request) FieldInput(f catalog.Field) query.Analyzed { return r.fieldInputs[f] }

// HasText reports whether the request carries any query or explicit field text.
func (r *Request) HasText() bool { return !r.query.IsEmpty() || len(r.fieldInputs) > 0 }

// SearchedFields returns the fields that contribute to scoring.
func (r *Request) SearchedFields() []catalog.Field { return r.fields }

// Criteria returns the structured filters.
func (r *Request) Criteria() filter.Criteria { return r.criteria }

// Mode returns the text matching strategy.
func (r *Request) Mode() mode.Mode { return r.mode }

// ExactMatch reports whether only full-field equality matches count.
func (r *Request) ExactMatch() bool { return r.exact }

// FuzzySearch reports whether bounded edit distance is tolerated.
func (r *Request) FuzzySearch() bool { return r.fuzzy }

// SortBy returns the ordering key.
func (r *Request) SortBy() SortKey { return r.sortBy }

// Direction returns the ordering direction.
func (r *Request) Direction() Direction { return r.direction }

// Page returns the zero-based page index.
func (r *Request) Page() int { return r.page }

// Size returns the page size.
func (r *Request) Size() int { return r.size }

// Faceted reports whether facets are requested.
func (r *Request) Faceted() bool { return r.faceted }

// Timeout returns the per-request timeout, 0 for the service default.
func (r *Request) Timeout() time.Duration { return r.timeout }

// WithQuery returns a copy of the request searching for q instead.
func (r Request) WithQuery(q query.Query) Request {
	r.query = q
	return r
}

// Fingerprint returns a canonical representation of everything that affects the outcome.
// Reordering values inside a list dimension does not change it.
func (r *Request) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "q=%s|lang=%s|mode=%s|exact=%t|fuzzy=%t|sort=%s:%s|page=%d:%d|facets=%t",
		r.query.Processed(), r.query.Language(), r.mode, r.exact, r.fuzzy,
		r.sortBy, r.direction, r.page, r.size, r.faceted)
	for _, f := range r.fields {
		b.WriteString("|f=")
		b.WriteString(string(f))
	}
	for _, f := range catalog.AllFields() {
		if in, ok := r.fieldInputs[f]; ok {
			fmt.Fprintf(&b, "|in.%s=%s", f, in.Folded)
		}
	}
	c := r.criteria
	writeIDs(&b, "cat", c.CategoryIDs)
	writeIDs(&b, "man", c.ManufacturerIDs)
	writeStrings(&b, "status", c.Statuses, strings.ToUpper)
	writeStrings(&b, "flag", c.FlagNames, strings.ToLower)
	writeRange(&b, "price", c.Price)
	writeRange(&b, "warranty", c.Warranty)
	writeRange(&b, "weight", c.Weight)
	writeBool(&b, "sale", c.OnSale)
	writeBool(&b, "featured", c.Featured)
	writeBool(&b, "stock", c.InStock)
	fmt.Fprintf(&b, "|inactive=%t", c.IncludeInactive)

	params := make([]string, 0, len(c.Parameters))
	for _, p := range c.Parameters {
		ids := slices.Clone(p.OptionIDs())
		slices.Sort(ids)
		vals := make([]string, 0, len(p.Values()))
		for _, v := range p.Values() {
			vals = append(vals, strings.ToLower(v))
		}
		slices.Sort(vals)
		params = append(params, fmt.Sprintf("%d:%s:%v:%v", p.ParameterID(), p.Operator(), ids, vals))
	}
	slices.Sort(params)
	for _, p := range params {
		b.WriteString("|param=")
		b.WriteString(p)
	}
	return b.String()
}

func writeIDs(b *strings.Builder, name string, ids []int64) {
	if len(ids) == 0 {
		return
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	b.WriteString("|" + name + "=")
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
}

func writeStrings(b *strings.Builder, name string, vals []string, norm func(string) string) {
	if len(vals) == 0 {
		return
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, norm(strings.TrimSpace(v)))
	}
	slices.Sort(out)
	out = slices.Compact(out)
	b.WriteString("|" + name + "=" + strings.Join(out, ","))
}

func writeRange(b *strings.Builder, name string, r filter.Range) {
	if r.IsEmpty() {
		return
	}
	b.WriteString("|" + name + "=")
	if r.Min() != nil {
		b.WriteString(strconv.FormatFloat(*r.Min(), 'g', -1, 64))
	}
	b.WriteByte(':')
	if r.Max() != nil {
		b.WriteString(strconv.FormatFloat(*r.Max(), 'g', -1, 64))
	}
}

func writeBool(b *strings.Builder, name string, v *bool) {
	if v != nil {
		fmt.Fprintf(b, "|%s=%t", name, *v)
	}
}

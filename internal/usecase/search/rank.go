package search

import (
	"cmp"
	"context"
	"slices"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// checkEvery is how many candidates are scanned between deadline checks.
const checkEvery = 512

// fieldSet is a bitset over catalog.AllFields indexes.
type fieldSet uint8

func (s fieldSet) fields() []catalog.Field {
	if s == 0 {
		return nil
	}
	var out []catalog.Field
	for i, f := range catalog.AllFields() {
		if s&(1<<i) != 0 {
			out = append(out, f)
		}
	}
	return out
}

// match is a candidate that passed filters and text matching.
type match struct {
	idx     int
	score   float64
	matched fieldSet
}

// facetEntry is a text-matching candidate with the filter dimensions it failed.
type facetEntry struct {
	idx  int
	mask filter.Mask
}

// scan is the output of one pass over the snapshot.
type scan struct {
	matches []match
	// entries is only filled when facets are requested.
	entries []facetEntry
}

type fieldQuery struct {
	index  int
	field  catalog.Field
	weight float64
	tokens []string
	// targets are the folded strings compared in exact mode.
	targets []string
}

// scorer scores candidates for one request. It is read-only after construction.
type scorer struct {
	cfg      *Config
	mode     mode.Mode
	exact    bool
	fuzzy    bool
	matchAll bool
	fields   []fieldQuery
	norm     float64
	phrase   string
}

func newScorer(cfg *Config, req *request.Request) *scorer {
	s := &scorer{
		cfg:      cfg,
		mode:     req.Mode(),
		exact:    req.ExactMatch(),
		fuzzy:    req.FuzzySearch(),
		matchAll: !req.HasText(),
		phrase:   req.Query().Processed(),
	}
	q := req.Query()
	searched := make(map[catalog.Field]bool)
	for _, f := range req.SearchedFields() {
		searched[f] = true
	}

	total := len(q.Tokens())
	for i, f := range catalog.AllFields() {
		in := req.FieldInput(f)
		total += len(in.Tokens)
		// Explicit inputs always target their own field; free text only targets searched fields.
		if !searched[f] && len(in.Tokens) == 0 {
			continue
		}
		fq := fieldQuery{index: i, field: f, weight: 1}
		if s.mode == mode.Smart {
			fq.weight = cfg.weight(f)
		}
		if searched[f] {
			fq.tokens = append(fq.tokens, q.Tokens()...)
			if !q.IsEmpty() {
				fq.targets = append(fq.targets, q.Processed())
			}
		}
		fq.tokens = append(fq.tokens, in.Tokens...)
		if in.Folded != "" {
			fq.targets = append(fq.targets, in.Folded)
		}
		if len(fq.tokens) > 0 {
			s.fields = append(s.fields, fq)
		}
	}
	s.norm = float64(total)
	return s
}

// score returns the relevance of a candidate and the fields that matched. Zero means no match.
func (s *scorer) score(c *catalog.Candidate, doc *catalog.Doc) (float64, fieldSet) {
	if s.matchAll {
		return 1, 0
	}
	if s.exact {
		return s.scoreExact(doc)
	}

	var sum float64
	var matched fieldSet
	for i := range s.fields {
		fq := &s.fields[i]
		target := doc.Field(fq.field).Tokens
		if len(target) == 0 {
			continue
		}
		var fieldSum float64
		for _, t := range fq.tokens {
			fieldSum += s.hit(t, target)
		}
		if fieldSum > 0 {
			sum += fq.weight * fieldSum
			matched |= 1 << fq.index
		}
	}
	if sum == 0 {
		return 0, 0
	}
	score := sum / s.norm
	if s.mode == mode.Smart {
		if s.phrase != "" && doc.Field(catalog.Name).Folded == s.phrase {
			score *= s.cfg.ExactNameBoost
		}
		if c.Featured() {
			score += s.cfg.FeaturedBoost
		}
		if c.OnSale() {
			score += s.cfg.OnSaleBoost
		}
	}
	return score, matched
}

// scoreExact compares whole folded field values. Equality scores 1.0; with fuzzy enabled,
// values within the distance bound score below 1.0.
func (s *scorer) scoreExact(doc *catalog.Doc) (float64, fieldSet) {
	var best float64
	var matched fieldSet
	for i := range s.fields {
		fq := &s.fields[i]
		value := doc.Field(fq.field).Folded
		if value == "" {
			continue
		}
		for _, target := range fq.targets {
			sim := 0.0
			if value == target {
				sim = 1
			} else if s.fuzzy {
				bound := s.cfg.Fuzzy.MaxDistance(target)
				if d, ok := query.Within(target, value, bound); ok {
					sim = query.Similarity(d, bound)
				}
			}
			switch {
			case sim > best:
				best = sim
				matched = 1 << fq.index
			case sim > 0 && sim == best:
				matched |= 1 << fq.index
			}
		}
	}
	return best, matched
}

// hit returns 1.0 for an exact token match, a distance-penalized weight for a fuzzy match, else 0.
func (s *scorer) hit(token string, target []string) float64 {
	for _, t := range target {
		if t == token {
			return 1
		}
	}
	if !s.fuzzy {
		return 0
	}
	bound := s.cfg.Fuzzy.MaxDistance(token)
	best := 0.0
	for _, t := range target {
		if d, ok := query.Within(token, t, bound); ok {
			if sim := query.Similarity(d, bound); sim > best {
				best = sim
			}
		}
	}
	return best
}

// scanSnapshot filters and scores every candidate of the snapshot.
func scanSnapshot(
	ctx context.Context, snap *catalog.Snapshot, req *request.Request, set *filter.Set, sc *scorer,
) (scan, error) {
	var out scan
	lang := req.Language()
	faceted := req.Faceted()
	for i := 0; i < snap.Len(); i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return scan{}, deadlineError(err)
			}
		}
		c := snap.At(i)
		mask := set.Evaluate(c)
		if mask != 0 && (!faceted || mask&filter.General != 0) {
			continue
		}
		score, matched := sc.score(c, snap.Doc(i, lang))
		if score <= 0 {
			continue
		}
		if mask == 0 {
			out.matches = append(out.matches, match{idx: i, score: score, matched: matched})
		}
		if faceted {
			out.entries = append(out.entries, facetEntry{idx: i, mask: mask})
		}
	}
	return out, nil
}

// sortMatches orders matches by the requested key. Relevance is always by descending score.
// Ties are broken by candidate id ascending.
func sortMatches(snap *catalog.Snapshot, req *request.Request, matches []match) {
	lang := req.Language()
	key := req.SortBy()
	desc := key == request.SortRelevance || req.Direction() == request.Desc
	slices.SortFunc(matches, func(a, b match) int {
		var c int
		switch key {
		case request.SortPrice:
			c = cmp.Compare(snap.At(a.idx).Price(), snap.At(b.idx).Price())
		case request.SortName:
			c = cmp.Compare(snap.Doc(a.idx, lang).Field(catalog.Name).Folded, snap.Doc(b.idx, lang).Field(catalog.Name).Folded)
		case request.SortCreatedAt:
			c = snap.At(a.idx).CreatedAt().Compare(snap.At(b.idx).CreatedAt())
		case request.SortPopularity:
			c = cmp.Compare(snap.At(a.idx).Popularity(), snap.At(b.idx).Popularity())
		default:
			c = cmp.Compare(a.score, b.score)
		}
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		// Snapshot order is id order.
		return cmp.Compare(a.idx, b.idx)
	})
}

func toScored(snap *catalog.Snapshot, matches []match) []result.Scored {
	out := make([]result.Scored, len(matches))
	for i, m := range matches {
		out[i] = result.Scored{ID: snap.At(m.idx).ID(), Score: m.score, Matched: m.matched.fields()}
	}
	return out
}

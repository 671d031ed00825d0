package search

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// minPrefixLength is the shortest query token used for prefix completion.
const minPrefixLength = 2

type correctionKey struct {
	version uint64
	lang    string
	token   string
}

// correction is the closest known term to an unknown token.
type correction struct {
	term     string
	distance int
	freq     int
	found    bool
}

func (c correction) better(o correction) bool {
	switch {
	case !o.found:
		return c.found
	case !c.found:
		return false
	case c.distance != o.distance:
		return c.distance < o.distance
	case c.freq != o.freq:
		return c.freq > o.freq
	}
	return c.term < o.term
}

// corrector produces completions and spelling corrections from a snapshot vocabulary.
// Corrections are memoized per snapshot version; the memo is safe for concurrent use.
type corrector struct {
	cfg  *Config
	memo *lru.Cache[correctionKey, correction]
}

func newCorrector(cfg *Config) (*corrector, error) {
	size := cfg.CorrectionCacheSize
	if size <= 0 {
		size = 1
	}
	memo, err := lru.New[correctionKey, correction](size)
	if err != nil {
		return nil, fmt.Errorf("create correction cache: %w", err)
	}
	return &corrector{cfg: cfg, memo: memo}, nil
}

func (c *corrector) bound(token string) int {
	return min(c.cfg.MaxCorrectionDistance, c.cfg.Fuzzy.MaxDistance(token))
}

type rankedPhrase struct {
	phrase   *catalog.Phrase
	prefix   bool
	distance int
}

// suggest returns up to limit vocabulary phrases sharing a token prefix or a small edit distance with the tokens.
// Prefix matches rank before fuzzy ones, then by distance, frequency descending and text.
func (c *corrector) suggest(vocab *catalog.Vocabulary, tokens []string, limit int) []result.Suggestion {
	if limit <= 0 || len(tokens) == 0 {
		return nil
	}
	phrases := vocab.Phrases()
	var ranked []rankedPhrase
	for i := range phrases {
		p := &phrases[i]
		if r, ok := c.matchPhrase(p, tokens); ok {
			ranked = append(ranked, r)
		}
	}
	slices.SortFunc(ranked, func(a, b rankedPhrase) int {
		if a.prefix != b.prefix {
			if a.prefix {
				return -1
			}
			return 1
		}
		if x := cmp.Compare(a.distance, b.distance); x != 0 {
			return x
		}
		if x := cmp.Compare(b.phrase.Frequency, a.phrase.Frequency); x != 0 {
			return x
		}
		return cmp.Compare(a.phrase.Text, b.phrase.Text)
	})

	out := make([]result.Suggestion, 0, min(limit, len(ranked)))
	seen := make(map[string]struct{})
	for _, r := range ranked {
		key := strings.ToLower(r.phrase.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, result.Suggestion{Text: r.phrase.Text, Kind: result.SuggestionKind(r.phrase.Kind)})
		if len(out) == limit {
			break
		}
	}
	return out
}

func (c *corrector) matchPhrase(p *catalog.Phrase, tokens []string) (rankedPhrase, bool) {
	best := rankedPhrase{phrase: p}
	found := false
	for _, qt := range tokens {
		bound := c.bound(qt)
		for _, pt := range p.Tokens {
			if utf8.RuneCountInString(qt) >= minPrefixLength && strings.HasPrefix(pt, qt) {
				best.prefix, best.distance = true, 0
				found = true
				continue
			}
			if d, ok := query.Within(qt, pt, bound); ok {
				if !found || (!best.prefix && d < best.distance) {
					best.distance = d
				}
				found = true
			}
		}
	}
	return best, found
}

// correct returns the closest known term to any unknown query token.
// Ties prefer lower distance, higher frequency, then lexicographic order.
func (c *corrector) correct(vocab *catalog.Vocabulary, version uint64, lang string, tokens []string) (string, bool) {
	var best correction
	for _, t := range tokens {
		if vocab.Contains(t) {
			continue
		}
		key := correctionKey{version: version, lang: lang, token: t}
		cand, ok := c.memo.Get(key)
		if !ok {
			cand = c.closest(vocab, t)
			c.memo.Add(key, cand)
		}
		if cand.better(best) {
			best = cand
		}
	}
	return best.term, best.found
}

func (c *corrector) closest(vocab *catalog.Vocabulary, token string) correction {
	bound := c.bound(token)
	var best correction
	if bound <= 0 {
		return best
	}
	for _, known := range vocab.Tokens() {
		d, ok := query.Within(token, known, bound)
		if !ok {
			continue
		}
		cand := correction{term: known, distance: d, freq: vocab.Frequency(known), found: true}
		if cand.better(best) {
			best = cand
		}
	}
	return best
}

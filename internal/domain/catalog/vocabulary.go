package catalog

import (
	"sort"

	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
)

// PhraseKind tells where a vocabulary phrase came from.
type PhraseKind string

// Phrase kinds.
const (
	PhraseProduct      PhraseKind = "product"
	PhraseModel        PhraseKind = "model"
	PhraseManufacturer PhraseKind = "manufacturer"
	PhraseCategory     PhraseKind = "category"
)

// Phrase is a suggestable catalog term.
type Phrase struct {
	Text   string
	Kind   PhraseKind
	Tokens []string
	// Frequency is the number of candidates carrying the phrase.
	Frequency int
}

// Vocabulary indexes the terms known to a snapshot for one language.
// Correction targets come from names, models, manufacturers and categories only;
// every searchable field still counts as known.
type Vocabulary struct {
	phrases []Phrase
	known   map[string]struct{}
	freq    map[string]int
	tokens  []string
}

// Phrases returns suggestable phrases sorted by text.
func (v *Vocabulary) Phrases() []Phrase { return v.phrases }

// Tokens returns the correction targets sorted lexicographically.
func (v *Vocabulary) Tokens() []string { return v.tokens }

// Frequency returns the number of candidates whose phrases contain the token.
func (v *Vocabulary) Frequency(token string) int { return v.freq[token] }

// Contains reports whether the token occurs in any searchable field of the catalog.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.known[token]
	return ok
}

type phraseKey struct {
	kind   PhraseKind
	folded string
}

type vocabularyBuilder struct {
	phrases map[phraseKey]*Phrase
	known   map[string]struct{}
	freq    map[string]int
}

func newVocabularyBuilder() *vocabularyBuilder {
	return &vocabularyBuilder{
		phrases: make(map[phraseKey]*Phrase),
		known:   make(map[string]struct{}),
		freq:    make(map[string]int),
	}
}

func (b *vocabularyBuilder) addCandidate(c *Candidate, doc *Doc, dict Dictionary, lang string) {
	for fi := range doc.fields {
		for _, t := range doc.fields[fi].Tokens {
			b.known[t] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	count := func(tokens []string) {
		for _, t := range tokens {
			b.known[t] = struct{}{}
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				b.freq[t]++
			}
		}
	}

	name := doc.Field(Name)
	count(name.Tokens)
	b.addPhrase(PhraseProduct, c.Text(Name, lang), name)
	if c.model != "" {
		model := doc.Field(Model)
		count(model.Tokens)
		b.addPhrase(PhraseModel, c.model, model)
	}
	if c.manufacturerID != 0 {
		if name, ok := dict.Manufacturers[c.manufacturerID]; ok && name != "" {
			a := query.Analyze(name, lang)
			count(a.Tokens)
			b.addPhrase(PhraseManufacturer, name, a)
		}
	}
	for _, id := range c.categoryIDs {
		if name, ok := dict.Categories[id]; ok && name != "" {
			a := query.Analyze(name, lang)
			count(a.Tokens)
			b.addPhrase(PhraseCategory, name, a)
		}
	}
}

func (b *vocabularyBuilder) addPhrase(kind PhraseKind, text string, a query.Analyzed) {
	if len(a.Tokens) == 0 {
		return
	}
	key := phraseKey{kind: kind, folded: a.Folded}
	if p, ok := b.phrases[key]; ok {
		p.Frequency++
		return
	}
	b.phrases[key] = &Phrase{Text: text, Kind: kind, Tokens: a.Tokens, Frequency: 1}
}

func (b *vocabularyBuilder) build() *Vocabulary {
	v := &Vocabulary{
		phrases: make([]Phrase, 0, len(b.phrases)),
		known:   b.known,
		freq:    b.freq,
		tokens:  make([]string, 0, len(b.freq)),
	}
	for _, p := range b.phrases {
		v.phrases = append(v.phrases, *p)
	}
	sort.Slice(v.phrases, func(i, j int) bool {
		if v.phrases[i].Text != v.phrases[j].Text {
			return v.phrases[i].Text < v.phrases[j].Text
		}
		return v.phrases[i].Kind < v.phrases[j].Kind
	})
	for t := range b.freq {
		v.tokens = append(v.tokens, t)
	}
	sort.Strings(v.tokens)
	return v
}

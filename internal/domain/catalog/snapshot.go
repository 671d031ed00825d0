package catalog

import (
	"sort"
	"strconv"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
)

// Dictionary carries display names for facet labels and the suggestion vocabulary.
type Dictionary struct {
	Categories    map[int64]string
	Manufacturers map[int64]string
	Parameters    map[int64]string
}

// CategoryName returns the category display name, or its id when unknown.
func (d Dictionary) CategoryName(id int64) string { return label(d.Categories, id) }

// ManufacturerName returns the manufacturer display name, or its id when unknown.
func (d Dictionary) ManufacturerName(id int64) string { return label(d.Manufacturers, id) }

// ParameterName returns the parameter display name, or its id when unknown.
func (d Dictionary) ParameterName(id int64) string { return label(d.Parameters, id) }

func label(m map[int64]string, id int64) string {
	if v, ok := m[id]; ok && v != "" {
		return v
	}
	return strconv.FormatInt(id, 10)
}

// Source is a full catalog read from the system of record, before validation.
type Source struct {
	Candidates []Candidate
	Dictionary Dictionary
}

// Doc is the analyzed text of one candidate in one language.
type Doc struct {
	fields [fieldCount]query.Analyzed
}

// Field returns the analyzed text of a searchable field.
func (d *Doc) Field(f Field) query.Analyzed {
	i := f.index()
	if i < 0 {
		return query.Analyzed{}
	}
	return d.fields[i]
}

type languageView struct {
	docs  []Doc
	vocab *Vocabulary
}

// Snapshot is an immutable, versioned view of the catalog.
// Candidates are ordered by id ascending.
type Snapshot struct {
	version    uint64
	builtAt    time.Time
	candidates []Candidate
	dict       Dictionary
	views      map[string]*languageView
	skipped    int
}

// NewSnapshot builds a snapshot from loaded candidates.
// Malformed candidates and duplicate ids are skipped and counted; the first occurrence of an id wins.
func NewSnapshot(version uint64, candidates []Candidate, dict Dictionary) *Snapshot {
	s := &Snapshot{
		version: version,
		builtAt: time.Now(),
		dict:    dict,
		views:   make(map[string]*languageView),
	}
	valid := make([]Candidate, 0, len(candidates))
	seen := make(map[int64]struct{}, len(candidates))
	for i := range candidates {
		c := candidates[i]
		if err := c.Validate(); err != nil {
			s.skipped++
			continue
		}
		if _, dup := seen[c.id]; dup {
			s.skipped++
			continue
		}
		seen[c.id] = struct{}{}
		valid = append(valid, c)
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].id < valid[j].id })
	s.candidates = valid

	langs := map[string]struct{}{DefaultLanguage: {}}
	for i := range valid {
		for _, l := range valid[i].Languages() {
			langs[l] = struct{}{}
		}
	}
	for lang := range langs {
		s.views[lang] = s.buildView(lang)
	}
	return s
}

func (s *Snapshot) buildView(lang string) *languageView {
	v := &languageView{docs: make([]Doc, len(s.candidates))}
	vb := newVocabularyBuilder()
	for i := range s.candidates {
		c := &s.candidates[i]
		doc := &v.docs[i]
		for fi, f := range allFields {
			text := c.Text(f, lang)
			doc.fields[fi] = query.Analyze(text, lang)
		}
		vb.addCandidate(c, doc, s.dict, lang)
	}
	v.vocab = vb.build()
	return v
}

// Version returns the snapshot version.
func (s *Snapshot) Version() uint64 { return s.version }

// BuiltAt returns when the snapshot was built.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of searchable candidates.
func (s *Snapshot) Len() int { return len(s.candidates) }

// At returns the i-th candidate in id order.
func (s *Snapshot) At(i int) *Candidate { return &s.candidates[i] }

// Skipped returns how many loaded candidates were rejected as malformed or duplicate.
func (s *Snapshot) Skipped() int { return s.skipped }

// Dictionary returns the display name dictionary.
func (s *Snapshot) Dictionary() Dictionary { return s.dict }

// Languages returns the languages with analyzed text, sorted.
func (s *Snapshot) Languages() []string {
	out := make([]string, 0, len(s.views))
	for l := range s.views {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Doc returns the analyzed text of the i-th candidate. Unknown languages fall back to DefaultLanguage.
func (s *Snapshot) Doc(i int, lang string) *Doc {
	return &s.view(lang).docs[i]
}

// Vocabulary returns the suggestion vocabulary for a language. Unknown languages fall back to DefaultLanguage.
func (s *Snapshot) Vocabulary(lang string) *Vocabulary {
	return s.view(lang).vocab
}

func (s *Snapshot) view(lang string) *languageView {
	if v, ok := s.views[lang]; ok {
		return v
	}
	return s.views[DefaultLanguage]
}

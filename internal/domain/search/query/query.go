// Package query normalizes free-text search input and catalog text into comparable token sequences.
package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

// Query limits.
const (
	// MaxQueryLength is the maximum allowed query length in characters.
	MaxQueryLength = 200
	// DefaultLanguage is used when the caller does not select a language.
	DefaultLanguage = "en"
)

// Folding for letters that have no canonical decomposition.
var letterFolds = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "œ", "oe", "ø", "o", "ł", "l", "đ", "d", "ı", "i", "þ", "th",
)

// Query is a normalized free-text query.
type Query struct {
	original  string
	processed string
	tokens    []string
	language  string
}

// Normalize validates and normalizes a raw query for the given language.
// Whitespace-only input is valid and yields an empty query (match all).
func Normalize(raw, lang string) (Query, error) {
	if utf8.RuneCountInString(raw) > MaxQueryLength {
		return Query{}, domain.NewInvalidQuery("query", "too long (max %d chars)", MaxQueryLength)
	}
	code, err := ResolveLanguage(lang)
	if err != nil {
		return Query{}, err
	}
	a := Analyze(raw, code)
	return Query{original: raw, processed: a.Folded, tokens: a.Tokens, language: code}, nil
}

// Original returns the query exactly as submitted.
func (q Query) Original() string { return q.original }

// Processed returns the normalized query (tokens joined by single spaces).
func (q Query) Processed() string { return q.processed }

// Tokens returns the normalized token sequence.
func (q Query) Tokens() []string { return q.tokens }

// Language returns the resolved language code.
func (q Query) Language() string { return q.language }

// IsEmpty reports whether the query has no tokens.
func (q Query) IsEmpty() bool { return len(q.tokens) == 0 }

// ResolveLanguage validates a BCP 47 tag and returns its base language code.
// Empty input resolves to DefaultLanguage.
func ResolveLanguage(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage, nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", domain.NewInvalidQuery("language", "unrecognized language %q", lang)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// Analyzed is the normalized form of a piece of text.
type Analyzed struct {
	// Folded is the token sequence joined by single spaces.
	Folded string
	Tokens []string
}

// Analyze lower-cases, folds diacritics, strips punctuation and tokenizes text.
// lang must already be resolved; unknown codes fall back to language-neutral casing.
func Analyze(text, lang string) Analyzed {
	if strings.TrimSpace(text) == "" {
		return Analyzed{}
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	// Casers and transformers are stateful, so each call builds its own.
	lowered := cases.Lower(tag).String(text)
	folded, _, err := transform.String(foldTransformer(), lowered)
	if err != nil {
		folded = lowered
	}
	folded = letterFolds.Replace(folded)

	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return Analyzed{}
	}
	return Analyzed{Folded: strings.Join(tokens, " "), Tokens: tokens}
}

func foldTransformer() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

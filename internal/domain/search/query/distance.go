package query

import "unicode/utf8"

// FuzzyConfig bounds the edit distance allowed for approximate matching.
type FuzzyConfig struct {
	// ShortMaxDistance applies to tokens shorter than LongMinLength.
	ShortMaxDistance int
	LongMaxDistance  int
	// LongMinLength is the rune length from which LongMaxDistance applies.
	LongMinLength int
}

// DefaultFuzzyConfig allows one edit for tokens up to 4 runes and two edits otherwise.
func DefaultFuzzyConfig() FuzzyConfig {
	return FuzzyConfig{ShortMaxDistance: 1, LongMaxDistance: 2, LongMinLength: 5}
}

// MaxDistance returns the edit distance bound for a token.
func (f FuzzyConfig) MaxDistance(token string) int {
	if utf8.RuneCountInString(token) >= f.LongMinLength {
		return f.LongMaxDistance
	}
	return f.ShortMaxDistance
}

// Similarity returns the fuzzy hit weight for distance d under bound: 1 - d/(bound+1).
// Returns 0 when d exceeds bound.
func Similarity(d, bound int) float64 {
	if d < 0 || d > bound {
		return 0
	}
	return 1 - float64(d)/float64(bound+1)
}

// Distance returns the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Within reports the distance between a and b if it does not exceed bound.
// Pairs whose rune lengths differ by more than bound are rejected without a full computation.
func Within(a, b string, bound int) (int, bool) {
	diff := utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > bound {
		return 0, false
	}
	d := Distance(a, b)
	return d, d <= bound
}

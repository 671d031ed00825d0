package request

import "strings"

// SortKey is the result ordering key.
type SortKey string

// Sort keys.
const (
	SortRelevance  SortKey = "relevance"
	SortPrice      SortKey = "price"
	SortName       SortKey = "name"
	SortCreatedAt  SortKey = "createdAt"
	SortPopularity SortKey = "popularity"
)

var sortKeys = []SortKey{SortRelevance, SortPrice, SortName, SortCreatedAt, SortPopularity}

// ParseSortKey resolves a sort key case-insensitively. Empty input yields SortRelevance.
func ParseSortKey(s string) (SortKey, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return SortRelevance, true
	}
	for _, k := range sortKeys {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

// Direction is the ordering direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection resolves a direction case-insensitively.
// Relevance always orders by descending score; an explicit asc is accepted and ignored.
// Empty input yields asc for every other key.
func ParseDirection(s string, key SortKey) (Direction, bool) {
	var dir Direction
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		dir = Asc
	case "asc":
		dir = Asc
	case "desc":
		dir = Desc
	default:
		return "", false
	}
	if key == SortRelevance {
		return Desc, true
	}
	return dir, true
}

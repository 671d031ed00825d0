package mode

import "strings"

// Mode is the text matching strategy.
type Mode string

// Search mode constants.
const (
	// AllFields matches query tokens against every searchable field with equal weight.
	AllFields Mode = "ALL_FIELDS"
	// SpecificFields restricts matching to the selected fields.
	SpecificFields Mode = "SPECIFIC_FIELDS"
	// Smart weights fields by importance and boosts exact name matches.
	Smart Mode = "SMART"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == AllFields || m == SpecificFields || m == Smart
}

// Parse resolves a mode name case-insensitively. Empty input yields AllFields.
func Parse(s string) (Mode, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AllFields, true
	}
	m := Mode(strings.ToUpper(strings.ReplaceAll(s, "-", "_")))
	return m, m.IsValid()
}

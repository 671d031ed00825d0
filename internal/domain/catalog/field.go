package catalog

import "strings"

// Field is a searchable candidate text field.
type Field string

// Searchable fields.
const (
	Name        Field = "name"
	Description Field = "description"
	Model       Field = "model"
	Reference   Field = "reference"
	Barcode     Field = "barcode"
)

const fieldCount = 5

var allFields = [fieldCount]Field{Name, Description, Model, Reference, Barcode}

// AllFields returns every searchable field in canonical order.
func AllFields() []Field {
	out := make([]Field, fieldCount)
	copy(out, allFields[:])
	return out
}

// IsValid checks if the field is searchable.
func (f Field) IsValid() bool { return f.index() >= 0 }

// Localized reports whether the field text depends on the language.
func (f Field) Localized() bool { return f == Name || f == Description }

func (f Field) index() int {
	for i, x := range allFields {
		if x == f {
			return i
		}
	}
	return -1
}

// ParseField resolves a field name case-insensitively.
// "referenceNumber" is accepted as an alias of Reference.
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "referencenumber" || s == "reference_number" {
		return Reference, true
	}
	f := Field(s)
	return f, f.IsValid()
}

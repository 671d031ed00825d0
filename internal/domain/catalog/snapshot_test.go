package catalog

import (
	"reflect"
	"testing"
)

func mustCandidate(t *testing.T, s Spec) Candidate {
	t.Helper()
	c, err := NewCandidate(s)
	if err != nil {
		t.Fatalf("NewCandidate(%d): %v", s.ID, err)
	}
	return c
}

func testDictionary() Dictionary {
	return Dictionary{
		Categories:    map[int64]string{3: "Laptops", 7: "Storage"},
		Manufacturers: map[int64]string{1: "Dell", 2: "Samsung"},
		Parameters:    map[int64]string{1: "Capacity"},
	}
}

func TestNewSnapshot_SkipsMalformedAndDuplicates(t *testing.T) {
	cands := []Candidate{
		mustCandidate(t, Spec{ID: 3, Names: map[string]string{"en": "Dell XPS Laptop"}, ManufacturerID: 1, CategoryIDs: []int64{3}}),
		ReconstructCandidate(Spec{ID: 0, Names: map[string]string{"en": "broken"}}),
		mustCandidate(t, Spec{ID: 1, Names: map[string]string{"en": "Samsung SSD"}, ManufacturerID: 2, CategoryIDs: []int64{7}}),
		mustCandidate(t, Spec{ID: 3, Names: map[string]string{"en": "duplicate"}}),
		ReconstructCandidate(Spec{ID: 9, Names: map[string]string{"en": "bad price"}, Price: -3}),
	}
	s := NewSnapshot(42, cands, testDictionary())

	if s.Version() != 42 {
		t.Errorf("Version() = %d", s.Version())
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Skipped() != 3 {
		t.Errorf("Skipped() = %d, want 3", s.Skipped())
	}
	if s.At(0).ID() != 1 || s.At(1).ID() != 3 {
		t.Errorf("candidates not ordered by id: %d, %d", s.At(0).ID(), s.At(1).ID())
	}
	if s.At(1).Text(Name, "en") != "Dell XPS Laptop" {
		t.Error("first occurrence of duplicate id should win")
	}
	for i := range s.Len() {
		if s.At(i).ID() == 9 {
			t.Error("malformed candidate should not be searchable")
		}
	}
}

func TestSnapshot_DocAnalyzesFields(t *testing.T) {
	cands := []Candidate{
		mustCandidate(t, Spec{
			ID:           1,
			Names:        map[string]string{"en": "Crème Brûlée Torch", "de": "Flambierbrenner"},
			Descriptions: map[string]string{"en": "Kitchen torch"},
			Model:        "CB-100",
		}),
	}
	s := NewSnapshot(1, cands, Dictionary{})

	en := s.Doc(0, "en")
	if got := en.Field(Name).Folded; got != "creme brulee torch" {
		t.Errorf("en name = %q", got)
	}
	if got := en.Field(Model).Tokens; !reflect.DeepEqual(got, []string{"cb", "100"}) {
		t.Errorf("model tokens = %v", got)
	}
	de := s.Doc(0, "de")
	if got := de.Field(Name).Folded; got != "flambierbrenner" {
		t.Errorf("de name = %q", got)
	}
	if got := de.Field(Description).Folded; got != "kitchen torch" {
		t.Errorf("de description = %q, want fallback", got)
	}
	if got := s.Doc(0, "ja").Field(Name).Folded; got != "creme brulee torch" {
		t.Errorf("unknown language should fall back to default, got %q", got)
	}
	if !reflect.DeepEqual(s.Languages(), []string{"de", "en"}) {
		t.Errorf("Languages() = %v", s.Languages())
	}
}

func TestSnapshot_Vocabulary(t *testing.T) {
	cands := []Candidate{
		mustCandidate(t, Spec{ID: 1, Names: map[string]string{"en": "Dell Laptop 14"}, ManufacturerID: 1, CategoryIDs: []int64{3}, Model: "Latitude 5440"}),
		mustCandidate(t, Spec{ID: 2, Names: map[string]string{"en": "Dell Laptop 14"}, ManufacturerID: 1, CategoryIDs: []int64{3}}),
		mustCandidate(t, Spec{ID: 3, Names: map[string]string{"en": "Samsung SSD"}, ManufacturerID: 2, CategoryIDs: []int64{7}}),
	}
	v := NewSnapshot(1, cands, testDictionary()).Vocabulary("en")

	if v.Frequency("laptop") != 2 {
		t.Errorf("Frequency(laptop) = %d, want 2", v.Frequency("laptop"))
	}
	if v.Frequency("dell") != 2 {
		t.Errorf("Frequency(dell) = %d, want 2 (counted once per candidate)", v.Frequency("dell"))
	}
	if !v.Contains("laptops") {
		t.Error("category name tokens should be known")
	}
	if v.Contains("lenovo") {
		t.Error("unexpected token lenovo")
	}

	kinds := map[PhraseKind]int{}
	var product *Phrase
	for i, p := range v.Phrases() {
		kinds[p.Kind]++
		if p.Kind == PhraseProduct && p.Text == "Dell Laptop 14" {
			product = &v.Phrases()[i]
		}
	}
	if product == nil || product.Frequency != 2 {
		t.Fatalf("product phrase = %+v, want frequency 2", product)
	}
	want := map[PhraseKind]int{PhraseProduct: 2, PhraseModel: 1, PhraseManufacturer: 2, PhraseCategory: 2}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("phrase kinds = %v, want %v", kinds, want)
	}
	for i := 1; i < len(v.Tokens()); i++ {
		if v.Tokens()[i-1] >= v.Tokens()[i] {
			t.Fatalf("Tokens() not sorted: %v", v.Tokens())
		}
	}
}

func TestSnapshot_VocabularyCorrectionSources(t *testing.T) {
	cands := []Candidate{
		mustCandidate(t, Spec{
			ID: 1, Names: map[string]string{"en": "Dell Laptop"}, Descriptions: map[string]string{"en": "Lightweight notebook"},
			Barcode: "4006381333931", ManufacturerID: 1, CategoryIDs: []int64{3},
		}),
	}
	v := NewSnapshot(1, cands, testDictionary()).Vocabulary("en")

	for _, tok := range []string{"lightweight", "notebook", "4006381333931"} {
		if !v.Contains(tok) {
			t.Errorf("Contains(%q) = false, searchable field tokens are known", tok)
		}
		if v.Frequency(tok) != 0 {
			t.Errorf("Frequency(%q) = %d, want 0", tok, v.Frequency(tok))
		}
		for _, target := range v.Tokens() {
			if target == tok {
				t.Errorf("%q must not be a correction target", tok)
			}
		}
	}
	want := []string{"dell", "laptop", "laptops"}
	if !reflect.DeepEqual(v.Tokens(), want) {
		t.Errorf("Tokens() = %v, want %v", v.Tokens(), want)
	}
}

func TestDictionary_Labels(t *testing.T) {
	d := testDictionary()
	if d.CategoryName(3) != "Laptops" {
		t.Errorf("CategoryName(3) = %q", d.CategoryName(3))
	}
	if d.ManufacturerName(99) != "99" {
		t.Errorf("ManufacturerName(99) = %q", d.ManufacturerName(99))
	}
	if (Dictionary{}).ParameterName(1) != "1" {
		t.Error("nil map should fall back to id")
	}
}

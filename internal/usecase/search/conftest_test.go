package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// --- Mocks ---

type mockSnapshots struct {
	snap *catalog.Snapshot
	err  error
}

func (m *mockSnapshots) Current(_ context.Context) (*catalog.Snapshot, error) {
	return m.snap, m.err
}

type mockHydrator struct {
	hydrateFn func(ctx context.Context, ids []int64, lang string) ([]catalog.ProductView, error)
	calls     int
}

func (m *mockHydrator) Hydrate(ctx context.Context, ids []int64, lang string) ([]catalog.ProductView, error) {
	m.calls++
	if m.hydrateFn != nil {
		return m.hydrateFn(ctx, ids, lang)
	}
	views := make([]catalog.ProductView, len(ids))
	for i, id := range ids {
		views[i] = catalog.ProductView{ID: id}
	}
	return views, nil
}

type mockCache struct {
	mu    sync.Mutex
	getFn func(version uint64, fingerprint string) (result.Outcome, bool)
	puts  []string
}

func (m *mockCache) Get(_ context.Context, version uint64, fingerprint string) (result.Outcome, bool) {
	if m.getFn != nil {
		return m.getFn(version, fingerprint)
	}
	return result.Outcome{}, false
}

func (m *mockCache) Put(_ context.Context, _ uint64, fingerprint string, _ result.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts = append(m.puts, fingerprint)
}

// --- Fixtures ---

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func testDictionary() catalog.Dictionary {
	return catalog.Dictionary{
		Categories:    map[int64]string{3: "Laptops", 5: "Monitors", 7: "Storage", 9: "Accessories"},
		Manufacturers: map[int64]string{1: "Dell", 2: "Samsung", 3: "HP", 4: "Crucial", 5: "Acer"},
		Parameters:    map[int64]string{1: "Capacity", 2: "Color"},
	}
}

func testSpecs() []catalog.Spec {
	en := func(name, desc string) (map[string]string, map[string]string) {
		return map[string]string{"en": name}, map[string]string{"en": desc}
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	specs := []catalog.Spec{
		{ID: 1, Model: "MZ-V7E500", CategoryIDs: []int64{7}, ManufacturerID: 2, Price: 89.9, OnSale: true,
			Params: []catalog.ParamOption{{ParameterID: 1, OptionID: 10, Value: "500 GB"}}, Popularity: 50},
		{ID: 2, Model: "CT500MX500SSD1", CategoryIDs: []int64{7}, ManufacturerID: 4, Price: 54.99,
			Params: []catalog.ParamOption{{ParameterID: 1, OptionID: 10, Value: "500 GB"}, {ParameterID: 1, OptionID: 11, Value: "1 TB"}},
			Popularity: 70},
		{ID: 3, Model: "XPS9310", CategoryIDs: []int64{3}, ManufacturerID: 1, Price: 1299, Featured: true, Popularity: 90},
		{ID: 4, Model: "15-EH1000", CategoryIDs: []int64{3}, ManufacturerID: 3, Price: 649,
			Params: []catalog.ParamOption{{ParameterID: 2, OptionID: 20, Value: "Silver"}}, Popularity: 20},
		{ID: 5, Model: "U2720Q", CategoryIDs: []int64{5}, ManufacturerID: 1, Price: 499, Status: "preorder", Popularity: 40},
		{ID: 6, Model: "MU-PC1T0", CategoryIDs: []int64{7, 9}, ManufacturerID: 2, Price: 119,
			Params: []catalog.ParamOption{{ParameterID: 1, OptionID: 11, Value: "1 TB"}}, Popularity: 10},
		{ID: 7, Model: "CBL-1", CategoryIDs: []int64{9}, Price: 9.5, Popularity: 5},
		{ID: 8, CategoryIDs: []int64{5}, ManufacturerID: 2, Price: 180, Popularity: 60},
		{ID: 9, CategoryIDs: []int64{3}, ManufacturerID: 5, Price: 199, Popularity: 30},
	}
	texts := [][2]string{
		{"Samsung 970 EVO SSD", "NVMe SSD drive"},
		{"Crucial MX500 SSD", "SATA solid state drive"},
		{"Dell XPS 13 Laptop", "Ultrabook with fast SSD"},
		{"HP Pavilion Laptop", "Everyday laptop"},
		{"Dell UltraSharp Monitor", "27 inch IPS display"},
		{"Samsung T7 Portable SSD", "USB-C external drive"},
		{"USB-C Cable", "Braided charging cable"},
		{"Samsung Odyssey Monitor", "Curved gaming monitor"},
		{"Acer Chromebook Laptop", "Lightweight notebook"},
	}
	for i := range specs {
		specs[i].Names, specs[i].Descriptions = en(texts[i][0], texts[i][1])
		// Product 6 is the only inactive one.
		specs[i].Active = specs[i].ID != 6
		if specs[i].Status == "" {
			specs[i].Status = "available"
		}
		specs[i].InStock = true
		specs[i].CreatedAt = base.Add(time.Duration(10-specs[i].ID) * time.Hour)
	}
	return specs
}

func testSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	specs := testSpecs()
	cands := make([]catalog.Candidate, 0, len(specs))
	for _, s := range specs {
		c, err := catalog.NewCandidate(s)
		if err != nil {
			t.Fatalf("NewCandidate(%d): %v", s.ID, err)
		}
		cands = append(cands, c)
	}
	return catalog.NewSnapshot(1, cands, testDictionary())
}

func newTestService(t *testing.T, snap *catalog.Snapshot) (*Service, *mockHydrator) {
	t.Helper()
	h := &mockHydrator{}
	svc, err := New(&mockSnapshots{snap: snap}, h, nil, DefaultConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc, h
}

func makeRequest(t *testing.T, p request.Params) *request.Request {
	t.Helper()
	r, err := request.New(p)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func search(t *testing.T, svc *Service, p request.Params) result.Outcome {
	t.Helper()
	out, err := svc.Search(context.Background(), makeRequest(t, p))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	return out
}

func hitIDs(out result.Outcome) []int64 {
	ids := make([]int64, len(out.Hits))
	for i, h := range out.Hits {
		ids[i] = h.ID
	}
	return ids
}

func bucketCounts(b []result.Bucket) map[string]int {
	out := make(map[string]int, len(b))
	for _, x := range b {
		out[x.Value] = x.Count
	}
	return out
}

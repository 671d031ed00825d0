package catalogsearch

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn  func(ctx context.Context, req *request.Request) (result.Outcome, error)
	suggestFn func(ctx context.Context, prefix, lang string, limit int) ([]result.Suggestion, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (result.Outcome, error) {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) Suggest(ctx context.Context, prefix, lang string, limit int) ([]result.Suggestion, error) {
	return m.suggestFn(ctx, prefix, lang, limit)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- snapshotRefresher mock ---

type mockRefresher struct {
	refreshFn func(ctx context.Context) error
	calls     int
}

func (m *mockRefresher) Refresh(ctx context.Context) error {
	m.calls++
	if m.refreshFn == nil {
		return nil
	}
	return m.refreshFn(ctx)
}

// --- helpers ---

func testClient(search searchUseCase) *Client {
	return &Client{
		search:  search,
		health:  &mockHealthUC{},
		refresh: &mockRefresher{},
		limits:  request.DefaultLimits(),
	}
}

package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// Searcher is the search contract shared by Service and its decorators.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Outcome, error)
	Suggest(ctx context.Context, prefix, lang string, limit int) ([]result.Suggestion, error)
}

// InstrumentedService wraps a Searcher with metrics and logging.
type InstrumentedService struct {
	inner  Searcher
	logger *zap.Logger
}

// NewInstrumentedService wraps a searcher with observability.
func NewInstrumentedService(inner Searcher, logger *zap.Logger) *InstrumentedService {
	return &InstrumentedService{inner: inner, logger: logger}
}

// Search delegates to the inner searcher and records request metrics.
func (s *InstrumentedService) Search(ctx context.Context, req *request.Request) (result.Outcome, error) {
	start := time.Now()
	m := string(req.Mode())

	out, err := s.inner.Search(ctx, req)

	duration := time.Since(start)
	status := statusOf(err)
	metrics.SearchRequestsTotal.WithLabelValues(m, status).Inc()
	metrics.SearchDuration.WithLabelValues(m).Observe(duration.Seconds())

	if err != nil {
		fields := []zap.Field{
			zap.String("mode", m),
			zap.String("query", req.Query().Original()),
			zap.Duration("duration", duration),
			zap.Error(err),
		}
		switch status {
		case "error":
			s.logger.Error("Search failed", fields...)
		default:
			s.logger.Warn("Search rejected", append(fields, zap.String("status", status))...)
		}
		return result.Outcome{}, err
	}

	metrics.SearchResults.Observe(float64(out.Total))
	if out.Corrected() {
		metrics.SearchCorrectionsTotal.Inc()
	}

	s.logger.Debug("Search completed",
		zap.String("mode", m),
		zap.Int("total", out.Total),
		zap.Int("page", out.Page.Page),
		zap.Bool("faceted", out.Facets != nil),
		zap.String("corrected_query", out.CorrectedQuery),
		zap.Uint64("snapshot_version", out.SnapshotVersion),
		zap.Duration("duration", duration),
	)
	return out, nil
}

// Suggest delegates to the inner searcher.
func (s *InstrumentedService) Suggest(ctx context.Context, prefix, lang string, limit int) ([]result.Suggestion, error) {
	out, err := s.inner.Suggest(ctx, prefix, lang, limit)
	if err != nil {
		if statusOf(err) == "error" {
			s.logger.Error("Suggest failed", zap.String("prefix", prefix), zap.Error(err))
		}
		return nil, err
	}
	return out, nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidQuery):
		return "invalid_query"
	case errors.Is(err, domain.ErrSearchTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrSnapshotUnavailable):
		return "unavailable"
	}
	return "error"
}

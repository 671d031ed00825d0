package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// Service runs faceted product searches against the current catalog snapshot.
type Service struct {
	snapshots SnapshotProvider
	hydrator  Hydrator
	cache     OutcomeCache
	cfg       Config
	corrector *corrector
	logger    *zap.Logger
}

// New creates a search service. hydrator and cache can be nil.
func New(
	snapshots SnapshotProvider, hydrator Hydrator, cache OutcomeCache,
	cfg Config, logger *zap.Logger,
) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("search config: %w", err)
	}
	s := &Service{
		snapshots: snapshots,
		hydrator:  hydrator,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
	}
	c, err := newCorrector(&s.cfg)
	if err != nil {
		return nil, err
	}
	s.corrector = c
	return s, nil
}

// Search executes a search. The snapshot is acquired once and used for the whole request.
// The core computation is bounded by the request timeout (or the configured default) and
// fails with domain.ErrSearchTimeout when exceeded; hydration runs after it.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Outcome, error) {
	start := time.Now()

	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return result.Outcome{}, fmt.Errorf("acquire snapshot: %w", err)
	}

	var fingerprint string
	if s.cache != nil {
		fingerprint = req.Fingerprint()
		if out, ok := s.cache.Get(ctx, snap.Version(), fingerprint); ok {
			return s.finish(ctx, req, out, start)
		}
	}

	timeout := req.Timeout()
	if timeout <= 0 {
		timeout = s.cfg.Timeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	out, err := s.execute(cctx, snap, req)
	cancel()
	if err != nil {
		return result.Outcome{}, err
	}

	if s.cache != nil {
		s.cache.Put(ctx, snap.Version(), fingerprint, out)
	}
	return s.finish(ctx, req, out, start)
}

func (s *Service) finish(ctx context.Context, req *request.Request, out result.Outcome, start time.Time) (result.Outcome, error) {
	if err := hydrate(ctx, s.hydrator, req.Language(), &out); err != nil {
		return result.Outcome{}, err
	}
	out.Elapsed = time.Since(start)
	return out, nil
}

// execute is the pure part of a search: filter, rank, facet, correct and assemble.
func (s *Service) execute(ctx context.Context, snap *catalog.Snapshot, req *request.Request) (result.Outcome, error) {
	c, err := s.run(ctx, snap, req)
	if err != nil {
		return result.Outcome{}, err
	}

	var suggestions []result.Suggestion
	var corrected string
	if len(c.matches) < s.cfg.MinResults && !req.Query().IsEmpty() {
		vocab := snap.Vocabulary(req.Language())
		tokens := req.Query().Tokens()
		suggestions = s.corrector.suggest(vocab, tokens, s.cfg.SuggestionLimit)

		if term, ok := s.corrector.correct(vocab, snap.Version(), req.Language(), tokens); ok {
			q, err := query.Normalize(term, req.Language())
			if err != nil {
				return result.Outcome{}, fmt.Errorf("normalize corrected query: %w", err)
			}
			rerun := req.WithQuery(q)
			rc, err := s.run(ctx, snap, &rerun)
			if err != nil {
				return result.Outcome{}, err
			}
			c = rc
			corrected = term
			s.logger.Debug("Query corrected",
				zap.String("original", req.Query().Processed()),
				zap.String("corrected", term),
				zap.Int("total", len(rc.matches)),
			)
		}
	}

	if err := ctx.Err(); err != nil {
		return result.Outcome{}, deadlineError(err)
	}
	return assemble(snap, req, c, suggestions, corrected), nil
}

// run scans the snapshot once, then sorts matches and aggregates facets concurrently.
func (s *Service) run(ctx context.Context, snap *catalog.Snapshot, req *request.Request) (core, error) {
	set := filter.Compile(req.Criteria())
	sc := newScorer(&s.cfg, req)

	found, err := scanSnapshot(ctx, snap, req, &set, sc)
	if err != nil {
		return core{}, err
	}

	c := core{req: req, matches: found.matches}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sortMatches(snap, req, c.matches)
		return nil
	})
	if req.Faceted() {
		g.Go(func() error {
			f, err := aggregateFacets(gctx, snap, &set, found.entries, &s.cfg)
			if err != nil {
				return err
			}
			c.facets = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core{}, err
	}
	if err := ctx.Err(); err != nil {
		return core{}, deadlineError(err)
	}
	return c, nil
}

// Suggest returns autocomplete suggestions for a prefix from the current snapshot.
func (s *Service) Suggest(ctx context.Context, prefix, lang string, limit int) ([]result.Suggestion, error) {
	q, err := query.Normalize(prefix, lang)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.SuggestionLimit
	}
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire snapshot: %w", err)
	}
	return s.corrector.suggest(snap.Vocabulary(q.Language()), q.Tokens(), limit), nil
}

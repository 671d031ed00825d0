package catalogsearch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	catalogrepo "github.com/kailas-cloud/catalogsearch/internal/repository/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/repository/outcomecache"
	cataloguc "github.com/kailas-cloud/catalogsearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = time.Minute
)

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Outcome, error)
	Suggest(ctx context.Context, prefix, lang string, limit int) ([]result.Suggestion, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type snapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// Client is the embedded catalog search entry point.
type Client struct {
	pg      *postgres.Client
	cache   *dbRedis.Store
	search  searchUseCase
	health  healthUseCase
	refresh snapshotRefresher
	limits  request.Limits
	obs     *observer

	stop func()
	wg   sync.WaitGroup
}

// New connects to the catalog database, loads the first snapshot and starts
// background refresh. The provided context bounds the connection and initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.dsn == "" {
		return nil, errors.New("catalogsearch: postgres dsn required (use WithPostgres)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	pg, err := postgres.Open(postgres.Config{DSN: cfg.dsn, MaxOpenConns: cfg.maxOpenConns})
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: %w", err)
	}
	if err := pg.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("catalogsearch: catalog database not ready: %w", err)
	}

	c := &Client{pg: pg, obs: obs, limits: request.Limits{DefaultSize: cfg.defaultSize, MaxSize: cfg.maxSize}}
	if len(cfg.cacheAddrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.cacheAddrs, Password: cfg.cachePassword})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("catalogsearch: create cache store: %w", err)
		}
		c.cache = store
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			c.Close()
			return nil, fmt.Errorf("catalogsearch: cache not ready: %w", err)
		}
	}

	if err := c.wire(cfg); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.startRefresh(cfg.refreshInterval)
	return c, nil
}

func (c *Client) wire(cfg *clientConfig) error {
	nop := zap.NewNop()
	repo := catalogrepo.New(c.pg.DB)
	holder := cataloguc.NewHolder()

	// Keep the cache interfaces nil, not typed-nil, when caching is off.
	var (
		outcomes searchuc.OutcomeCache
		pinger   healthuc.CachePinger
	)
	if c.cache != nil {
		ttl := cfg.cacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		outcomes = outcomecache.New(c.cache, ttl, nil, nop)
		pinger = c.cache
	}

	tuning := searchuc.DefaultConfig()
	if cfg.searchTimeout > 0 {
		tuning.Timeout = cfg.searchTimeout
	}
	svc, err := searchuc.New(holder, repo, outcomes, tuning, nop)
	if err != nil {
		return fmt.Errorf("catalogsearch: %w", err)
	}

	// A snapshot older than three missed refreshes reports as stale.
	c.search = svc
	c.health = healthuc.New(c.pg, pinger, holder, 3*cfg.refreshInterval)
	c.refresh = cataloguc.NewRefresher(repo, holder, cfg.refreshInterval, cfg.loadTimeout, nop)
	return nil
}

func (c *Client) startRefresh(interval time.Duration) {
	if interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.stop = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Failures keep the previous snapshot and are observed.
				_ = c.Refresh(ctx)
			}
		}
	}()
}

// Close stops background refresh and releases all resources.
func (c *Client) Close() {
	if c.stop != nil {
		c.stop()
		c.wg.Wait()
	}
	if c.cache != nil {
		c.cache.Close()
	}
	if c.pg != nil {
		_ = c.pg.Close()
	}
}

// Refresh rebuilds the catalog snapshot now. On failure the previous snapshot keeps serving.
func (c *Client) Refresh(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("refresh", start, err) }()

	if err = c.refresh.Refresh(ctx); err != nil {
		return fmt.Errorf("catalogsearch: refresh: %w", err)
	}
	return nil
}

// Search starts a fluent search request.
func (c *Client) Search() *SearchBuilder {
	return &SearchBuilder{client: c}
}

// Suggest returns up to limit completions for prefix. A non-positive limit uses the default.
func (c *Client) Suggest(ctx context.Context, prefix, language string, limit int) (_ []Suggestion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	ss, err := c.search.Suggest(ctx, prefix, language, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return convertSuggestions(ss), nil
}

func (c *Client) run(ctx context.Context, p *request.Params) (_ *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := request.NewWithLimits(*p, c.limits)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out, err := c.search.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return convertOutcome(&out), nil
}

// Package outcomecache caches pre-hydration search outcomes in a key-value store.
package outcomecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

const keyPrefix = "catalogsearch:outcome:"

// store is the consumer interface for the outcome cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache implements usecase/search.OutcomeCache.
// Entries are keyed by snapshot version, so a refresh makes older entries unreachable.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an outcome cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns a cached outcome. Storage and decode errors count as a miss.
func (c *Cache) Get(ctx context.Context, version uint64, fingerprint string) (result.Outcome, bool) {
	key := cacheKey(version, fingerprint)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached outcome", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return result.Outcome{}, false
	}

	var dto outcomeDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Failed to parse cached outcome", zap.String("key", key), zap.Error(err))
		c.inc("miss")
		return result.Outcome{}, false
	}

	c.inc("hit")
	return dto.toOutcome(), true
}

// Put stores an outcome. Failures are logged and ignored.
func (c *Cache) Put(ctx context.Context, version uint64, fingerprint string, o result.Outcome) {
	key := cacheKey(version, fingerprint)

	data, err := json.Marshal(fromOutcome(o))
	if err != nil {
		c.logger.Warn("Failed to encode outcome", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache outcome", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(res).Inc()
	}
}

func cacheKey(version uint64, fingerprint string) string {
	h := sha256.Sum256([]byte(strconv.FormatUint(version, 10) + "\x00" + fingerprint))
	return keyPrefix + strconv.FormatUint(version, 10) + ":" + hex.EncodeToString(h[:])
}

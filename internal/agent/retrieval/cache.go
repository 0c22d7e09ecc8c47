package retrieval

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/moolen/rfpagents/internal/logging"
)

// CacheConfig configures a CachingRetriever.
type CacheConfig struct {
	Size int           // Maximum number of cached queries
	TTL  time.Duration // Entry lifetime
}

type cachedFragments struct {
	fragments []Fragment
	expiresAt time.Time
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Items   int
	Hits    uint64
	Misses  uint64
	Expired uint64
}

// CachingRetriever memoizes another Retriever. Keys cover the query text,
// top_k and distance threshold, so agents with different retrieval settings
// never share entries.
type CachingRetriever struct {
	next    Retriever
	lru     *lru.Cache[string, *cachedFragments]
	ttl     time.Duration
	metrics *Metrics
	logger  *logging.Logger
	now     func() time.Time

	hits    uint64
	misses  uint64
	expired uint64
}

// NewCachingRetriever wraps next with an LRU cache.
func NewCachingRetriever(next Retriever, cfg CacheConfig, metrics *Metrics) (*CachingRetriever, error) {
	if next == nil {
		return nil, fmt.Errorf("caching retriever: next retriever is nil")
	}
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", cfg.Size)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive, got %v", cfg.TTL)
	}

	cache, err := lru.New[string, *cachedFragments](cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	return &CachingRetriever{
		next:    next,
		lru:     cache,
		ttl:     cfg.TTL,
		metrics: metrics,
		logger:  logging.GetLogger("retrieval.cache"),
		now:     time.Now,
	}, nil
}

// Retrieve serves q from the cache when a fresh entry exists.
func (c *CachingRetriever) Retrieve(ctx context.Context, q Query) ([]Fragment, error) {
	key := cacheKey(q)

	if entry, ok := c.lru.Get(key); ok {
		if c.now().Before(entry.expiresAt) {
			atomic.AddUint64(&c.hits, 1)
			c.metrics.recordCache(true)
			return cloneFragments(entry.fragments), nil
		}
		atomic.AddUint64(&c.expired, 1)
		c.lru.Remove(key)
	}

	atomic.AddUint64(&c.misses, 1)
	c.metrics.recordCache(false)

	fragments, err := c.next.Retrieve(ctx, q)
	if err != nil {
		return nil, err
	}

	c.lru.Add(key, &cachedFragments{
		fragments: cloneFragments(fragments),
		expiresAt: c.now().Add(c.ttl),
	})
	c.logger.Debug("Cached %d fragments for query (len=%d)", len(fragments), len(q.Text))
	return fragments, nil
}

// Stats returns a snapshot of cache counters.
func (c *CachingRetriever) Stats() CacheStats {
	return CacheStats{
		Items:   c.lru.Len(),
		Hits:    atomic.LoadUint64(&c.hits),
		Misses:  atomic.LoadUint64(&c.misses),
		Expired: atomic.LoadUint64(&c.expired),
	}
}

// Purge drops every cached entry.
func (c *CachingRetriever) Purge() {
	c.lru.Purge()
}

func cacheKey(q Query) string {
	return fmt.Sprintf("%d|%g|%s", q.TopK, q.DistanceThreshold, q.Text)
}

func cloneFragments(in []Fragment) []Fragment {
	if in == nil {
		return nil
	}
	out := make([]Fragment, len(in))
	copy(out, in)
	return out
}

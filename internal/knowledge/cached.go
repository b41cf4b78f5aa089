package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/model"
)

// cachedEntry is the stored form of a lookup outcome
type cachedEntry struct {
	Fact *model.Fact `json:"fact,omitempty"`
	Miss string      `json:"miss,omitempty"` // "not_found" or "disambiguation"
}

const (
	missNotFound       = "not_found"
	missDisambiguation = "disambiguation"
)

// CachedSource wraps a Source with positive and negative caching.
// Transient failures are never cached.
type CachedSource struct {
	source      Source
	cache       cache.Cache
	ttl         time.Duration
	negativeTTL time.Duration
	namespace   string
	logger      *slog.Logger
	observer    CacheObserver
}

// CacheObserver is notified of cache hits and misses
type CacheObserver interface {
	ObserveCache(source string, hit bool)
}

// CachedOption configures a CachedSource
type CachedOption func(*CachedSource)

// WithNamespace separates keys of sources with different settings (language, sentence count)
func WithNamespace(namespace string) CachedOption {
	return func(c *CachedSource) { c.namespace = namespace }
}

// WithCacheObserver reports cache hits and misses
func WithCacheObserver(observer CacheObserver) CachedOption {
	return func(c *CachedSource) { c.observer = observer }
}

// WithCacheLogger sets the logger
func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(c *CachedSource) { c.logger = logger }
}

// NewCachedSource creates a caching wrapper; negativeTTL of zero disables negative caching
func NewCachedSource(source Source, c cache.Cache, ttl, negativeTTL time.Duration, opts ...CachedOption) *CachedSource {
	cs := &CachedSource{
		source:      source,
		cache:       c,
		ttl:         ttl,
		negativeTTL: negativeTTL,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Name returns the wrapped source name
func (c *CachedSource) Name() string {
	return c.source.Name()
}

// Lookup serves from cache when possible, otherwise delegates and stores the outcome
func (c *CachedSource) Lookup(ctx context.Context, query string) (*model.Fact, error) {
	key := cache.CacheKey(c.source.Name(), c.namespace, query)

	if data, ok := c.cache.Get(ctx, key); ok {
		var entry cachedEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			c.observe(true)
			return c.fromEntry(query, entry)
		}
		c.logger.Debug("discarding unreadable cache entry", "query", query)
	}
	c.observe(false)

	fact, err := c.source.Lookup(ctx, query)

	var entry cachedEntry
	ttl := c.ttl
	switch {
	case err == nil:
		entry.Fact = fact
	case errors.Is(err, ErrDisambiguation):
		entry.Miss = missDisambiguation
		ttl = c.negativeTTL
	case errors.Is(err, ErrNotFound):
		entry.Miss = missNotFound
		ttl = c.negativeTTL
	default:
		return nil, err
	}
	if ttl <= 0 {
		return fact, err
	}

	if data, marshalErr := json.Marshal(entry); marshalErr == nil {
		if setErr := c.cache.Set(ctx, key, data, ttl); setErr != nil {
			c.logger.Warn("cache write failed", "query", query, "error", setErr)
		}
	}

	return fact, err
}

func (c *CachedSource) fromEntry(query string, entry cachedEntry) (*model.Fact, error) {
	switch entry.Miss {
	case missDisambiguation:
		return nil, &LookupError{Source: c.source.Name(), Query: query, Err: ErrDisambiguation}
	case missNotFound:
		return nil, &LookupError{Source: c.source.Name(), Query: query, Err: ErrNotFound}
	}
	if entry.Fact == nil {
		return nil, &LookupError{Source: c.source.Name(), Query: query, Err: ErrNotFound}
	}
	fact := *entry.Fact
	return &fact, nil
}

func (c *CachedSource) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveCache(c.source.Name(), hit)
	}
}

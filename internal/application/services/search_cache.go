package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/providers"
)

// cacheEnvelope is the stored shape. Age and staleness are evaluated on read
// so the same semantics hold for the in-memory and Redis providers.
type cacheEnvelope struct {
	Results   []*entities.SearchResult `json:"results"`
	WrittenAt time.Time                `json:"written_at"`
	Stale     bool                     `json:"stale"`
}

// CachedResults is a cache read outcome. Stale entries are still served;
// the caller decides whether to revalidate.
type CachedResults struct {
	Results []*entities.SearchResult
	Stale   bool
}

// SearchCache stores ranked result sets keyed by normalized query and
// quantized location. Entries older than the TTL are treated as absent.
type SearchCache struct {
	provider providers.CacheProvider
	ttl      time.Duration
	now      func() time.Time
}

// NewSearchCache creates a search cache with the given freshness window
func NewSearchCache(provider providers.CacheProvider, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &SearchCache{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Key builds the cache key for a normalized query and optional location.
// Coordinates are quantized to two decimals (~1.1 km) so nearby positions
// share an entry.
func (c *SearchCache) Key(normalizedQuery string, loc *entities.Coordinates) string {
	if loc == nil {
		return normalizedQuery + "|no-location"
	}
	return fmt.Sprintf("%s|%.2f,%.2f", normalizedQuery, loc.Lat, loc.Lng)
}

// Get returns the cached result set for the key, or nil on a miss. Entries
// past the TTL are deleted and reported as a miss.
func (c *SearchCache) Get(ctx context.Context, key string) (*CachedResults, error) {
	raw, err := c.provider.Get(ctx, key)
	if err == providers.ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache read failed: %w", err)
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		// Corrupt entry; drop it and report a miss
		_ = c.provider.Delete(ctx, key)
		return nil, nil
	}

	if c.now().Sub(envelope.WrittenAt) > c.ttl {
		_ = c.provider.Delete(ctx, key)
		return nil, nil
	}

	return &CachedResults{Results: envelope.Results, Stale: envelope.Stale}, nil
}

// Set stores a fresh result set under the key
func (c *SearchCache) Set(ctx context.Context, key string, results []*entities.SearchResult) error {
	envelope := cacheEnvelope{
		Results:   results,
		WrittenAt: c.now(),
		Stale:     false,
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("cache encode failed: %w", err)
	}

	// The provider TTL is a floor-level cleanup; freshness is decided by the
	// written_at check so MarkStale survives until expiry.
	if err := c.provider.Set(ctx, key, raw, 2*c.ttl); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

// MarkStale flips the stale flag on an entry without touching its age.
// Absent entries are a no-op.
func (c *SearchCache) MarkStale(ctx context.Context, key string) error {
	raw, err := c.provider.Get(ctx, key)
	if err == providers.ErrCacheMiss {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache read failed: %w", err)
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return c.provider.Delete(ctx, key)
	}
	if envelope.Stale {
		return nil
	}

	envelope.Stale = true
	updated, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("cache encode failed: %w", err)
	}

	remaining := 2*c.ttl - c.now().Sub(envelope.WrittenAt)
	if remaining <= 0 {
		return c.provider.Delete(ctx, key)
	}
	if err := c.provider.Set(ctx, key, updated, remaining); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

// Invalidate removes an entry
func (c *SearchCache) Invalidate(ctx context.Context, key string) error {
	return c.provider.Delete(ctx, key)
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"vintelli-api/internal/model"
)

// ResultCache stores complete analysis results keyed by listing address.
type ResultCache struct {
	backend Cache
	ttl     time.Duration
}

// NewResultCache wraps backend. A nil backend yields a nil ResultCache,
// whose methods are no-ops.
func NewResultCache(backend Cache, ttl time.Duration) *ResultCache {
	if backend == nil {
		return nil
	}
	return &ResultCache{backend: backend, ttl: ttl}
}

// ResultKey derives the cache key for a listing address.
func ResultKey(address string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(address)))
	return "result:" + hex.EncodeToString(sum[:])
}

// Resolve returns the cached result for address, or runs compute and caches
// what it returns. hit reports whether the cache answered. Errors from
// compute are returned as is and never cached. A result that was computed
// but could not be stored is still returned.
func (c *ResultCache) Resolve(ctx context.Context, address string, compute func() (*model.AnalyzeResult, error)) (res *model.AnalyzeResult, hit bool, err error) {
	if c == nil {
		res, err = compute()
		return res, false, err
	}

	key := ResultKey(address)
	var fresh *model.AnalyzeResult
	data, err := c.backend.GetOrSet(ctx, key, c.ttl, func() ([]byte, error) {
		r, err := compute()
		if err != nil {
			return nil, err
		}
		fresh = r
		return json.Marshal(r)
	})

	switch {
	case fresh != nil:
		if err != nil {
			log.Printf("[ResultCache] Store failed for %s: %v", address, err)
		}
		return fresh, false, nil
	case err != nil:
		return nil, false, err
	}

	var cached model.AnalyzeResult
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Printf("[ResultCache] Evicting undecodable entry for %s: %v", address, err)
		_ = c.backend.Delete(ctx, key)

		res, err = compute()
		if err != nil {
			return nil, false, err
		}
		if err := c.store(ctx, key, res); err != nil {
			log.Printf("[ResultCache] Store failed for %s: %v", address, err)
		}
		return res, false, nil
	}
	return &cached, true, nil
}

func (c *ResultCache) store(ctx context.Context, key string, res *model.AnalyzeResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.backend.Set(ctx, key, data, c.ttl)
}

// Clear removes all cached results.
func (c *ResultCache) Clear(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.backend.Clear(ctx)
}

// TTL returns the configured entry lifetime.
func (c *ResultCache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

// internal/engine/search/cache.go
package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"compare-engine/internal/common/database"
	"compare-engine/internal/common/logger"
)

const cacheKeyPrefix = "search:results:"

// Cache stores completed search responses in Redis for a short TTL. Every
// cache failure degrades to a live search; the cache can never fail a call.
type Cache struct {
	client *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

// NewCache creates a response cache.
func NewCache(client *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl, logger: log}
}

func cacheKey(term string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(term))
}

// Get returns the cached response for a term, or ok=false on miss or error.
func (c *Cache) Get(ctx context.Context, term string) (*Response, bool) {
	raw, err := c.client.Client.Get(ctx, cacheKey(term)).Result()
	if err != nil {
		return nil, false
	}

	var response Response
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		c.logger.Debug("Discarding undecodable cached search response", map[string]interface{}{
			"term": term,
		})
		return nil, false
	}
	return &response, true
}

// Set stores a response. Failures are logged at debug and ignored.
func (c *Cache) Set(ctx context.Context, term string, response *Response) {
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := c.client.Client.Set(ctx, cacheKey(term), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("Failed to cache search response", map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		})
	}
}

package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"pdf-chat-platform/internal/logger"
	"pdf-chat-platform/models"

	"github.com/redis/go-redis/v9"
)

// HighlightCache caches validated highlight responses in Redis so repeated
// citations on the same page skip the chunk-store and LLM round trips. A nil
// cache is a no-op, which keeps the resolver usable without Redis.
type HighlightCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewHighlightCache(rdb *redis.Client, ttl time.Duration) *HighlightCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &HighlightCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached response for the query, or (nil, false) on a miss.
// Redis failures count as misses.
func (c *HighlightCache) Get(ctx context.Context, orgURL, filename, page, snippet string) (*models.HighlightResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, cacheKey(orgURL, filename, page, snippet)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("highlight cache read failed", "error", err)
		}
		return nil, false
	}

	var resp models.HighlightResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set stores a response. Callers only cache responses whose highlight passed
// the validation gate; null-highlight responses are recomputed every time.
func (c *HighlightCache) Set(ctx context.Context, orgURL, filename, page, snippet string, resp *models.HighlightResponse) {
	if c == nil || c.rdb == nil || resp == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(orgURL, filename, page, snippet), data, c.ttl).Err(); err != nil {
		logger.Warn("highlight cache write failed", "error", err)
	}
}

// Invalidate drops every cached entry for a document, across all pages and
// snippets. Called after the document's chunks are re-ingested.
func (c *HighlightCache) Invalidate(ctx context.Context, orgURL, filename string) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	pattern := fmt.Sprintf("highlight:%x:%x:*", sha256.Sum224([]byte(orgURL)), sha256.Sum224([]byte(filename)))
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// cacheKey hashes each component so filenames and snippets with separator
// characters cannot collide across tenants.
func cacheKey(orgURL, filename, page, snippet string) string {
	return fmt.Sprintf("highlight:%x:%x:%x:%x",
		sha256.Sum224([]byte(orgURL)),
		sha256.Sum224([]byte(filename)),
		sha256.Sum224([]byte(page)),
		sha256.Sum224([]byte(snippet)))
}

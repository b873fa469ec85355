package itemcache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"citedeck/internal/logging"
	"citedeck/internal/reference"
)

// Client fronts a reference.Client with the cache. Single-item fetches hit
// the cache first; searches always go to the source, since result sets
// change as the library does.
type Client struct {
	src    reference.Client
	cache  *Cache
	ttl    time.Duration
	logger *zap.Logger
}

var _ reference.Client = (*Client)(nil)

// Wrap builds a caching client. ttl <= 0 uses DefaultTTL.
func Wrap(src reference.Client, cache *Cache, ttl time.Duration, logger *zap.Logger) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if logger == nil {
		logger = logging.Nop()
	}

	return &Client{src: src, cache: cache, ttl: ttl, logger: logger}
}

// Search implements reference.Client.
func (c *Client) Search(ctx context.Context, query string) ([]reference.Item, error) {
	items, err := c.src.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	// Warm the cache with what the search already fetched.
	for _, item := range items {
		if err := c.cache.Put(ctx, item); err != nil {
			c.logger.Warn("item cache write failed", zap.String("key", item.Key), zap.Error(err))

			break
		}
	}

	return items, nil
}

// Get implements reference.Client.
func (c *Client) Get(ctx context.Context, key string) (reference.Item, error) {
	item, hit, err := c.cache.Get(ctx, key, c.ttl)
	if err != nil {
		// A broken cache degrades to the source, it never blocks a cite.
		c.logger.Warn("item cache read failed", zap.String("key", key), zap.Error(err))
	}

	if hit {
		c.logger.Debug("item cache hit", zap.String("key", key))

		return item, nil
	}

	item, err = c.src.Get(ctx, key)
	if err != nil {
		return reference.Item{}, err
	}

	if err := c.cache.Put(ctx, item); err != nil {
		c.logger.Warn("item cache write failed", zap.String("key", key), zap.Error(err))
	}

	return item, nil
}

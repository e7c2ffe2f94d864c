package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// trendingKey is the Redis hash holding cached trending lists, one field
	// per requested limit.
	trendingKey = "cache:trending_ideas"

	// TrendingTTL bounds how stale a cached trending list can get between
	// recompute runs.
	TrendingTTL = 5 * time.Minute
)

// TrendingCache caches the trending idea list in Redis. The trending score
// is explicitly allowed to be stale between recomputes, so serving a cached
// list within the TTL window never violates the consistency contract.
type TrendingCache struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewTrending creates a new trending cache.
func NewTrending(client rueidis.Client, logger *zap.Logger) *TrendingCache {
	return &TrendingCache{
		client: client,
		logger: logger.Named("trending_cache"),
	}
}

// Get returns the cached trending list for the given limit, if present.
func (c *TrendingCache) Get(ctx context.Context, limit int) ([]*types.Idea, bool) {
	data, err := c.client.Do(ctx,
		c.client.B().Hget().Key(trendingKey).Field(strconv.Itoa(limit)).Build(),
	).AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.Warn("Failed to read trending cache", zap.Error(err))
		}

		return nil, false
	}

	var ideas []*types.Idea
	if err := sonic.Unmarshal(data, &ideas); err != nil {
		c.logger.Warn("Failed to decode trending cache entry", zap.Error(err))
		return nil, false
	}

	return ideas, true
}

// Set stores the trending list for the given limit and refreshes the TTL.
func (c *TrendingCache) Set(ctx context.Context, limit int, ideas []*types.Idea) {
	data, err := sonic.Marshal(ideas)
	if err != nil {
		c.logger.Warn("Failed to encode trending cache entry", zap.Error(err))
		return
	}

	err = c.client.Do(ctx,
		c.client.B().Hset().Key(trendingKey).
			FieldValue().FieldValue(strconv.Itoa(limit), rueidis.BinaryString(data)).Build(),
	).Error()
	if err != nil {
		c.logger.Warn("Failed to write trending cache", zap.Error(err))
		return
	}

	if err := c.client.Do(ctx,
		c.client.B().Expire().Key(trendingKey).Seconds(int64(TrendingTTL.Seconds())).Build(),
	).Error(); err != nil {
		c.logger.Warn("Failed to set trending cache TTL", zap.Error(err))
	}
}

// Invalidate drops every cached trending list. Called after a recompute run
// so refreshed scores become visible immediately.
func (c *TrendingCache) Invalidate(ctx context.Context) {
	if err := c.client.Do(ctx,
		c.client.B().Del().Key(trendingKey).Build(),
	).Error(); err != nil {
		c.logger.Warn("Failed to invalidate trending cache", zap.Error(err))
	}
}

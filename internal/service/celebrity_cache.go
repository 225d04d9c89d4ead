package service

import (
	"context"

	"github.com/famoustracker/famous-tracker-go/internal/constants"
	"github.com/famoustracker/famous-tracker-go/internal/domain"
	"github.com/famoustracker/famous-tracker-go/internal/service/cache"
	"go.uber.org/zap"
)

// CelebritySource is the durable store behind the cache.
type CelebritySource interface {
	FindByNormalizedName(ctx context.Context, normalizedName string) (*domain.Celebrity, error)
	GetAllCelebrities(ctx context.Context) ([]*domain.Celebrity, error)
}

// CelebrityCache is a read-through cache over the reference store. Exact
// lookups go memory -> redis -> store; the candidate set for fuzzy matching
// is cached wholesale under a fixed key with a long TTL, trading memory
// proportional to the reference set for guaranteed recall.
//
// The redis tier is optional (nil disables it); cached values are always
// recomputable, so a skipped or lost cache read only costs a store round trip.
type CelebrityCache struct {
	source  CelebritySource
	results *cache.Store
	redis   *cache.RedisCache
	logger  *zap.Logger
}

func NewCelebrityCache(source CelebritySource, results *cache.Store, redis *cache.RedisCache, logger *zap.Logger) *CelebrityCache {
	return &CelebrityCache{
		source:  source,
		results: results,
		redis:   redis,
		logger:  logger,
	}
}

func (c *CelebrityCache) FindByNormalizedName(ctx context.Context, normalizedName string) (*domain.Celebrity, error) {
	key := constants.CacheKey.CelebrityPrefix + normalizedName

	if value, ok := c.results.Get(key); ok {
		if celeb, ok := value.(*domain.Celebrity); ok {
			return celeb, nil
		}
	}

	var cached domain.Celebrity
	found, err := c.redis.Get(ctx, key, &cached)
	if err != nil {
		c.logger.Warn("Redis lookup failed, falling through to store",
			zap.String("key", key),
			zap.Error(err),
		)
	} else if found {
		c.results.Set(key, &cached, 0)
		return &cached, nil
	}

	celeb, err := c.source.FindByNormalizedName(ctx, normalizedName)
	if err != nil {
		return nil, err
	}
	if celeb == nil {
		// Misses are not cached: a freshly imported record must become
		// matchable immediately.
		return nil, nil
	}

	c.results.Set(key, celeb, 0)
	if err := c.redis.Set(ctx, key, celeb, constants.CacheTTL.CelebrityRecord); err != nil {
		c.logger.Warn("Failed to populate redis tier", zap.String("key", key), zap.Error(err))
	}

	return celeb, nil
}

func (c *CelebrityCache) GetAllCelebrities(ctx context.Context) ([]*domain.Celebrity, error) {
	if value, ok := c.results.Get(constants.CacheKey.CandidateSet); ok {
		if celebs, ok := value.([]*domain.Celebrity); ok {
			return celebs, nil
		}
	}

	celebs, err := c.source.GetAllCelebrities(ctx)
	if err != nil {
		return nil, err
	}

	c.results.Set(constants.CacheKey.CandidateSet, celebs, constants.CacheTTL.CandidateSet)
	return celebs, nil
}

// Invalidate drops the candidate set and any per-record entries after a
// reference write.
func (c *CelebrityCache) Invalidate(ctx context.Context, normalizedName string) {
	c.results.Invalidate(constants.CacheKey.CandidateSet)
	c.results.Invalidate(constants.CacheKey.CelebrityPrefix + normalizedName)

	if err := c.redis.DelPattern(ctx, constants.CacheKey.CelebrityPattern); err != nil {
		c.logger.Warn("Failed to invalidate redis tier", zap.Error(err))
	}
}

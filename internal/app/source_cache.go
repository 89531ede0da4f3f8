package app

import (
	"context"
	"time"

	"flex_reviews/internal/domain"
)

const sourceCacheKey = "hostaway:reviews"

// CachedSource memoizes the channel export snapshot for a short TTL. The
// pipeline itself always recomputes; only the upstream fetch is cached, so
// approval writes never need to invalidate anything here.
type CachedSource struct {
	src   domain.ReviewSource
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedSource(src domain.ReviewSource, cache domain.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{src: src, cache: cache, ttl: ttl}
}

func (c *CachedSource) FetchReviews(ctx context.Context) ([]domain.SourceReview, error) {
	var cached []domain.SourceReview
	if ok, _ := c.cache.Get(ctx, sourceCacheKey, &cached); ok {
		return cached, nil
	}
	records, err := c.src.FetchReviews(ctx)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, sourceCacheKey, records, int(c.ttl.Seconds()))
	return records, nil
}

package domain

import (
	"context"
	"errors"
)

// ReviewSource supplies the raw channel export, wholesale, per request.
// How the sequence is obtained (remote API, local file) is the adapter's
// business; callers get a fresh snapshot every call unless a caching
// decorator sits in between.
type ReviewSource interface {
	FetchReviews(ctx context.Context) ([]SourceReview, error)
}

// ApprovalStore is the durable moderation overlay: a plain review-id -> status
// mapping. A SetStatus must be visible to GetStatuses calls issued by later
// requests; nothing stronger is promised.
type ApprovalStore interface {
	GetStatuses(ctx context.Context, ids []string) (map[string]ReviewStatus, error)
	SetStatus(ctx context.Context, id string, status ReviewStatus) error
}

// Cache is a generic JSON-value cache (redis in production).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

var ErrInvalidReviewID = errors.New("invalid review id")

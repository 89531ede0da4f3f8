package app

import (
	"context"
	"strings"

	"flex_reviews/internal/domain"
)

// ApprovalService owns the overlay write path. Approve and Reset are the
// same operation parameterized by target status; the dashboard never writes
// anything else.
type ApprovalService struct {
	store domain.ApprovalStore
}

func NewApprovalService(store domain.ApprovalStore) *ApprovalService {
	return &ApprovalService{store: store}
}

func (s *ApprovalService) Approve(ctx context.Context, reviewID string) error {
	return s.setStatus(ctx, reviewID, domain.StatusApproved)
}

func (s *ApprovalService) Reset(ctx context.Context, reviewID string) error {
	return s.setStatus(ctx, reviewID, domain.StatusPending)
}

// setStatus validates before touching the store so a bad id has no side
// effects.
func (s *ApprovalService) setStatus(ctx context.Context, reviewID string, status domain.ReviewStatus) error {
	if strings.TrimSpace(reviewID) == "" {
		return domain.ErrInvalidReviewID
	}
	return s.store.SetStatus(ctx, reviewID, status)
}

package app

import (
	"context"
	"fmt"

	"flex_reviews/internal/domain"
)

// ReviewService answers the read endpoints. Every call fetches a fresh
// snapshot of the channel export plus a fresh read of the approval overlay
// and runs the pure pipeline over them; nothing is shared across requests,
// so concurrent calls need no coordination.
type ReviewService struct {
	src       domain.ReviewSource
	approvals domain.ApprovalStore
}

func NewReviewService(src domain.ReviewSource, approvals domain.ApprovalStore) *ReviewService {
	return &ReviewService{src: src, approvals: approvals}
}

// snapshot is the shared pipeline head: fetch, normalize, overlay.
func (s *ReviewService) snapshot(ctx context.Context) ([]domain.Review, error) {
	records, err := s.src.FetchReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	reviews := Normalize(records)

	ids := make([]string, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	statuses, err := s.approvals.GetStatuses(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("read approvals: %w", err)
	}
	return AttachStatus(reviews, statuses), nil
}

func (s *ReviewService) ListReviews(ctx context.Context, f domain.Filters, limit, offset string) (domain.ReviewPage, error) {
	reviews, err := s.snapshot(ctx)
	if err != nil {
		return domain.ReviewPage{}, err
	}
	return Apply(reviews, f, limit, offset), nil
}

func (s *ReviewService) PropertyStats(ctx context.Context) ([]domain.PropertyStats, error) {
	reviews, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(reviews), nil
}

func (s *ReviewService) ReviewTimeseries(ctx context.Context, opts TimeseriesOptions) ([]domain.TimeseriesDatum, error) {
	reviews, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Timeseries(reviews, opts), nil
}

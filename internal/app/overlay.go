package app

import "flex_reviews/internal/domain"

// AttachStatus merges the moderation overlay onto normalized reviews.
// Reviews without an overlay entry default to pending. Total function; the
// input slice is not mutated.
func AttachStatus(reviews []domain.Review, statuses map[string]domain.ReviewStatus) []domain.Review {
	out := make([]domain.Review, len(reviews))
	copy(out, reviews)
	for i := range out {
		if s, ok := statuses[out[i].ID]; ok {
			out[i].Status = s
		} else {
			out[i].Status = domain.StatusPending
		}
	}
	return out
}

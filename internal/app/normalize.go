package app

import (
	"math"
	"strconv"
	"time"

	"flex_reviews/internal/domain"
)

// submittedAt layouts seen in Hostaway exports, most common first.
var submittedAtLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Normalize maps raw Hostaway records into the canonical review shape.
// Moderation status is NOT set here; the overlay attaches it afterwards.
func Normalize(records []domain.SourceReview) []domain.Review {
	out := make([]domain.Review, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.Review{
			ID:           strconv.FormatInt(rec.ID, 10),
			PropertyName: rec.ListingName,
			GuestName:    rec.GuestName,
			Rating:       overallRating(rec),
			Comment:      rec.Public,
			Date:         parseSubmittedAt(rec.SubmittedAt),
			Channel:      domain.ChannelHostaway,
			Categories:   subRatings(rec.Categories),
		})
	}
	return out
}

// overallRating prefers the record's own rating; when that is absent the
// fallback averages the 10-point category scores onto the 5-point scale.
func overallRating(rec domain.SourceReview) domain.Rating {
	if rec.Rating != nil && isFinite(*rec.Rating) {
		return domain.Rating(*rec.Rating)
	}
	return domain.Rating(categoryAverage(rec.Categories))
}

// categoryAverage sums the category scores (non-finite counted as 0),
// averages with a minimum divisor of 1, halves to reach the 5-point scale
// and rounds half away from zero. Empty category list yields 0.
func categoryAverage(cats []domain.SourceCategory) float64 {
	sum := 0.0
	for _, c := range cats {
		if isFinite(c.Rating) {
			sum += c.Rating
		}
	}
	n := len(cats)
	if n < 1 {
		n = 1
	}
	return math.Round(sum / float64(n) / 2)
}

// subRatings extracts the fixed category keys. A raw score of 0 is treated
// as "not rated" and omitted, same as a missing entry. That conflates a
// genuine zero with absence; the dashboard has always relied on it, so it is
// kept as-is (confirm with product before changing).
func subRatings(cats []domain.SourceCategory) map[string]float64 {
	m := make(map[string]float64, len(domain.CategoryKeys))
	for _, key := range domain.CategoryKeys {
		for _, c := range cats {
			if c.Category == key && c.Rating != 0 && isFinite(c.Rating) {
				m[key] = math.Round(c.Rating / 2)
				break
			}
		}
	}
	return m
}

// parseSubmittedAt tries the known layouts; malformed timestamps come back
// as the zero time, mirroring the leniency of the export itself.
func parseSubmittedAt(s string) time.Time {
	for _, layout := range submittedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

package app

import (
	"regexp"
	"sort"
	"strings"

	"flex_reviews/internal/domain"
)

// trendBand is the exclusive dead zone around "no change"; a window delta
// must exceed it to register as up or down.
const trendBand = 0.05

// Aggregate rolls the full review set up into per-property stats. Grouping
// is by exact property name, first-seen order preserved.
func Aggregate(reviews []domain.Review) []domain.PropertyStats {
	var names []string
	groups := make(map[string][]domain.Review)
	for _, r := range reviews {
		if _, ok := groups[r.PropertyName]; !ok {
			names = append(names, r.PropertyName)
		}
		groups[r.PropertyName] = append(groups[r.PropertyName], r)
	}

	out := make([]domain.PropertyStats, 0, len(names))
	for _, name := range names {
		list := groups[name]

		var approved []domain.Review
		for _, r := range list {
			if r.Status == domain.StatusApproved {
				approved = append(approved, r)
			}
		}

		// Approved-only mean. A non-finite rating inside the approved
		// subset contributes 0 to the sum but still counts in the
		// denominator (the timeseries builder does the opposite).
		avg := 0.0
		if len(approved) > 0 {
			sum := 0.0
			for _, r := range approved {
				sum += r.Rating.OrZero()
			}
			avg = sum / float64(len(approved))
		}

		out = append(out, domain.PropertyStats{
			ID:              slugify(name),
			Name:            name,
			TotalReviews:    len(list),
			ApprovedReviews: len(approved),
			AverageRating:   avg,
			RecentTrend:     recentTrend(approved),
		})
	}
	return out
}

// recentTrend compares the mean of the three newest approved ratings with
// the mean of the three before them. Fewer than six approved reviews is not
// enough signal and always reads "stable".
func recentTrend(approved []domain.Review) string {
	if len(approved) < 6 {
		return "stable"
	}
	sorted := make([]domain.Review, len(approved))
	copy(sorted, approved)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	last3 := windowMean(sorted[0:3])
	prev3 := windowMean(sorted[3:6])
	switch {
	case last3 > prev3+trendBand:
		return "up"
	case last3 < prev3-trendBand:
		return "down"
	default:
		return "stable"
	}
}

func windowMean(rs []domain.Review) float64 {
	sum := 0.0
	for _, r := range rs {
		sum += r.Rating.OrZero()
	}
	return sum / 3
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify: lowercase, collapse non-alphanumeric runs to a single hyphen,
// trim edge hyphens. Distinct names can collide on the same slug; the rows
// are kept separate and simply share the id.
func slugify(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

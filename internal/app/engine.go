package app

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Apply runs the list pipeline tail: conjunctive filters, a stable sort and
// an offset/limit window. limit and offset arrive as raw query strings;
// anything unparsable falls back to its default rather than failing, same as
// every other filter field.
func Apply(reviews []domain.Review, f domain.Filters, limit, offset string) domain.ReviewPage {
	rs := filter(reviews, f)
	sortReviews(rs, f.Sort)

	lim := clamp(atoiOr(limit, defaultLimit), 1, maxLimit)
	off := atoiOr(offset, 0)
	if off < 0 {
		off = 0
	}

	total := len(rs)
	if off > total {
		off = total
	}
	end := off + lim
	if end > total {
		end = total
	}
	return domain.ReviewPage{Data: rs[off:end], Total: total}
}

func filter(reviews []domain.Review, f domain.Filters) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))

	needle := strings.ToLower(f.Property)
	minRating, hasMinRating := atoi(f.Rating)
	start := parseDateOrNil(f.StartDate)
	end := parseDateOrNil(f.EndDate)
	minCat := 1
	if n, ok := atoi(f.MinCategory); ok {
		minCat = n
	}

	for _, r := range reviews {
		if needle != "" && !strings.Contains(strings.ToLower(r.PropertyName), needle) {
			continue
		}
		if f.Channel != "" && !strings.EqualFold(string(r.Channel), f.Channel) {
			continue
		}
		if hasMinRating && r.Rating.OrZero() < float64(minRating) {
			continue
		}
		if start != nil && r.Date.Before(*start) {
			continue
		}
		if end != nil && r.Date.After(*end) {
			continue
		}
		if f.Status != "" && f.Status != "all" && r.Status != domain.ReviewStatus(f.Status) {
			continue
		}
		if f.Category != "" {
			// Undefined sub-ratings fail the predicate; never default-pass.
			sub, ok := r.Categories[f.Category]
			if !ok || sub < float64(minCat) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// sortReviews is stable: ties keep the order they arrived in.
func sortReviews(rs []domain.Review, key string) {
	switch key {
	case domain.SortDateAsc:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Date.Before(rs[j].Date) })
	case domain.SortRatingDesc:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Rating.OrZero() > rs[j].Rating.OrZero() })
	case domain.SortRatingAsc:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Rating.OrZero() < rs[j].Rating.OrZero() })
	default: // date_desc
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Date.After(rs[j].Date) })
	}
}

var filterDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// parseDateOrNil: a bound that fails to parse is simply absent.
func parseDateOrNil(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range filterDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func atoiOr(s string, def int) int {
	if n, ok := atoi(s); ok {
		return n
	}
	return def
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

package app

import (
	"math"
	"sort"
	"time"

	"flex_reviews/internal/domain"
)

// TimeseriesOptions selects which reviews enter the series and how wide the
// buckets are. An empty Statuses slice means "include everything".
type TimeseriesOptions struct {
	Statuses    []domain.ReviewStatus
	Granularity domain.Granularity
}

// Timeseries buckets reviews into calendar intervals and returns the series
// in ascending bucket order. Unlike Aggregate, a non-finite rating is left
// out of the bucket mean entirely; it still counts toward the bucket size.
func Timeseries(reviews []domain.Review, opts TimeseriesOptions) []domain.TimeseriesDatum {
	allowed := make(map[domain.ReviewStatus]struct{}, len(opts.Statuses))
	for _, s := range opts.Statuses {
		allowed[s] = struct{}{}
	}
	gran := opts.Granularity
	if gran != domain.GranularityWeek && gran != domain.GranularityMonth {
		gran = domain.GranularityDay
	}

	type bucket struct {
		count      int
		sum        float64
		withRating int
	}
	grouped := make(map[string]*bucket)

	for _, r := range reviews {
		if len(allowed) > 0 {
			if _, ok := allowed[r.Status]; !ok {
				continue
			}
		}
		key := bucketKey(r.Date, gran)
		b := grouped[key]
		if b == nil {
			b = &bucket{}
			grouped[key] = b
		}
		b.count++
		if r.Rating.Finite() {
			b.sum += float64(r.Rating)
			b.withRating++
		}
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.TimeseriesDatum, 0, len(keys))
	for _, k := range keys {
		b := grouped[k]
		avg := 0.0
		if b.withRating > 0 {
			avg = round2(b.sum / float64(b.withRating))
		}
		out = append(out, domain.TimeseriesDatum{Date: k, Count: b.count, AvgRating: avg})
	}
	return out
}

// bucketKey normalizes to midnight, then shifts week buckets back to the
// ISO Monday and month buckets to the first of the month.
func bucketKey(t time.Time, gran domain.Granularity) string {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch gran {
	case domain.GranularityWeek:
		wd := int(d.Weekday())
		if wd == 0 {
			wd = 7 // Sunday closes the ISO week
		}
		d = d.AddDate(0, 0, 1-wd)
	case domain.GranularityMonth:
		d = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	}
	return d.Format("2006-01-02")
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

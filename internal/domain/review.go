package domain

import (
	"math"
	"strconv"
	"time"
)

// Channel identifies which booking platform a review came from. Only the
// Hostaway export is normalized today; the other values are reserved so the
// enum doesn't change when those sources land.
type Channel string

const (
	ChannelHostaway Channel = "hostaway"
	ChannelAirbnb   Channel = "airbnb"
	ChannelBooking  Channel = "booking"
	ChannelGoogle   Channel = "google"
)

// ReviewStatus is the moderation state kept in the approval overlay.
// The dashboard only ever writes "approved" and "pending"; the rest exist
// for upstream passthrough.
type ReviewStatus string

const (
	StatusAwaiting  ReviewStatus = "awaiting"
	StatusPending   ReviewStatus = "pending"
	StatusScheduled ReviewStatus = "scheduled"
	StatusSubmitted ReviewStatus = "submitted"
	StatusPublished ReviewStatus = "published"
	StatusExpired   ReviewStatus = "expired"
	StatusApproved  ReviewStatus = "approved"
	StatusPublic    ReviewStatus = "public"
)

// CategoryKeys are the fixed sub-rating categories extracted from the source
// payload. Anything else in the export's category list is ignored.
var CategoryKeys = []string{
	"cleanliness", "communication", "location", "accuracy", "checkin", "value",
}

// SourceReview is one record as the Hostaway export ships it. Rating may be
// null and Categories may be empty; both are normal.
type SourceReview struct {
	ID          int64            `json:"id"`
	Type        string           `json:"type"`
	Status      string           `json:"status"`
	Rating      *float64         `json:"rating"`
	Public      string           `json:"publicReview"`
	Categories  []SourceCategory `json:"reviewCategory"`
	SubmittedAt string           `json:"submittedAt"`
	GuestName   string           `json:"guestName"`
	ListingName string           `json:"listingName"`
}

// SourceCategory is a single 10-point category score on a source record.
type SourceCategory struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// Rating is a 0..5 overall score. NaN is a legitimate value meaning
// "unratable"; it marshals to JSON null so the wire shape matches the raw
// channel payloads the dashboard already understands.
type Rating float64

func (r Rating) Finite() bool { return !math.IsNaN(float64(r)) && !math.IsInf(float64(r), 0) }

// OrZero collapses the NaN sentinel to 0 for comparisons and sums.
func (r Rating) OrZero() float64 {
	if !r.Finite() {
		return 0
	}
	return float64(r)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Finite() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(r), 'f', -1, 64), nil
}

func (r *Rating) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Rating(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*r = Rating(f)
	return nil
}

// Review is the canonical, source-agnostic shape every downstream stage
// operates on. Categories holds only the sub-scores the guest actually
// provided; a missing key means "not rated", never zero.
type Review struct {
	ID           string             `json:"id"`
	PropertyName string             `json:"propertyName"`
	GuestName    string             `json:"guestName"`
	Rating       Rating             `json:"rating"`
	Comment      string             `json:"comment"`
	Date         time.Time          `json:"date"`
	Channel      Channel            `json:"channel"`
	Categories   map[string]float64 `json:"categories"`
	Status       ReviewStatus       `json:"status"`
}

// Sort keys accepted by the list endpoint.
const (
	SortDateDesc   = "date_desc"
	SortDateAsc    = "date_asc"
	SortRatingDesc = "rating_desc"
	SortRatingAsc  = "rating_asc"
)

// Filters carries the list endpoint's query constraints. Fields hold
// raw query-string values; empty means "no constraint" and unparsable
// numerics/dates degrade to their documented defaults instead of failing.
type Filters struct {
	Property    string
	Channel     string
	Rating      string
	StartDate   string
	EndDate     string
	Status      string // exact match, or "all" / "" for no filter
	Category    string
	MinCategory string
	Sort        string
}

// ReviewPage is a filtered window plus the pre-pagination total.
type ReviewPage struct {
	Data  []Review `json:"data"`
	Total int      `json:"total"`
}

// PropertyStats is the per-property rollup shown on the dashboard overview.
// AverageRating covers approved reviews only. RecentTrend compares the last
// three approved ratings against the previous three and is always "stable"
// below six approved reviews (insufficient data, not a real signal).
type PropertyStats struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	TotalReviews    int     `json:"totalReviews"`
	ApprovedReviews int     `json:"approvedReviews"`
	AverageRating   float64 `json:"averageRating"`
	RecentTrend     string  `json:"recentTrend"` // up|down|stable
}

// Granularity selects the timeseries bucket width.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// TimeseriesDatum is one calendar bucket of the ratings chart. AvgRating
// averages only the reviews in the bucket with a finite rating.
type TimeseriesDatum struct {
	Date      string  `json:"date"` // YYYY-MM-DD bucket start
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

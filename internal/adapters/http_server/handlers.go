// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

type Handlers struct {
	Q *app.ReviewService
	A *app.ApprovalService
}

// envelope is the fixed wire shape all endpoints answer with.
type envelope struct {
	Status  string `json:"status"` // success|error
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/api/reviews/hostaway", h.listReviews)
	s.mux.Get("/api/properties", h.propertyStats)
	s.mux.Get("/api/analytics/timeseries", h.timeseries)
	s.mux.Post("/api/reviews/approve", h.approve)
	s.mux.Post("/api/reviews/reset", h.reset)
}

func writeJSON(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Status: "error", Message: msg})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v envelope) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v envelope) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.Filters{
		Property:    q.Get("property"),
		Channel:     q.Get("channel"),
		Rating:      q.Get("rating"),
		StartDate:   q.Get("startDate"),
		EndDate:     q.Get("endDate"),
		Status:      q.Get("status"),
		Category:    q.Get("category"),
		MinCategory: q.Get("minCategory"),
		Sort:        q.Get("sort"),
	}

	page, err := h.Q.ListReviews(r.Context(), f, q.Get("limit"), q.Get("offset"))
	if err != nil {
		log.Error().Err(err).Msg("list reviews failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	writeCached(w, r, envelope{Status: "success", Data: page.Data, Total: &page.Total})
}

func (h *Handlers) propertyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Q.PropertyStats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("property stats failed")
		writeError(w, http.StatusInternalServerError, "Failed to compute property stats")
		return
	}
	total := len(stats)
	writeCached(w, r, envelope{Status: "success", Data: stats, Total: &total})
}

func (h *Handlers) timeseries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := app.TimeseriesOptions{
		Granularity: domain.Granularity(q.Get("granularity")),
	}
	if raw := q.Get("statuses"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				opts.Statuses = append(opts.Statuses, domain.ReviewStatus(s))
			}
		}
	}

	series, err := h.Q.ReviewTimeseries(r.Context(), opts)
	if err != nil {
		log.Error().Err(err).Msg("timeseries failed")
		writeError(w, http.StatusInternalServerError, "Failed to build timeseries")
		return
	}
	total := len(series)
	writeCached(w, r, envelope{Status: "success", Data: series, Total: &total})
}

type approvalRequest struct {
	ReviewID string `json:"reviewId"`
}

func (h *Handlers) approve(w http.ResponseWriter, r *http.Request) {
	h.setApproval(w, r, "approved", h.A.Approve)
}

func (h *Handlers) reset(w http.ResponseWriter, r *http.Request) {
	h.setApproval(w, r, "pending", h.A.Reset)
}

func (h *Handlers) setApproval(w http.ResponseWriter, r *http.Request, target string, set func(context.Context, string) error) {
	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	err := set(r.Context(), req.ReviewID)
	observability.ObserveApprovalWrite(target, err)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReviewID) {
			writeError(w, http.StatusBadRequest, "Invalid reviewId")
			return
		}
		log.Error().Err(err).Str("reviewId", req.ReviewID).Msg("approval write failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success"})
}

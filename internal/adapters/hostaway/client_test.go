package hostaway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/domain"
)

func record(id int64) map[string]any {
	return map[string]any{
		"id":          id,
		"type":        "guest-to-host",
		"status":      "published",
		"rating":      5,
		"submittedAt": "2023-01-01 10:00:00",
		"guestName":   "G",
		"listingName": "A",
	}
}

func TestClient_FetchReviews_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"result": []any{record(7453)},
				"count":  1,
			})
		}
	}))
	defer ts.Close()

	cl, err := hostaway.New(ts.URL, "test-key", 100, 100, 4) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.FetchReviews(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7453 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_FetchReviews_Paged(t *testing.T) {
	const total = 5
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		var result []any
		for i := offset; i < offset+limit && i < total; i++ {
			result = append(result, record(int64(100+i)))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"result": result,
			"count":  total,
		})
	}))
	defer ts.Close()

	cl, err := hostaway.New(ts.URL, "test-key", 100, 2, 3) // page size 2 -> 3 pages
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := cl.FetchReviews(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != total {
		t.Fatalf("want %d records, got %d", total, len(got))
	}
	// Export order must survive the parallel page fetch.
	for i, r := range got {
		if r.ID != int64(100+i) {
			t.Fatalf("order broken at %d: %+v", i, r)
		}
	}
}

func TestClient_FetchReviews_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := hostaway.New(ts.URL, "test-key", 100, 100, 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err = cl.FetchReviews(ctx); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestClient_RequiresKey(t *testing.T) {
	if _, err := hostaway.New("http://localhost", "", 5, 100, 4); err == nil {
		t.Fatalf("expected error without API key")
	}
}

func TestClient_FetchReviews_RejectsErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "fail", "result": []any{}})
	}))
	defer ts.Close()

	cl, _ := hostaway.New(ts.URL, "test-key", 100, 100, 4)
	if _, err := cl.FetchReviews(context.Background()); err == nil {
		t.Fatalf("expected envelope status error")
	}
}

var _ domain.ReviewSource = (*hostaway.Client)(nil)

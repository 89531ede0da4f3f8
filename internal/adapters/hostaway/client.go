// internal/adapters/hostaway/client.go
package hostaway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

var (
	ErrNotFound     = errors.New("hostaway: not found")
	ErrUnauthorized = errors.New("hostaway: unauthorized")
	ErrForbidden    = errors.New("hostaway: forbidden")
)

// Client pulls the review export from the Hostaway API. Results are paged;
// FetchReviews grabs the first page to learn the total, then fills the rest
// with a bounded number of parallel page fetches.
type Client struct {
	base     string
	hc       *http.Client
	key      string
	rl       *rate.Limiter
	pageSize int
	workers  int64
}

func New(base, key string, rps, pageSize, workers int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 100
	}
	if workers <= 0 {
		workers = 4
	}
	return &Client{
		base:     strings.TrimRight(base, "/"),
		hc:       &http.Client{Timeout: 20 * time.Second},
		key:      key,
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		pageSize: pageSize,
		workers:  int64(workers),
	}, nil
}

// page is the Hostaway envelope around one slice of the export.
type page struct {
	Status string                `json:"status"`
	Result []domain.SourceReview `json:"result"`
	Count  int                   `json:"count"`
}

func (c *Client) FetchReviews(ctx context.Context) ([]domain.SourceReview, error) {
	first, err := c.getPage(ctx, 0)
	if err != nil {
		return nil, err
	}
	total := first.Count
	if total <= len(first.Result) {
		return first.Result, nil
	}

	// Remaining pages in parallel, bounded by the semaphore, each landing in
	// its own slot so the export's order survives.
	nPages := (total + c.pageSize - 1) / c.pageSize
	pages := make([][]domain.SourceReview, nPages)
	pages[0] = first.Result

	sem := semaphore.NewWeighted(c.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 1; i < nPages; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer sem.Release(1)
			p, err := c.getPage(ctx, idx*c.pageSize)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			pages[idx] = p.Result
		}(i)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	out := make([]domain.SourceReview, 0, total)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out, nil
}

func (c *Client) getPage(ctx context.Context, offset int) (page, error) {
	url := fmt.Sprintf("%s/reviews?limit=%d&offset=%d", c.base, c.pageSize, offset)
	var out page
	start := time.Now()
	err := c.get(ctx, url, &out)
	status := 200
	if err != nil {
		status = 0
	}
	observability.ObserveExternal("hostaway", "/reviews", status, time.Since(start))
	if err != nil {
		return page{}, err
	}
	if out.Status != "" && out.Status != "success" {
		return page{}, fmt.Errorf("hostaway: status %q", out.Status)
	}
	if out.Count == 0 {
		out.Count = len(out.Result)
	}
	return out, nil
}

// get performs a GET with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After
// when provided.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "flex-reviews/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * 250 * time.Millisecond
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

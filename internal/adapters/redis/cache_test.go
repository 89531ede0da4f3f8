package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	records := []domain.SourceReview{
		{ID: 7453, GuestName: "Shane", ListingName: "2B N1 A - 29 Shoreditch Heights"},
	}

	// Miss before set
	var got []domain.SourceReview
	ok, err := c.Get(ctx, "hostaway:reviews", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}

	if err := c.Set(ctx, "hostaway:reviews", records, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err = c.Get(ctx, "hostaway:reviews", &got)
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].ID != 7453 || got[0].ListingName != "2B N1 A - 29 Shoreditch Heights" {
		t.Fatalf("unexpected payload: %+v", got)
	}

	if err := c.Del(ctx, "hostaway:reviews"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "hostaway:reviews", &got)
	if ok {
		t.Fatalf("expected miss after del")
	}
}

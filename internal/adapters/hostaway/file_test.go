package hostaway_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/domain"
)

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func TestFileSource_BareArray(t *testing.T) {
	path := writeExport(t, `[
		{"id": 7453, "rating": null, "listingName": "A", "submittedAt": "2020-08-21 22:45:14",
		 "reviewCategory": [{"category": "cleanliness", "rating": 10}]}
	]`)
	src := hostaway.NewFileSource(path)
	got, err := src.FetchReviews(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7453 || got[0].Rating != nil {
		t.Fatalf("unexpected records: %+v", got)
	}
	if len(got[0].Categories) != 1 || got[0].Categories[0].Rating != 10 {
		t.Fatalf("categories: %+v", got[0].Categories)
	}
}

func TestFileSource_APIEnvelope(t *testing.T) {
	path := writeExport(t, `{"status": "success", "result": [{"id": 1, "listingName": "B"}], "count": 1}`)
	src := hostaway.NewFileSource(path)
	got, err := src.FetchReviews(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ListingName != "B" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := hostaway.NewFileSource(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := src.FetchReviews(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

var _ domain.ReviewSource = (*hostaway.FileSource)(nil)

package hostaway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"flex_reviews/internal/domain"
)

// FileSource reads a Hostaway export from disk. Used in sandboxes and for
// the bundled sample dataset; it accepts either the API envelope or a bare
// array of records.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (f *FileSource) FetchReviews(ctx context.Context) ([]domain.SourceReview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read export %s: %w", f.path, err)
	}

	var records []domain.SourceReview
	if err := json.Unmarshal(b, &records); err == nil {
		return records, nil
	}
	var env page
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode export %s: %w", f.path, err)
	}
	return env.Result, nil
}

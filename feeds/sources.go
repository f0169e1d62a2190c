package feeds

import (
	"context"

	"feedmix/models"
)

// Source retrieves one page of raw records for a single content kind. Each
// kind is paginated independently: offset is derived from the page index and
// that kind's own quota, never from a shared global cursor. Records matching
// excludeIDs must be filtered out server-side so they do not consume page
// budget.
type Source interface {
	FetchPage(ctx context.Context, kind models.SourceKind, offset int, limit int, excludeIDs []string) ([]models.ContentRecord, error)
}

// AuthorLookup resolves a set of author ids in one batched query. The
// composer collects the distinct ids across all fetched records and issues a
// single call, never one lookup per item.
type AuthorLookup interface {
	GetAuthors(ctx context.Context, ids []string) (map[string]models.Author, error)
}

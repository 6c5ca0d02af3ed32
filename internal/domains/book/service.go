package book

import (
	"context"
)

// Catalog is the remote book-catalog lookup. Implemented by
// infrastructure/catalog.GoogleBooksClient.
type Catalog interface {
	// Search returns up to maxResults normalized books in provider relevance
	// order. Fails with ErrCatalogUnavailable on remote errors and
	// ErrCatalogEmpty when zero usable records come back.
	Search(ctx context.Context, query string, maxResults int) ([]Book, error)
}

// HistoryRecorder appends to a user's search history. Implemented by the
// library repository.
type HistoryRecorder interface {
	RecordSearch(ctx context.Context, userID int64, query string) error
}

// Service is the catalog-facing search facade.
type Service interface {
	// Search queries the catalog, caches each result for subsequent likes,
	// and appends the query to the user's search history (best-effort).
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)

	// Random returns a single arbitrary book from the catalog.
	Random(ctx context.Context) (*Book, error)
}

package library

import (
	"context"
)

// Repository is the preference-store accessor: typed operations over the
// liked_books and search_history tables.
type Repository interface {
	// InsertLike saves a liked book if not already present. Uniqueness is
	// store-enforced; inserted=false means the user had already liked a book
	// with this title (case-insensitively).
	InsertLike(ctx context.Context, liked *LikedBook) (inserted bool, err error)

	// ListLikes returns all of a user's liked books, oldest first.
	ListLikes(ctx context.Context, userID int64) ([]LikedBook, error)

	// RecordSearch appends a search-history row.
	RecordSearch(ctx context.Context, userID int64, query string) error

	// ListSearches returns a user's search history, newest first.
	ListSearches(ctx context.Context, userID int64) ([]SearchEntry, error)

	// ClearSearches deletes all of the user's history rows and returns how
	// many were removed. The only deletion path in the data model.
	ClearSearches(ctx context.Context, userID int64) (int64, error)
}

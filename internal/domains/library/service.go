package library

import (
	"context"
)

// Service is the business layer over a user's preferences.
type Service interface {
	// Like saves a book by title, reading author/genre from the user's
	// last-search cache. Fails with ErrBookNotCached when the title was not
	// recently searched; reports OutcomeAlreadyLiked on repeats.
	Like(ctx context.Context, userID int64, req LikeRequest) (*LikeResponse, error)

	// LikedBooks lists the user's liked books.
	LikedBooks(ctx context.Context, userID int64) ([]LikedBook, error)

	// History lists the user's search history, newest first.
	History(ctx context.Context, userID int64) ([]SearchEntry, error)

	// ClearHistory removes all of the user's history rows.
	ClearHistory(ctx context.Context, userID int64) (*ClearHistoryResponse, error)
}

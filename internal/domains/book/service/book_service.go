package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/domains/book"
	"bookbuddy-backend/pkg/cache"
)

const (
	// defaultSearchLimit matches the transport's result window.
	defaultSearchLimit = 5

	// lastSearchTTL bounds the last-search cache. The TTL replaces the
	// unbounded in-process map the feature started with: entries expire on
	// their own and "like" stays independent of call ordering within a day.
	lastSearchTTL = 24 * time.Hour
)

type bookService struct {
	catalog book.Catalog
	cache   cache.Cache
	history book.HistoryRecorder
}

func NewBookService(catalog book.Catalog, cache cache.Cache, history book.HistoryRecorder) book.Service {
	return &bookService{
		catalog: catalog,
		cache:   cache,
		history: history,
	}
}

// Search queries the catalog and remembers each result so a follow-up like
// can recover the book's author and genre.
func (s *bookService) Search(ctx context.Context, req book.SearchRequest) (*book.SearchResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	books, err := s.catalog.Search(ctx, req.Query, req.Limit)
	if err != nil {
		return nil, err
	}

	for _, b := range books {
		if err := s.cache.Set(ctx, book.CacheKey(req.UserID, b.Title), b, lastSearchTTL); err != nil {
			log.Warn().Err(err).Str("title", b.Title).Msg("[Book] Failed to cache search result")
		}
	}

	// History is append-only bookkeeping; a write failure must not cost the
	// user their results.
	if err := s.history.RecordSearch(ctx, req.UserID, req.Query); err != nil {
		log.Error().Err(err).Int64("user_id", req.UserID).Msg("[Book] Failed to record search history")
	}

	return &book.SearchResponse{
		Query: req.Query,
		Books: books,
	}, nil
}

// Random returns one arbitrary catalog book.
func (s *bookService) Random(ctx context.Context) (*book.Book, error) {
	books, err := s.catalog.Search(ctx, "random", 1)
	if err != nil {
		return nil, fmt.Errorf("random book: %w", err)
	}
	return &books[0], nil
}

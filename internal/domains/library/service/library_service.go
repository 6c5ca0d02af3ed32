package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/domains/book"
	"bookbuddy-backend/internal/domains/library"
	"bookbuddy-backend/pkg/cache"
)

type libraryService struct {
	repo  library.Repository
	cache cache.Cache
}

func NewLibraryService(repo library.Repository, cache cache.Cache) library.Service {
	return &libraryService{
		repo:  repo,
		cache: cache,
	}
}

// Like saves the book a user just searched for. Author and genre come from
// the last-search cache; without a cache entry we refuse rather than store a
// bare title with made-up metadata.
func (s *libraryService) Like(ctx context.Context, userID int64, req library.LikeRequest) (*library.LikeResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var cached book.Book
	found, err := s.cache.Get(ctx, book.CacheKey(userID, req.Title), &cached)
	if err != nil {
		// A cache read failure is indistinguishable from a miss to the
		// caller; log it and ask them to search again.
		log.Warn().Err(err).Int64("user_id", userID).Msg("[Library] Cache read failed")
	}
	if !found {
		return nil, library.ErrBookNotCached
	}

	liked := &library.LikedBook{
		UserID: userID,
		Title:  cached.Title,
		Author: cached.Author,
		Genre:  cached.Genre,
	}

	inserted, err := s.repo.InsertLike(ctx, liked)
	if err != nil {
		return nil, fmt.Errorf("save like: %w", err)
	}

	outcome := library.OutcomeLiked
	if !inserted {
		outcome = library.OutcomeAlreadyLiked
	}

	return &library.LikeResponse{
		Outcome: outcome,
		Book:    cached,
	}, nil
}

func (s *libraryService) LikedBooks(ctx context.Context, userID int64) ([]library.LikedBook, error) {
	return s.repo.ListLikes(ctx, userID)
}

func (s *libraryService) History(ctx context.Context, userID int64) ([]library.SearchEntry, error) {
	return s.repo.ListSearches(ctx, userID)
}

func (s *libraryService) ClearHistory(ctx context.Context, userID int64) (*library.ClearHistoryResponse, error) {
	deleted, err := s.repo.ClearSearches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("clear history: %w", err)
	}
	return &library.ClearHistoryResponse{Deleted: deleted}, nil
}

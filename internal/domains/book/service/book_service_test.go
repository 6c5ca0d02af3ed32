package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbuddy-backend/internal/domains/book"
)

type fakeCatalog struct {
	books   []book.Book
	err     error
	queries []string
	limits  []int
}

func (f *fakeCatalog) Search(_ context.Context, query string, maxResults int) ([]book.Book, error) {
	f.queries = append(f.queries, query)
	f.limits = append(f.limits, maxResults)
	return f.books, f.err
}

type fakeCache struct {
	entries map[string][]byte
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Ping(_ context.Context) error { return nil }

type fakeHistory struct {
	queries []string
	err     error
}

func (f *fakeHistory) RecordSearch(_ context.Context, userID int64, query string) error {
	if f.err != nil {
		return f.err
	}
	f.queries = append(f.queries, query)
	return nil
}

func TestSearch_CachesResultsAndRecordsHistory(t *testing.T) {
	catalog := &fakeCatalog{books: []book.Book{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
		{Title: "Hyperion", Author: "Dan Simmons", Genre: "Science Fiction"},
	}}
	cache := newFakeCache()
	history := &fakeHistory{}
	svc := NewBookService(catalog, cache, history)

	resp, err := svc.Search(context.Background(), book.SearchRequest{UserID: 1, Query: "  dune  "})

	require.NoError(t, err)
	assert.Equal(t, "dune", resp.Query, "query is trimmed")
	assert.Len(t, resp.Books, 2)
	assert.Equal(t, []int{5}, catalog.limits, "default limit applies")

	// Each result lands in the last-search cache, keyed per user.
	var cached book.Book
	found, err := cache.Get(context.Background(), book.CacheKey(1, "Dune"), &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Frank Herbert", cached.Author)

	assert.Equal(t, []string{"dune"}, history.queries)
}

func TestSearch_CatalogErrorsPassThrough(t *testing.T) {
	svc := NewBookService(&fakeCatalog{err: book.ErrCatalogUnavailable}, newFakeCache(), &fakeHistory{})

	_, err := svc.Search(context.Background(), book.SearchRequest{UserID: 1, Query: "dune"})
	assert.ErrorIs(t, err, book.ErrCatalogUnavailable)

	svc = NewBookService(&fakeCatalog{err: book.ErrCatalogEmpty}, newFakeCache(), &fakeHistory{})

	_, err = svc.Search(context.Background(), book.SearchRequest{UserID: 1, Query: "dune"})
	assert.ErrorIs(t, err, book.ErrCatalogEmpty)
}

func TestSearch_HistoryFailureDoesNotFailSearch(t *testing.T) {
	catalog := &fakeCatalog{books: []book.Book{{Title: "Dune"}}}
	svc := NewBookService(catalog, newFakeCache(), &fakeHistory{err: errors.New("db down")})

	resp, err := svc.Search(context.Background(), book.SearchRequest{UserID: 1, Query: "dune"})

	require.NoError(t, err)
	assert.Len(t, resp.Books, 1)
}

func TestSearch_CacheFailureDoesNotFailSearch(t *testing.T) {
	catalog := &fakeCatalog{books: []book.Book{{Title: "Dune"}}}
	cache := newFakeCache()
	cache.setErr = errors.New("redis down")
	svc := NewBookService(catalog, cache, &fakeHistory{})

	resp, err := svc.Search(context.Background(), book.SearchRequest{UserID: 1, Query: "dune"})

	require.NoError(t, err)
	assert.Len(t, resp.Books, 1)
}

func TestSearch_Validation(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewBookService(catalog, newFakeCache(), &fakeHistory{})

	_, err := svc.Search(context.Background(), book.SearchRequest{UserID: 1, Query: "   "})
	assert.Error(t, err, "blank query rejected")

	_, err = svc.Search(context.Background(), book.SearchRequest{Query: "dune"})
	assert.Error(t, err, "missing user id rejected")

	_, err = svc.Search(context.Background(), book.SearchRequest{UserID: 1, Query: "dune", Limit: 100})
	assert.Error(t, err, "limit above the window rejected")

	assert.Empty(t, catalog.queries, "no catalog call on invalid input")
}

func TestRandom_ReturnsOneBook(t *testing.T) {
	catalog := &fakeCatalog{books: []book.Book{{Title: "Surprise Pick"}}}
	svc := NewBookService(catalog, newFakeCache(), &fakeHistory{})

	b, err := svc.Random(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Surprise Pick", b.Title)
	assert.Equal(t, []int{1}, catalog.limits)
}

func TestRandom_PropagatesCatalogError(t *testing.T) {
	svc := NewBookService(&fakeCatalog{err: book.ErrCatalogEmpty}, newFakeCache(), &fakeHistory{})

	_, err := svc.Random(context.Background())

	assert.ErrorIs(t, err, book.ErrCatalogEmpty)
}

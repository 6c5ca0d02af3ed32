package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"bookbuddy-backend/internal/domains/book"
	"bookbuddy-backend/internal/domains/library"
	"bookbuddy-backend/internal/domains/recommendation"
	"bookbuddy-backend/internal/domains/user"
	"bookbuddy-backend/internal/shared"
)

// ---------- fakes ----------

type fakeRepo struct {
	systemRecs []recommendation.SystemRecommendation
	peerEdges  []recommendation.PeerRecommendation

	insertSystemErr error
	insertPeerErr   error
}

func (f *fakeRepo) InsertSystemRecommendation(_ context.Context, rec *recommendation.SystemRecommendation) error {
	if f.insertSystemErr != nil {
		return f.insertSystemErr
	}
	f.systemRecs = append(f.systemRecs, *rec)
	return nil
}

func (f *fakeRepo) ListSystemRecommendations(_ context.Context, userID int64) ([]recommendation.SystemRecommendation, error) {
	return f.systemRecs, nil
}

func (f *fakeRepo) InsertPeerRecommendation(_ context.Context, rec *recommendation.PeerRecommendation) error {
	if f.insertPeerErr != nil {
		return f.insertPeerErr
	}
	f.peerEdges = append(f.peerEdges, *rec)
	return nil
}

func (f *fakeRepo) ListInbox(_ context.Context, userID int64) ([]recommendation.InboxItem, error) {
	return nil, nil
}

type fakePrefs struct {
	likes []library.LikedBook
	err   error
}

func (f *fakePrefs) ListLikes(_ context.Context, userID int64) ([]library.LikedBook, error) {
	return f.likes, f.err
}

type fakeCatalog struct {
	results map[string][]book.Book
	errs    map[string]error
	queries []string
}

func (f *fakeCatalog) Search(_ context.Context, query string, maxResults int) ([]book.Book, error) {
	f.queries = append(f.queries, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if books, ok := f.results[query]; ok {
		out := books
		if len(out) > maxResults {
			out = out[:maxResults]
		}
		return out, nil
	}
	return nil, book.ErrCatalogEmpty
}

type fakeDirectory struct {
	users   map[int64]*user.User
	handles map[string]*user.User
}

func (f *fakeDirectory) Get(_ context.Context, id int64) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeDirectory) ResolveHandle(_ context.Context, handle string) (*user.User, error) {
	if u, ok := f.handles[handle]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// ---------- helpers ----------

func strPtr(s string) *string { return &s }

func newTestService(repo *fakeRepo, prefs *fakePrefs, catalog *fakeCatalog, dir *fakeDirectory, tasks *fakeEnqueuer) recommendation.Service {
	return NewRecommendationService(repo, prefs, catalog, dir, tasks, rand.New(rand.NewSource(1)))
}

func likedBooks(titles ...string) []library.LikedBook {
	likes := make([]library.LikedBook, 0, len(titles))
	for _, t := range titles {
		likes = append(likes, library.LikedBook{Title: t, Genre: "Fantasy"})
	}
	return likes
}

func catalogBooks(titles ...string) []book.Book {
	books := make([]book.Book, 0, len(titles))
	for _, t := range titles {
		books = append(books, book.Book{Title: t, Author: "Author", Genre: "Fantasy"})
	}
	return books
}

// ---------- Daily ----------

func TestDaily_NoPreferenceHistory(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newTestService(&fakeRepo{}, &fakePrefs{}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	_, err := svc.Daily(context.Background(), 42)

	assert.ErrorIs(t, err, recommendation.ErrNoPreferenceHistory)
	assert.Empty(t, catalog.queries, "catalog must not be consulted without likes")
}

func TestDaily_ReturnsAtMostThreeNovelBooks(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]book.Book{
			"subject:Fantasy": catalogBooks("A", "B", "C", "D", "E", "LIKED ONE"),
		},
	}
	prefs := &fakePrefs{likes: likedBooks("Liked One", "Another Like")}
	repo := &fakeRepo{}
	svc := newTestService(repo, prefs, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	result, err := svc.Daily(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "Fantasy", result.GenreToken)
	assert.Len(t, result.Books, 3)
	for _, b := range result.Books {
		assert.NotEqual(t, "liked one", book.TitleKey(b.Title),
			"liked titles must be filtered out case-insensitively")
	}
	assert.Len(t, repo.systemRecs, 3, "each surfaced book is logged")
}

func TestDaily_FewerCandidatesThanCap(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]book.Book{
			"subject:Fantasy": catalogBooks("Only One"),
		},
	}
	svc := newTestService(&fakeRepo{}, &fakePrefs{likes: likedBooks("Something Else")}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	result, err := svc.Daily(context.Background(), 42)

	require.NoError(t, err)
	assert.Len(t, result.Books, 1)
}

func TestDaily_GenreTokenFromFirstSegment(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]book.Book{
			"subject:Science Fiction": catalogBooks("Dune"),
		},
	}
	prefs := &fakePrefs{likes: []library.LikedBook{
		{Title: "Neuromancer", Genre: "Science Fiction, Cyberpunk"},
	}}
	svc := newTestService(&fakeRepo{}, prefs, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	result, err := svc.Daily(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", result.GenreToken)
	assert.Equal(t, []string{"subject:Science Fiction"}, catalog.queries)
}

func TestDaily_EmptyGenreFallsBackToFiction(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]book.Book{
			"subject:fiction": catalogBooks("Some Novel"),
		},
	}
	prefs := &fakePrefs{likes: []library.LikedBook{{Title: "Untagged", Genre: ""}}}
	svc := newTestService(&fakeRepo{}, prefs, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	result, err := svc.Daily(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "fiction", result.GenreToken)
}

func TestDaily_FallsBackToBareQueryOnEmptySubject(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]book.Book{
			"Fantasy": catalogBooks("Bare Result"),
		},
		errs: map[string]error{
			"subject:Fantasy": book.ErrCatalogEmpty,
		},
	}
	svc := newTestService(&fakeRepo{}, &fakePrefs{likes: likedBooks("Other")}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	result, err := svc.Daily(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, []string{"subject:Fantasy", "Fantasy"}, catalog.queries)
	assert.Equal(t, "Bare Result", result.Books[0].Title)
}

func TestDaily_NoCandidatesAfterFallback(t *testing.T) {
	catalog := &fakeCatalog{
		errs: map[string]error{
			"subject:Fantasy": book.ErrCatalogEmpty,
			"Fantasy":         book.ErrCatalogEmpty,
		},
	}
	svc := newTestService(&fakeRepo{}, &fakePrefs{likes: likedBooks("Other")}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	_, err := svc.Daily(context.Background(), 42)

	assert.ErrorIs(t, err, recommendation.ErrNoCandidatesFound)
}

func TestDaily_CatalogOutageFailsFast(t *testing.T) {
	catalog := &fakeCatalog{
		errs: map[string]error{
			"subject:Fantasy": book.ErrCatalogUnavailable,
		},
	}
	svc := newTestService(&fakeRepo{}, &fakePrefs{likes: likedBooks("Other")}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	_, err := svc.Daily(context.Background(), 42)

	assert.ErrorIs(t, err, book.ErrCatalogUnavailable)
	assert.Equal(t, []string{"subject:Fantasy"}, catalog.queries,
		"an outage must not trigger the fallback query")
}

func TestDaily_AllCandidatesAlreadyLiked(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]book.Book{
			"subject:Fantasy": catalogBooks("The Hobbit", "DUNE"),
		},
	}
	svc := newTestService(&fakeRepo{}, &fakePrefs{likes: likedBooks("the hobbit", "Dune")}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	_, err := svc.Daily(context.Background(), 42)

	assert.ErrorIs(t, err, recommendation.ErrAllCandidatesExhausted)
}

func TestDaily_LogFailureDoesNotFailGeneration(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]book.Book{
			"subject:Fantasy": catalogBooks("A", "B"),
		},
	}
	repo := &fakeRepo{insertSystemErr: errors.New("db down")}
	svc := newTestService(repo, &fakePrefs{likes: likedBooks("Other")}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	result, err := svc.Daily(context.Background(), 42)

	require.NoError(t, err)
	assert.Len(t, result.Books, 2)
}

func TestDaily_UnknownGenreLoggedAsToken(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]book.Book{
			"subject:Fantasy": {{Title: "Mystery Pick", Author: "A", Genre: book.UnknownField}},
		},
	}
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakePrefs{likes: likedBooks("Other")}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

	_, err := svc.Daily(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, repo.systemRecs, 1)
	assert.Equal(t, "Fantasy", repo.systemRecs[0].Genre)
}

func TestDaily_SameSeedYieldsSameOrder(t *testing.T) {
	run := func(seed int64) []string {
		catalog := &fakeCatalog{
			results: map[string][]book.Book{
				"subject:Fantasy": catalogBooks("A", "B", "C", "D", "E", "F", "G", "H"),
			},
		}
		svc := NewRecommendationService(
			&fakeRepo{},
			&fakePrefs{likes: likedBooks("Seed Book")},
			catalog,
			&fakeDirectory{},
			&fakeEnqueuer{},
			rand.New(rand.NewSource(seed)),
		)

		recs, err := svc.Daily(context.Background(), 7)
		require.NoError(t, err)

		titles := make([]string, 0, len(recs.Books))
		for _, b := range recs.Books {
			titles = append(titles, b.Title)
		}
		return titles
	}

	first := run(99)
	require.Len(t, first, 3)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run(99), "same seed must reproduce the same ordered selection")
	}
}

func TestDaily_SelectionIsNovelSubset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nCandidates := rapid.IntRange(1, 20).Draw(t, "candidates")
		nLiked := rapid.IntRange(1, 10).Draw(t, "liked")

		var likes []library.LikedBook
		for i := 0; i < nLiked; i++ {
			likes = append(likes, library.LikedBook{
				Title: fmt.Sprintf("Liked %d", i),
				Genre: "Fantasy",
			})
		}

		candidateSet := make(map[string]struct{})
		var candidates []book.Book
		for i := 0; i < nCandidates; i++ {
			title := fmt.Sprintf("Candidate %d", i)
			// Some candidates collide with likes and must be filtered.
			if rapid.Bool().Draw(t, "collide") && i < nLiked {
				title = fmt.Sprintf("LIKED %d", i)
			}
			candidates = append(candidates, book.Book{Title: title, Author: "A", Genre: "Fantasy"})
			candidateSet[book.TitleKey(title)] = struct{}{}
		}

		catalog := &fakeCatalog{results: map[string][]book.Book{"subject:Fantasy": candidates}}
		svc := newTestService(&fakeRepo{}, &fakePrefs{likes: likes}, catalog, &fakeDirectory{}, &fakeEnqueuer{})

		result, err := svc.Daily(context.Background(), 1)
		if errors.Is(err, recommendation.ErrAllCandidatesExhausted) {
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Books) > 3 {
			t.Fatalf("returned %d books, cap is 3", len(result.Books))
		}

		seen := make(map[string]struct{})
		for _, b := range result.Books {
			key := book.TitleKey(b.Title)
			if _, ok := candidateSet[key]; !ok {
				t.Fatalf("book %q not among candidates", b.Title)
			}
			for _, lb := range likes {
				if book.TitleKey(lb.Title) == key {
					t.Fatalf("book %q is already liked", b.Title)
				}
			}
			if _, dup := seen[key]; dup {
				t.Fatalf("book %q returned twice", b.Title)
			}
			seen[key] = struct{}{}
		}
	})
}

func TestGenreToken(t *testing.T) {
	tests := []struct {
		genre string
		want  string
	}{
		{"Fantasy", "Fantasy"},
		{"Fantasy, Adventure", "Fantasy"},
		{" Science Fiction , Cyberpunk", "Science Fiction"},
		{"", "fiction"},
		{"   ", "fiction"},
		{", Adventure", "fiction"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, genreToken(tt.genre), "genre %q", tt.genre)
	}
}

// ---------- Recommend ----------

func TestRecommend_RecordsEdgeAndEnqueuesDelivery(t *testing.T) {
	repo := &fakeRepo{}
	tasks := &fakeEnqueuer{}
	bob := &user.User{ID: 7, Handle: strPtr("bob"), DisplayName: "Bob"}
	dir := &fakeDirectory{
		users:   map[int64]*user.User{1: {ID: 1, Handle: strPtr("alice"), DisplayName: "Alice"}},
		handles: map[string]*user.User{"@bob": bob},
	}
	svc := newTestService(repo, &fakePrefs{}, &fakeCatalog{}, dir, tasks)

	receipt, err := svc.Recommend(context.Background(), 1, recommendation.RecommendRequest{
		ToHandle: "@bob",
		Title:    "The Left Hand of Darkness",
	})

	require.NoError(t, err)
	assert.Equal(t, "bob", receipt.ToHandle, "receipt handle has the @ stripped")
	assert.Equal(t, "The Left Hand of Darkness", receipt.BookTitle)

	require.Len(t, repo.peerEdges, 1)
	edge := repo.peerEdges[0]
	assert.Equal(t, int64(1), edge.FromUser)
	assert.Equal(t, int64(7), edge.ToUser)
	assert.Equal(t, "Check out this book!", edge.Message, "empty message gets the default")

	require.Len(t, tasks.tasks, 1)
	assert.Equal(t, shared.TypeNotifyPeerRecommendation, tasks.tasks[0].Type())

	var payload shared.PeerRecommendationPayload
	require.NoError(t, json.Unmarshal(tasks.tasks[0].Payload(), &payload))
	assert.Equal(t, "@alice", payload.FromDisplay)
	assert.Equal(t, int64(7), payload.ToUserID)
	assert.Equal(t, "Check out this book!", payload.Message)
}

func TestRecommend_CustomMessagePreserved(t *testing.T) {
	repo := &fakeRepo{}
	dir := &fakeDirectory{
		users:   map[int64]*user.User{1: {ID: 1, DisplayName: "Alice"}},
		handles: map[string]*user.User{"bob": {ID: 7, DisplayName: "Bob"}},
	}
	svc := newTestService(repo, &fakePrefs{}, &fakeCatalog{}, dir, &fakeEnqueuer{})

	_, err := svc.Recommend(context.Background(), 1, recommendation.RecommendRequest{
		ToHandle: "bob",
		Title:    "Piranesi",
		Message:  "  you will love this  ",
	})

	require.NoError(t, err)
	assert.Equal(t, "you will love this", repo.peerEdges[0].Message)
}

func TestRecommend_UnknownSender(t *testing.T) {
	repo := &fakeRepo{}
	tasks := &fakeEnqueuer{}
	dir := &fakeDirectory{
		handles: map[string]*user.User{"@bob": {ID: 7, DisplayName: "Bob"}},
	}
	svc := newTestService(repo, &fakePrefs{}, &fakeCatalog{}, dir, tasks)

	_, err := svc.Recommend(context.Background(), 99, recommendation.RecommendRequest{
		ToHandle: "@bob",
		Title:    "Piranesi",
	})

	assert.ErrorIs(t, err, user.ErrUserNotFound, "a missing sender keeps its directory error")
	assert.Empty(t, repo.peerEdges, "no edge without a resolvable sender")
	assert.Empty(t, tasks.tasks)
}

func TestRecommend_UnknownRecipient(t *testing.T) {
	repo := &fakeRepo{}
	tasks := &fakeEnqueuer{}
	dir := &fakeDirectory{
		users: map[int64]*user.User{1: {ID: 1, DisplayName: "Alice"}},
	}
	svc := newTestService(repo, &fakePrefs{}, &fakeCatalog{}, dir, tasks)

	_, err := svc.Recommend(context.Background(), 1, recommendation.RecommendRequest{
		ToHandle: "@nobody",
		Title:    "Piranesi",
	})

	assert.ErrorIs(t, err, recommendation.ErrRecipientUnknown)
	assert.Empty(t, repo.peerEdges, "no edge on failed resolution")
	assert.Empty(t, tasks.tasks, "no delivery on failed resolution")
}

func TestRecommend_StoreFailureSkipsDelivery(t *testing.T) {
	repo := &fakeRepo{insertPeerErr: errors.New("db down")}
	tasks := &fakeEnqueuer{}
	dir := &fakeDirectory{
		users:   map[int64]*user.User{1: {ID: 1, DisplayName: "Alice"}},
		handles: map[string]*user.User{"bob": {ID: 7, DisplayName: "Bob"}},
	}
	svc := newTestService(repo, &fakePrefs{}, &fakeCatalog{}, dir, tasks)

	_, err := svc.Recommend(context.Background(), 1, recommendation.RecommendRequest{
		ToHandle: "bob",
		Title:    "Piranesi",
	})

	require.Error(t, err)
	assert.Empty(t, tasks.tasks, "nothing to deliver when the edge was not written")
}

func TestRecommend_EnqueueFailureStillSucceeds(t *testing.T) {
	repo := &fakeRepo{}
	tasks := &fakeEnqueuer{err: errors.New("redis down")}
	dir := &fakeDirectory{
		users:   map[int64]*user.User{1: {ID: 1, DisplayName: "Alice"}},
		handles: map[string]*user.User{"bob": {ID: 7, DisplayName: "Bob"}},
	}
	svc := newTestService(repo, &fakePrefs{}, &fakeCatalog{}, dir, tasks)

	receipt, err := svc.Recommend(context.Background(), 1, recommendation.RecommendRequest{
		ToHandle: "bob",
		Title:    "Piranesi",
	})

	require.NoError(t, err, "delivery is best-effort; the edge is persisted")
	assert.Equal(t, "bob", receipt.ToHandle)
	assert.Len(t, repo.peerEdges, 1)
}

func TestRecommend_ValidationErrors(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakePrefs{}, &fakeCatalog{}, &fakeDirectory{}, &fakeEnqueuer{})

	_, err := svc.Recommend(context.Background(), 1, recommendation.RecommendRequest{
		ToHandle: "bob",
		Title:    "   ",
	})
	assert.Error(t, err, "whitespace-only title is rejected")

	_, err = svc.Recommend(context.Background(), 1, recommendation.RecommendRequest{
		ToHandle: "x",
		Title:    "Piranesi",
	})
	assert.Error(t, err, "too-short handle is rejected")
}

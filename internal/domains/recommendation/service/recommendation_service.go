package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/domains/book"
	"bookbuddy-backend/internal/domains/recommendation"
	"bookbuddy-backend/internal/domains/user"
	"bookbuddy-backend/internal/shared"
)

const (
	// candidateWindow is how many catalog results one generation pass pulls.
	candidateWindow = 40

	// maxDaily caps the returned set.
	maxDaily = 3

	// fallbackGenre is used when a liked book carries no genre at all.
	fallbackGenre = "fiction"
)

// lockedRand guards a seedable rand.Rand for concurrent use. Production gets
// a time-seeded source; tests inject a fixed seed for determinism.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rng.Shuffle(n, swap)
}

type recommendationService struct {
	repo      recommendation.Repository
	prefs     recommendation.Preferences
	catalog   book.Catalog
	directory recommendation.Directory
	tasks     recommendation.TaskEnqueuer
	rand      *lockedRand
}

// NewRecommendationService wires the engine. A nil rng gets a time-seeded
// source.
func NewRecommendationService(
	repo recommendation.Repository,
	prefs recommendation.Preferences,
	catalog book.Catalog,
	directory recommendation.Directory,
	tasks recommendation.TaskEnqueuer,
	rng *rand.Rand,
) recommendation.Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &recommendationService{
		repo:      repo,
		prefs:     prefs,
		catalog:   catalog,
		directory: directory,
		tasks:     tasks,
		rand:      &lockedRand{rng: rng},
	}
}

// Daily implements the generation pass: sample a genre from the user's
// likes, fetch candidates, drop everything already liked, shuffle, take
// three, log what was surfaced.
func (s *recommendationService) Daily(ctx context.Context, userID int64) (*recommendation.DailyRecommendations, error) {
	likes, err := s.prefs.ListLikes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load liked books: %w", err)
	}
	if len(likes) == 0 {
		return nil, recommendation.ErrNoPreferenceHistory
	}

	seed := likes[s.rand.Intn(len(likes))]
	token := genreToken(seed.Genre)

	candidates, err := s.fetchCandidates(ctx, token)
	if err != nil {
		return nil, err
	}

	likedTitles := make(map[string]struct{}, len(likes))
	for _, lb := range likes {
		likedTitles[book.TitleKey(lb.Title)] = struct{}{}
	}

	filtered := candidates[:0]
	for _, b := range candidates {
		if _, already := likedTitles[book.TitleKey(b.Title)]; !already {
			filtered = append(filtered, b)
		}
	}
	if len(filtered) == 0 {
		return nil, recommendation.ErrAllCandidatesExhausted
	}

	s.rand.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})

	count := maxDaily
	if len(filtered) < count {
		count = len(filtered)
	}
	selected := filtered[:count]

	// The log is best-effort: a failed row must not cost the user the
	// already-selected list.
	for _, b := range selected {
		if strings.TrimSpace(b.Title) == "" {
			continue
		}
		genre := b.Genre
		if genre == book.UnknownField {
			genre = token
		}
		rec := &recommendation.SystemRecommendation{
			UserID: userID,
			Title:  b.Title,
			Author: b.Author,
			Genre:  genre,
			Link:   b.Link,
		}
		if err := s.repo.InsertSystemRecommendation(ctx, rec); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Str("title", b.Title).
				Msg("[Recommendation] Failed to log system recommendation")
		}
	}

	return &recommendation.DailyRecommendations{
		GenreToken: token,
		Books:      selected,
	}, nil
}

// fetchCandidates tries the subject-scoped query first and falls back to a
// plain keyword query only when the catalog answered with zero results. A
// catalog outage fails fast instead of retrying.
func (s *recommendationService) fetchCandidates(ctx context.Context, token string) ([]book.Book, error) {
	candidates, err := s.catalog.Search(ctx, "subject:"+token, candidateWindow)
	if err == nil {
		return candidates, nil
	}
	if !errors.Is(err, book.ErrCatalogEmpty) {
		return nil, err
	}

	candidates, err = s.catalog.Search(ctx, token, candidateWindow)
	if err == nil {
		return candidates, nil
	}
	if errors.Is(err, book.ErrCatalogEmpty) {
		return nil, recommendation.ErrNoCandidatesFound
	}
	return nil, err
}

// genreToken derives a single query token from a comma-separated genre field:
// first segment, trimmed, "fiction" when empty.
func genreToken(genre string) string {
	token := strings.TrimSpace(strings.Split(genre, ",")[0])
	if token == "" {
		return fallbackGenre
	}
	return token
}

// Recommend records a directed edge and triggers best-effort delivery.
func (s *recommendationService) Recommend(ctx context.Context, fromUserID int64, req recommendation.RecommendRequest) (*recommendation.Receipt, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Message == "" {
		req.Message = "Check out this book!"
	}

	sender, err := s.directory.Get(ctx, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("load sender %d: %w", fromUserID, err)
	}

	recipient, err := s.directory.ResolveHandle(ctx, req.ToHandle)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, recommendation.ErrRecipientUnknown
		}
		return nil, fmt.Errorf("resolve handle %q: %w", req.ToHandle, err)
	}

	edge := &recommendation.PeerRecommendation{
		FromUser:  fromUserID,
		ToUser:    recipient.ID,
		BookTitle: req.Title,
		Message:   req.Message,
	}
	if err := s.repo.InsertPeerRecommendation(ctx, edge); err != nil {
		// No notification on a failed write; there is nothing to deliver.
		return nil, fmt.Errorf("save recommendation: %w", err)
	}

	s.enqueueDelivery(ctx, sender, recipient, req)

	return &recommendation.Receipt{
		ToHandle:  strings.TrimPrefix(req.ToHandle, "@"),
		BookTitle: req.Title,
	}, nil
}

// enqueueDelivery hands the notification to the worker. Failures are logged
// and swallowed: the edge is already persisted and the sender's success does
// not depend on delivery.
func (s *recommendationService) enqueueDelivery(ctx context.Context, sender, recipient *user.User, req recommendation.RecommendRequest) {
	payload, err := json.Marshal(shared.PeerRecommendationPayload{
		FromUserID:  sender.ID,
		FromDisplay: sender.Display(),
		ToUserID:    recipient.ID,
		BookTitle:   req.Title,
		Message:     req.Message,
	})
	if err != nil {
		log.Error().Err(err).Msg("[Recommendation] Failed to marshal delivery payload")
		return
	}

	task := asynq.NewTask(shared.TypeNotifyPeerRecommendation, payload)
	if _, err := s.tasks.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueHigh),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	); err != nil {
		log.Error().Err(err).Int64("to_user", recipient.ID).
			Msg("[Recommendation] Failed to enqueue delivery (recommendation still recorded)")
	}
}

func (s *recommendationService) Inbox(ctx context.Context, userID int64) ([]recommendation.InboxItem, error) {
	return s.repo.ListInbox(ctx, userID)
}

func (s *recommendationService) DailyLog(ctx context.Context, userID int64) ([]recommendation.SystemRecommendation, error) {
	return s.repo.ListSystemRecommendations(ctx, userID)
}

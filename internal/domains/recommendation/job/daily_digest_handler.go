package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/domains/recommendation"
	"bookbuddy-backend/internal/infrastructure/push"
	"bookbuddy-backend/internal/shared"
)

// UserLister is the slice of the user repository the sweep pages over.
type UserLister interface {
	ListWithLikes(ctx context.Context, afterID int64, limit int) ([]int64, error)
}

// DailyDigestHandler runs the scheduled recommendation sweep. The scheduled
// task carries no user id and fans out one task per user with preference
// history; per-user tasks run the engine and deliver a digest best-effort.
type DailyDigestHandler struct {
	service   recommendation.Service
	users     UserLister
	sender    push.Sender
	tasks     recommendation.TaskEnqueuer
	batchSize int
}

func NewDailyDigestHandler(
	service recommendation.Service,
	users UserLister,
	sender push.Sender,
	tasks recommendation.TaskEnqueuer,
	batchSize int,
) *DailyDigestHandler {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &DailyDigestHandler{
		service:   service,
		users:     users,
		sender:    sender,
		tasks:     tasks,
		batchSize: batchSize,
	}
}

func (h *DailyDigestHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DailyDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if payload.UserID == 0 {
		return h.fanOut(ctx)
	}
	return h.digestForUser(ctx, payload.UserID)
}

// fanOut pages through users with likes and enqueues one digest task each, so
// a single slow user never stalls the sweep.
func (h *DailyDigestHandler) fanOut(ctx context.Context) error {
	var afterID int64
	total := 0

	for {
		ids, err := h.users.ListWithLikes(ctx, afterID, h.batchSize)
		if err != nil {
			return fmt.Errorf("list users with likes: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			payload, err := json.Marshal(shared.DailyDigestPayload{UserID: id})
			if err != nil {
				return fmt.Errorf("marshal digest payload: %w", err)
			}
			task := asynq.NewTask(shared.TypeDailyDigest, payload)
			if _, err := h.tasks.EnqueueContext(ctx, task,
				asynq.Queue(shared.QueueLow),
				asynq.MaxRetry(2),
				asynq.Timeout(2*time.Minute),
			); err != nil {
				// One failed enqueue should not abort the sweep.
				log.Error().Err(err).Int64("user_id", id).Msg("Failed to enqueue digest task")
				continue
			}
			total++
		}

		afterID = ids[len(ids)-1]
	}

	log.Info().Int("users", total).Msg("Daily digest fan-out complete")
	return nil
}

func (h *DailyDigestHandler) digestForUser(ctx context.Context, userID int64) error {
	result, err := h.service.Daily(ctx, userID)
	if err != nil {
		// "Nothing to show" outcomes are expected and not retriable.
		if errors.Is(err, recommendation.ErrNoPreferenceHistory) ||
			errors.Is(err, recommendation.ErrNoCandidatesFound) ||
			errors.Is(err, recommendation.ErrAllCandidatesExhausted) {
			log.Info().Err(err).Int64("user_id", userID).Msg("Skipping digest")
			return nil
		}
		return fmt.Errorf("generate digest for user %d: %w", userID, err)
	}

	if err := h.sender.Send(ctx, userID, formatDigest(result)); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to deliver daily digest")
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func formatDigest(d *recommendation.DailyRecommendations) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your daily book recommendations\nBased on your interest in %s\n", d.GenreToken)
	for i, bk := range d.Books {
		fmt.Fprintf(&b, "\n%d. %s by %s", i+1, bk.Title, bk.Author)
		if bk.Link != "" {
			fmt.Fprintf(&b, "\n   %s", bk.Link)
		}
	}
	return b.String()
}

package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/infrastructure/push"
	"bookbuddy-backend/internal/shared"
)

// PeerNotificationHandler delivers a recorded peer recommendation to its
// recipient. The edge is already persisted; exhausting retries here is
// terminal and invisible to the sender.
type PeerNotificationHandler struct {
	sender push.Sender
}

func NewPeerNotificationHandler(sender push.Sender) *PeerNotificationHandler {
	return &PeerNotificationHandler{sender: sender}
}

func (h *PeerNotificationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PeerRecommendationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal peer recommendation payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	text := fmt.Sprintf(
		"New book recommendation!\n\n%s recommends: %s\n\n\"%s\"\n\nOpen your inbox to see all books recommended to you.",
		payload.FromDisplay, payload.BookTitle, payload.Message,
	)

	if err := h.sender.Send(ctx, payload.ToUserID, text); err != nil {
		log.Error().Err(err).
			Int64("to_user", payload.ToUserID).
			Str("book_title", payload.BookTitle).
			Msg("Failed to deliver peer recommendation")
		return fmt.Errorf("send notification: %w", err)
	}

	log.Info().
		Int64("from_user", payload.FromUserID).
		Int64("to_user", payload.ToUserID).
		Str("book_title", payload.BookTitle).
		Msg("Peer recommendation delivered")

	return nil
}

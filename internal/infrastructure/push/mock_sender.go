package push

import (
	"context"

	"github.com/rs/zerolog/log"
)

// MockSender logs instead of delivering. Default in development.
type MockSender struct{}

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (s *MockSender) Send(ctx context.Context, userID int64, text string) error {
	log.Info().
		Int64("user_id", userID).
		Str("text", text).
		Msg("[MOCK] Notification sent")
	return nil
}

package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bookbuddy-backend/internal/config"
)

// WebhookSender posts messages to the chat gateway, which owns the actual
// transport to the user. The gateway endpoint accepts {user_id, text}.
type WebhookSender struct {
	url        string
	httpClient *http.Client
}

func NewWebhookSender(cfg config.NotifierConfig) *WebhookSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSender{
		url: cfg.WebhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Sender = (*WebhookSender)(nil)

type webhookMessage struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

func (s *WebhookSender) Send(ctx context.Context, userID int64, text string) error {
	body, err := json.Marshal(webhookMessage{UserID: userID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification to user %d: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification gateway returned %d for user %d", resp.StatusCode, userID)
	}
	return nil
}

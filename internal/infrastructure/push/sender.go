package push

import (
	"context"
)

// Sender delivers a formatted message to a resolved identity. Delivery is
// best-effort by contract: callers log failures, they never propagate them
// into the outcome of the operation that triggered the send.
type Sender interface {
	Send(ctx context.Context, userID int64, text string) error
}

package recommendation

import (
	"context"

	"github.com/hibiken/asynq"

	"bookbuddy-backend/internal/domains/library"
	"bookbuddy-backend/internal/domains/user"
)

// Preferences is the slice of the library repository the engine needs.
type Preferences interface {
	ListLikes(ctx context.Context, userID int64) ([]library.LikedBook, error)
}

// Directory resolves handles and identities. Satisfied by the user service.
type Directory interface {
	ResolveHandle(ctx context.Context, handle string) (*user.User, error)
	Get(ctx context.Context, id int64) (*user.User, error)
}

// TaskEnqueuer is the slice of asynq.Client used for best-effort delivery.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service is the recommendation core: the daily engine, the peer exchange,
// and the read-only inbox projections.
type Service interface {
	// Daily produces up to three novel candidates for the user, sampled from
	// the genre of a random liked book, deduplicated against their likes,
	// and logged to system_recommendations (best-effort).
	Daily(ctx context.Context, userID int64) (*DailyRecommendations, error)

	// Recommend validates and records a directed recommendation edge, then
	// triggers best-effort delivery to the recipient. The returned receipt
	// reflects the persisted edge only.
	Recommend(ctx context.Context, fromUserID int64, req RecommendRequest) (*Receipt, error)

	// Inbox lists peer recommendations received by the user, newest first.
	Inbox(ctx context.Context, userID int64) ([]InboxItem, error)

	// DailyLog lists the user's system recommendations, newest first.
	DailyLog(ctx context.Context, userID int64) ([]SystemRecommendation, error)
}

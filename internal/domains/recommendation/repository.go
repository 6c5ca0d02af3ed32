package recommendation

import (
	"context"
)

// Repository covers the system_recommendations log and the peer
// recommendation edges.
type Repository interface {
	// InsertSystemRecommendation appends one surfaced book to the log.
	InsertSystemRecommendation(ctx context.Context, rec *SystemRecommendation) error

	// ListSystemRecommendations returns a user's log, newest first.
	ListSystemRecommendations(ctx context.Context, userID int64) ([]SystemRecommendation, error)

	// InsertPeerRecommendation writes a directed edge. Callers resolve both
	// endpoints first; a dangling edge is a bug, not a supported state.
	InsertPeerRecommendation(ctx context.Context, rec *PeerRecommendation) error

	// ListInbox returns recommendations received by a user, newest first,
	// joined to the sender for display.
	ListInbox(ctx context.Context, userID int64) ([]InboxItem, error)
}

package shared

// Asynq task types. Grouped here so API and worker agree on the wire names
// without importing each other's domains.
const (
	TypeNotifyPeerRecommendation = "notify:peer_recommendation"
	TypeDailyDigest              = "rec:daily_digest"
)

// Queue names, by priority.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// PeerRecommendationPayload is the delivery job for a recorded peer
// recommendation edge. Delivery is best-effort: the edge is already
// persisted by the time this task exists.
type PeerRecommendationPayload struct {
	FromUserID  int64  `json:"fromUserId"`
	FromDisplay string `json:"fromDisplay"`
	ToUserID    int64  `json:"toUserId"`
	BookTitle   string `json:"bookTitle"`
	Message     string `json:"message"`
}

// DailyDigestPayload triggers a scheduled recommendation sweep. An empty
// UserID means "all users with preference history".
type DailyDigestPayload struct {
	UserID int64 `json:"userId,omitempty"`
}

package recommendation

import (
	"time"

	"bookbuddy-backend/internal/domains/book"
)

// SystemRecommendation is one row of the append-only log of what the engine
// surfaced to a user. Repeats across runs are fine; dedup against liked
// books happens within a single generation pass only.
type SystemRecommendation struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Title         string    `db:"title" json:"title"`
	Author        string    `db:"author" json:"author"`
	Genre         string    `db:"genre" json:"genre"`
	Link          string    `db:"link" json:"link,omitempty"`
	RecommendedAt time.Time `db:"recommended_at" json:"recommended_at"`
}

// PeerRecommendation is a directed edge between two known users. Both
// endpoints must resolve before the edge is written; there is no partial
// write.
type PeerRecommendation struct {
	ID        int64     `db:"id" json:"id"`
	FromUser  int64     `db:"from_user" json:"from_user"`
	ToUser    int64     `db:"to_user" json:"to_user"`
	BookTitle string    `db:"book_title" json:"book_title"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// InboxItem is a received peer recommendation joined to its sender for
// display. FromDisplay prefers @handle and falls back to display name.
type InboxItem struct {
	BookTitle   string    `json:"book_title"`
	Message     string    `json:"message"`
	FromDisplay string    `json:"from_display"`
	CreatedAt   time.Time `json:"created_at"`
}

// DailyRecommendations is the engine's output: up to three novel candidates
// in shuffle order, plus the genre token they were sampled from.
type DailyRecommendations struct {
	GenreToken string      `json:"genre_token"`
	Books      []book.Book `json:"books"`
}

// Receipt confirms a recorded peer recommendation. It reflects only the
// persisted edge, never delivery confirmation.
type Receipt struct {
	ToHandle  string `json:"to_handle"`
	BookTitle string `json:"book_title"`
}

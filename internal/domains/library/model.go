package library

import (
	"time"
)

// LikedBook is a user's saved preference. The (user_id, lower(title)) pair is
// unique at the store level, so a like is idempotent under concurrency.
type LikedBook struct {
	ID      int64     `db:"id" json:"id"`
	UserID  int64     `db:"user_id" json:"user_id"`
	Title   string    `db:"title" json:"title"`
	Author  string    `db:"author" json:"author"`
	Genre   string    `db:"genre" json:"genre"`
	LikedAt time.Time `db:"liked_at" json:"liked_at"`
}

// SearchEntry is one appended search-history row.
type SearchEntry struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Query      string    `db:"query" json:"query"`
	SearchedAt time.Time `db:"searched_at" json:"searched_at"`
}

// LikeOutcome distinguishes a fresh like from a repeat. Both are successes;
// the transport shows different messages.
type LikeOutcome string

const (
	OutcomeLiked        LikeOutcome = "liked"
	OutcomeAlreadyLiked LikeOutcome = "already_liked"
)

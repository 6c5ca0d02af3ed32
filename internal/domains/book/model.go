package book

import (
	"fmt"
	"strings"
)

// Book is an ephemeral record reconstructed from a catalog query. It is never
// persisted as an entity of its own; liked_books and system_recommendations
// carry denormalized copies of its fields.
type Book struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Link        string `json:"link,omitempty"`
	Description string `json:"description,omitempty"`
}

// UnknownField is the normalized value for provider-missing authors/categories.
const UnknownField = "Unknown"

// TitleKey is the canonical form of a title for equality checks. Dedup is
// case-insensitive everywhere (likes, candidate filtering, cache keys).
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// CacheKey is the last-search cache key for a book a user has just seen.
// Scoping by user keeps "like" from picking up another user's search result.
func CacheKey(userID int64, title string) string {
	return fmt.Sprintf("book:%d:%s", userID, TitleKey(title))
}

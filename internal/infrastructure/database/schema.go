package database

import (
	"context"
	"fmt"
)

// Schema statements executed on startup. Idempotent, so a restart against an
// existing database is a no-op. The unique index on (user_id, lower(title))
// is what makes likes idempotent under concurrent requests; application code
// never relies on a read-then-write check.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           BIGINT PRIMARY KEY,
		handle       TEXT,
		display_name TEXT NOT NULL,
		joined_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_handle
		ON users (LOWER(handle)) WHERE handle IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS liked_books (
		id      BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		title   TEXT NOT NULL,
		author  TEXT NOT NULL DEFAULT 'Unknown',
		genre   TEXT NOT NULL DEFAULT 'Unknown',
		liked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_liked_books_user_title
		ON liked_books (user_id, LOWER(title))`,

	`CREATE TABLE IF NOT EXISTS search_history (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id),
		query       TEXT NOT NULL,
		searched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_user
		ON search_history (user_id, searched_at DESC)`,

	`CREATE TABLE IF NOT EXISTS recommendations (
		id         BIGSERIAL PRIMARY KEY,
		from_user  BIGINT NOT NULL REFERENCES users(id),
		to_user    BIGINT NOT NULL REFERENCES users(id),
		book_title TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_to_user
		ON recommendations (to_user, id DESC)`,

	`CREATE TABLE IF NOT EXISTS system_recommendations (
		id             BIGSERIAL PRIMARY KEY,
		user_id        BIGINT NOT NULL REFERENCES users(id),
		title          TEXT NOT NULL,
		author         TEXT NOT NULL DEFAULT 'Unknown',
		genre          TEXT NOT NULL DEFAULT 'Unknown',
		link           TEXT NOT NULL DEFAULT '',
		recommended_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_system_recommendations_user
		ON system_recommendations (user_id, recommended_at DESC)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookbuddy-backend/internal/domains/library"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) library.Repository {
	return &postgresRepository{pool: pool}
}

// InsertLike relies on the unique index on (user_id, lower(title)): a
// concurrent duplicate like loses the conflict instead of creating a second
// row, and rows-affected distinguishes fresh from repeat.
func (r *postgresRepository) InsertLike(ctx context.Context, liked *library.LikedBook) (bool, error) {
	query := `
		INSERT INTO liked_books (user_id, title, author, genre)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, LOWER(title)) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, liked.UserID, liked.Title, liked.Author, liked.Genre)
	if err != nil {
		return false, fmt.Errorf("insert liked book: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) ListLikes(ctx context.Context, userID int64) ([]library.LikedBook, error) {
	query := `
		SELECT id, user_id, title, author, genre, liked_at
		FROM liked_books
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked books: %w", err)
	}
	defer rows.Close()

	likes := make([]library.LikedBook, 0)
	for rows.Next() {
		var lb library.LikedBook
		if err := rows.Scan(&lb.ID, &lb.UserID, &lb.Title, &lb.Author, &lb.Genre, &lb.LikedAt); err != nil {
			return nil, fmt.Errorf("scan liked book: %w", err)
		}
		likes = append(likes, lb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return likes, nil
}

func (r *postgresRepository) RecordSearch(ctx context.Context, userID int64, query string) error {
	stmt := `INSERT INTO search_history (user_id, query) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, stmt, userID, query); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListSearches(ctx context.Context, userID int64) ([]library.SearchEntry, error) {
	query := `
		SELECT id, user_id, query, searched_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	defer rows.Close()

	entries := make([]library.SearchEntry, 0)
	for rows.Next() {
		var e library.SearchEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("scan search entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

func (r *postgresRepository) ClearSearches(ctx context.Context, userID int64) (int64, error) {
	stmt := `DELETE FROM search_history WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, stmt, userID)
	if err != nil {
		return 0, fmt.Errorf("clear search history: %w", err)
	}
	return tag.RowsAffected(), nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookbuddy-backend/internal/domains/recommendation"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) recommendation.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) InsertSystemRecommendation(ctx context.Context, rec *recommendation.SystemRecommendation) error {
	query := `
		INSERT INTO system_recommendations (user_id, title, author, genre, link)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.pool.Exec(ctx, query, rec.UserID, rec.Title, rec.Author, rec.Genre, rec.Link); err != nil {
		return fmt.Errorf("insert system recommendation: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListSystemRecommendations(ctx context.Context, userID int64) ([]recommendation.SystemRecommendation, error) {
	query := `
		SELECT id, user_id, title, author, genre, link, recommended_at
		FROM system_recommendations
		WHERE user_id = $1
		ORDER BY recommended_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list system recommendations: %w", err)
	}
	defer rows.Close()

	recs := make([]recommendation.SystemRecommendation, 0)
	for rows.Next() {
		var rec recommendation.SystemRecommendation
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Author, &rec.Genre, &rec.Link, &rec.RecommendedAt); err != nil {
			return nil, fmt.Errorf("scan system recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return recs, nil
}

func (r *postgresRepository) InsertPeerRecommendation(ctx context.Context, rec *recommendation.PeerRecommendation) error {
	query := `
		INSERT INTO recommendations (from_user, to_user, book_title, message)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, rec.FromUser, rec.ToUser, rec.BookTitle, rec.Message); err != nil {
		return fmt.Errorf("insert peer recommendation: %w", err)
	}
	return nil
}

// ListInbox joins each edge to its sender. COALESCE prefers @handle and
// falls back to display name, matching User.Display.
func (r *postgresRepository) ListInbox(ctx context.Context, userID int64) ([]recommendation.InboxItem, error) {
	query := `
		SELECT r.book_title, r.message,
		       COALESCE('@' || u.handle, u.display_name) AS from_display,
		       r.created_at
		FROM recommendations r
		JOIN users u ON r.from_user = u.id
		WHERE r.to_user = $1
		ORDER BY r.id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	defer rows.Close()

	items := make([]recommendation.InboxItem, 0)
	for rows.Next() {
		var item recommendation.InboxItem
		if err := rows.Scan(&item.BookTitle, &item.Message, &item.FromDisplay, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inbox item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

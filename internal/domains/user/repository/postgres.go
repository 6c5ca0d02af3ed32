package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookbuddy-backend/internal/domains/user"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

// EnsureUser inserts the user if absent. ON CONFLICT DO NOTHING keeps first
// contact idempotent without a read-then-write race; rows-affected tells us
// whether the row is new.
func (r *postgresRepository) EnsureUser(ctx context.Context, u *user.User) (bool, error) {
	query := `
		INSERT INTO users (id, handle, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, u.ID, u.Handle, u.DisplayName)
	if err != nil {
		return false, fmt.Errorf("ensure user %d: %w", u.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, handle, display_name, joined_at
		FROM users
		WHERE id = $1
	`
	u := &user.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Handle, &u.DisplayName, &u.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

func (r *postgresRepository) FindByHandle(ctx context.Context, handle string) (*user.User, error) {
	query := `
		SELECT id, handle, display_name, joined_at
		FROM users
		WHERE LOWER(handle) = LOWER($1)
	`
	u := &user.User{}
	err := r.pool.QueryRow(ctx, query, handle).Scan(&u.ID, &u.Handle, &u.DisplayName, &u.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by handle %q: %w", handle, err)
	}
	return u, nil
}

// ListWithLikes pages through users with preference history by id so the
// digest sweep never loads the whole directory at once.
func (r *postgresRepository) ListWithLikes(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	query := `
		SELECT DISTINCT u.id
		FROM users u
		JOIN liked_books lb ON lb.user_id = u.id
		WHERE u.id > $1
		ORDER BY u.id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list users with likes: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ids, nil
}

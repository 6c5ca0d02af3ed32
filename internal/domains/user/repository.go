package user

import (
	"context"
)

// Repository is the data access contract for the identity directory.
type Repository interface {
	// EnsureUser inserts the user if absent. An existing row is never
	// overwritten. Returns created=false when the user was already known.
	EnsureUser(ctx context.Context, u *User) (created bool, err error)

	// FindByID looks up a user by their stable identity.
	// Returns ErrUserNotFound when missing.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByHandle looks up a user by public handle, case-insensitively.
	// The handle must already be stripped of any leading marker.
	// Returns ErrUserNotFound when no user has that handle.
	FindByHandle(ctx context.Context, handle string) (*User, error)

	// ListWithLikes returns the ids of users that have at least one liked
	// book, in batches. Used by the scheduled digest sweep.
	ListWithLikes(ctx context.Context, afterID int64, limit int) ([]int64, error)
}

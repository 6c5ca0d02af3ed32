package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookbuddy-backend/internal/domains/user"
)

type userService struct {
	repo user.Repository
}

func NewUserService(repo user.Repository) user.Service {
	return &userService{repo: repo}
}

// EnsureUser records a user on first contact. Existing rows are left
// untouched; the id is owned by the transport layer and never changes.
func (s *userService) EnsureUser(ctx context.Context, req user.RegisterContactRequest) (*user.RegisterContactResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u := &user.User{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		JoinedAt:    time.Now(),
	}
	if handle := normalizeHandle(req.Handle); handle != "" {
		u.Handle = &handle
	}

	created, err := s.repo.EnsureUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	if !created {
		// Report the stored row, not the request, so repeats see the
		// original registration.
		existing, err := s.repo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, fmt.Errorf("load existing user: %w", err)
		}
		u = existing
	}

	return &user.RegisterContactResponse{
		User:    user.ToDTO(u),
		Created: created,
	}, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ResolveHandle is the directory lookup: @handle -> stable identity.
func (s *userService) ResolveHandle(ctx context.Context, handle string) (*user.User, error) {
	normalized := normalizeHandle(handle)
	if normalized == "" {
		return nil, user.ErrUserNotFound
	}
	return s.repo.FindByHandle(ctx, normalized)
}

func normalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

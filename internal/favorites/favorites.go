// Package favorites authorizes and performs changes to a user's favorite
// mentors.
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"mentorhub/internal/jwtauth"
	"mentorhub/internal/list"
	"mentorhub/internal/user"
)

// Domain errors
var (
	// ErrAuthenticationRequired means the caller has no verified identity
	// or no user record.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrInvalidTarget means the target user or mentor is missing, or the
	// mentor does not hold the mentor role.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrUnauthorizedAction means the caller is neither the target nor an
	// admin.
	ErrUnauthorizedAction = errors.New("unauthorized action")
)

// UserLookup resolves user records. Implementations return
// user.ErrNotFound when no record exists.
type UserLookup interface {
	GetByAuth0ID(ctx context.Context, auth0ID string) (*user.Identity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.Identity, error)
}

// FavoriteLists reads and mutates favorites lists.
type FavoriteLists interface {
	ToggleFavorite(ctx context.Context, ownerID, mentorID uuid.UUID) (added bool, err error)
	// GetFavorites returns nil when the owner has no favorites list.
	GetFavorites(ctx context.Context, ownerID uuid.UUID) (*list.List, error)
}

// Service runs the favorites operations on behalf of an authenticated caller.
type Service struct {
	auth  *Authorizer
	lists FavoriteLists
}

// NewService creates a new favorites service.
func NewService(users UserLookup, lists FavoriteLists) *Service {
	return &Service{auth: NewAuthorizer(users), lists: lists}
}

// Toggle adds mentorID to the target's favorites, or removes it if already
// present. It reports whether the mentor was added.
func (s *Service) Toggle(ctx context.Context, claims *jwtauth.Claims, targetID, mentorID uuid.UUID) (bool, error) {
	access, err := s.auth.AuthorizeToggle(ctx, claims, targetID, mentorID)
	if err != nil {
		return false, err
	}

	added, err := s.lists.ToggleFavorite(ctx, access.Target.ID, mentorID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return added, nil
}

// List returns the target's favorites list, or nil if there is none.
func (s *Service) List(ctx context.Context, claims *jwtauth.Claims, targetID uuid.UUID) (*list.List, error) {
	access, err := s.auth.Authorize(ctx, claims, targetID)
	if err != nil {
		return nil, err
	}

	l, err := s.lists.GetFavorites(ctx, access.Target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return l, nil
}

package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"mentorhub/internal/jwtauth"
	"mentorhub/internal/user"
)

// Access is the outcome of a successful authorization.
type Access struct {
	Caller *user.Identity
	Target *user.Identity
}

// Authorizer decides whether a caller may act on a target user's favorites.
// A caller may act on its own favorites; an admin may act on anyone's.
type Authorizer struct {
	users UserLookup
}

// NewAuthorizer creates a new authorizer.
func NewAuthorizer(users UserLookup) *Authorizer {
	return &Authorizer{users: users}
}

// Authorize resolves the caller and the target and checks ownership.
func (a *Authorizer) Authorize(ctx context.Context, claims *jwtauth.Claims, targetID uuid.UUID) (*Access, error) {
	access, err := a.resolve(ctx, claims, targetID)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(access); err != nil {
		return nil, err
	}
	return access, nil
}

// AuthorizeToggle is Authorize with the additional requirement that
// mentorID names an existing user holding the mentor role. The mentor is
// checked before ownership.
func (a *Authorizer) AuthorizeToggle(ctx context.Context, claims *jwtauth.Claims, targetID, mentorID uuid.UUID) (*Access, error) {
	access, err := a.resolve(ctx, claims, targetID)
	if err != nil {
		return nil, err
	}

	mentor, err := a.lookup(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if !mentor.HasRole(user.RoleMentor) {
		return nil, fmt.Errorf("%w: cannot favorite a non-mentor", ErrInvalidTarget)
	}

	if err := checkOwnership(access); err != nil {
		return nil, err
	}
	return access, nil
}

func (a *Authorizer) resolve(ctx context.Context, claims *jwtauth.Claims, targetID uuid.UUID) (*Access, error) {
	if claims == nil || claims.Auth0UserID() == "" {
		return nil, ErrAuthenticationRequired
	}

	caller, err := a.users.GetByAuth0ID(ctx, claims.Auth0UserID())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAuthenticationRequired
		}
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}

	target, err := a.lookup(ctx, targetID)
	if err != nil {
		return nil, err
	}

	return &Access{Caller: caller, Target: target}, nil
}

func (a *Authorizer) lookup(ctx context.Context, id uuid.UUID) (*user.Identity, error) {
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s not found", ErrInvalidTarget, id)
		}
		return nil, fmt.Errorf("failed to resolve user %s: %w", id, err)
	}
	return u, nil
}

func checkOwnership(access *Access) error {
	if access.Caller.ID == access.Target.ID || access.Caller.HasRole(user.RoleAdmin) {
		return nil
	}
	return ErrUnauthorizedAction
}

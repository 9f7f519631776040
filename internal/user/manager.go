package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mentorhub/internal/jwtauth"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrNotFound       = errors.New("user not found")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrInvalidAuth0ID = errors.New("invalid Auth0 user ID")
)

// Manager handles business logic for users.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new user manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// UpsertFromClaims creates or updates a user identity from JWT claims.
// New identities start as members; roles of existing identities are kept.
func (m *Manager) UpsertFromClaims(ctx context.Context, claims *jwtauth.Claims) (*Identity, error) {
	auth0ID := claims.Auth0UserID()
	if auth0ID == "" {
		return nil, ErrInvalidAuth0ID
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	identity := &Identity{
		Auth0UserID: auth0ID,
		Email:       email,
		Name:        claims.Name,
		Roles:       NewRoleSet(RoleMember),
	}

	if err := m.ds.UpsertIdentity(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to upsert identity: %w", err)
	}

	return identity, nil
}

// GetByID retrieves a user by ID.
func (m *Manager) GetByID(ctx context.Context, id uuid.UUID) (*Identity, error) {
	identity, err := m.ds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return identity, nil
}

// GetByAuth0ID retrieves a user by Auth0 user ID.
func (m *Manager) GetByAuth0ID(ctx context.Context, auth0ID string) (*Identity, error) {
	identity, err := m.ds.GetByAuth0ID(ctx, auth0ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return identity, nil
}

// SetRoles replaces a user's roles with the named set and returns the
// updated identity. At least one valid role name is required.
func (m *Manager) SetRoles(ctx context.Context, id uuid.UUID, names []string) (*Identity, error) {
	roles, err := ParseRoleSet(names)
	if err != nil {
		return nil, err
	}
	if roles.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one role is required", ErrInvalidRole)
	}

	rowsAffected, err := m.ds.SetRoles(ctx, id, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to set roles: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return m.GetByID(ctx, id)
}

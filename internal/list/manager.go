package list

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrNotFound = errors.New("list not found")
)

// Manager handles business logic for lists.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new list manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// ToggleFavorite flips the membership of mentorID in the owner's favorites
// list, creating the list with mentorID as its only member when the owner
// has none. Exactly one write is issued. It reports whether the mentor
// was added.
func (m *Manager) ToggleFavorite(ctx context.Context, ownerID, mentorID uuid.UUID) (bool, error) {
	l, err := m.ds.FindFavorite(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("failed to find favorites: %w", err)
		}

		if err := m.ds.Create(ctx, NewFavorites(ownerID, mentorID)); err != nil {
			return false, fmt.Errorf("failed to create favorites: %w", err)
		}
		return true, nil
	}

	added := l.Toggle(mentorID)

	rowsAffected, err := m.ds.Update(ctx, l)
	if err != nil {
		return false, fmt.Errorf("failed to update favorites: %w", err)
	}
	if rowsAffected == 0 {
		return false, ErrNotFound
	}

	return added, nil
}

// GetFavorites returns the owner's favorites list, or nil if the owner
// has none.
func (m *Manager) GetFavorites(ctx context.Context, ownerID uuid.UUID) (*List, error) {
	l, err := m.ds.FindFavorite(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	return l, nil
}

package list

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for lists.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new list datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// FindFavorite retrieves the owner's favorites list.
// Returns sql.ErrNoRows when the owner has none.
func (ds *Datastore) FindFavorite(ctx context.Context, ownerID uuid.UUID) (*List, error) {
	query := `
		SELECT id, name, is_favorite, owner_id, mentor_ids, created_at, updated_at
		FROM lists WHERE owner_id = $1 AND is_favorite
		LIMIT 1`

	l := &List{}
	var mentorIDs pq.StringArray
	err := ds.db.QueryRowContext(ctx, query, ownerID).Scan(
		&l.ID, &l.Name, &l.IsFavorite, &l.OwnerID, &mentorIDs, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Mentors, err = parseMentorIDs(mentorIDs)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Create inserts a new list.
func (ds *Datastore) Create(ctx context.Context, l *List) error {
	now := time.Now()

	query := `
		INSERT INTO lists (id, name, is_favorite, owner_id, mentor_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	return ds.db.QueryRowContext(ctx, query,
		l.ID, l.Name, l.IsFavorite, l.OwnerID, formatMentorIDs(l.Mentors), now, now,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

// Update writes the list's name and its full mentor collection.
func (ds *Datastore) Update(ctx context.Context, l *List) (int64, error) {
	now := time.Now()

	query := `UPDATE lists SET name = $2, mentor_ids = $3, updated_at = $4 WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, l.ID, l.Name, formatMentorIDs(l.Mentors), now)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows > 0 {
		l.UpdatedAt = now
	}
	return rows, nil
}

func formatMentorIDs(mentors []MentorRef) pq.StringArray {
	ids := make(pq.StringArray, len(mentors))
	for i, m := range mentors {
		ids[i] = m.ID.String()
	}
	return ids
}

func parseMentorIDs(ids pq.StringArray) ([]MentorRef, error) {
	mentors := make([]MentorRef, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid mentor id %q: %w", s, err)
		}
		mentors = append(mentors, MentorRef{ID: id})
	}
	return mentors, nil
}

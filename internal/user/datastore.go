package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for users.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new user datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

const identityColumns = `id, auth0_user_id, email, name, roles, created_at, updated_at`

// UpsertIdentity creates or updates a user identity.
// Roles are written only on insert; an existing identity keeps its roles
// and the stored set is scanned back into identity.
func (ds *Datastore) UpsertIdentity(ctx context.Context, identity *Identity) error {
	now := time.Now()

	query := `
		INSERT INTO user_identities (id, auth0_user_id, email, name, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (auth0_user_id)
		DO UPDATE SET email = $3, name = $4, updated_at = $7
		RETURNING id, roles, created_at, updated_at`

	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	return ds.db.QueryRowContext(ctx, query,
		identity.ID, identity.Auth0UserID, identity.Email, identity.Name,
		identity.Roles, now, now,
	).Scan(&identity.ID, &identity.Roles, &identity.CreatedAt, &identity.UpdatedAt)
}

// GetByID retrieves a user identity by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM user_identities WHERE id = $1`
	return scanIdentity(ds.db.QueryRowContext(ctx, query, id))
}

// GetByAuth0ID retrieves a user identity by Auth0 user ID.
func (ds *Datastore) GetByAuth0ID(ctx context.Context, auth0UserID string) (*Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM user_identities WHERE auth0_user_id = $1`
	return scanIdentity(ds.db.QueryRowContext(ctx, query, auth0UserID))
}

// SetRoles replaces the roles of a user.
func (ds *Datastore) SetRoles(ctx context.Context, id uuid.UUID, roles RoleSet) (int64, error) {
	query := `UPDATE user_identities SET roles = $2, updated_at = $3 WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id, roles, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanIdentity(row *sql.Row) (*Identity, error) {
	identity := &Identity{}
	err := row.Scan(
		&identity.ID, &identity.Auth0UserID, &identity.Email, &identity.Name,
		&identity.Roles, &identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

package list

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var listCols = []string{"id", "name", "is_favorite", "owner_id", "mentor_ids", "created_at", "updated_at"}

func setupManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewManager(NewDatastore(db)), mock
}

func expectFindFavorite(mock sqlmock.Sqlmock, owner uuid.UUID) *sqlmock.ExpectedQuery {
	return mock.ExpectQuery(`SELECT .+ FROM lists WHERE owner_id = \$1 AND is_favorite`).WithArgs(owner)
}

func TestManager_ToggleFavorite_RemovesExistingMentor(t *testing.T) {
	mgr, mock := setupManager(t)

	owner := uuid.New()
	mentor := uuid.New()
	listID := uuid.New()
	now := time.Now()

	expectFindFavorite(mock, owner).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(listID.String(), "Favorites", true, owner.String(), "{"+mentor.String()+"}", now, now))
	mock.ExpectExec(`UPDATE lists SET name = \$2, mentor_ids = \$3`).
		WithArgs(listID, "Favorites", pq.StringArray{}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	added, err := mgr.ToggleFavorite(context.Background(), owner, mentor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added {
		t.Error("expected mentor to be removed")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestManager_ToggleFavorite_AppendsNewMentor(t *testing.T) {
	mgr, mock := setupManager(t)

	owner := uuid.New()
	existing := uuid.New()
	mentor := uuid.New()
	listID := uuid.New()
	now := time.Now()

	expectFindFavorite(mock, owner).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(listID.String(), "Favorites", true, owner.String(), "{"+existing.String()+"}", now, now))
	mock.ExpectExec(`UPDATE lists`).
		WithArgs(listID, "Favorites", pq.StringArray{existing.String(), mentor.String()}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	added, err := mgr.ToggleFavorite(context.Background(), owner, mentor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Error("expected mentor to be added")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestManager_ToggleFavorite_CreatesListWhenAbsent(t *testing.T) {
	mgr, mock := setupManager(t)

	owner := uuid.New()
	mentor := uuid.New()
	now := time.Now()

	expectFindFavorite(mock, owner).WillReturnRows(sqlmock.NewRows(listCols))
	mock.ExpectQuery(`INSERT INTO lists`).
		WithArgs(sqlmock.AnyArg(), "Favorites", true, owner, pq.StringArray{mentor.String()}, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	added, err := mgr.ToggleFavorite(context.Background(), owner, mentor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Error("expected mentor to be added to the new list")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestManager_ToggleFavorite_Errors(t *testing.T) {
	owner := uuid.New()
	mentor := uuid.New()
	listID := uuid.New()
	now := time.Now()
	dbErr := errors.New("connection reset")

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "find fails",
			setup: func(mock sqlmock.Sqlmock) {
				expectFindFavorite(mock, owner).WillReturnError(dbErr)
			},
			wantErr: dbErr,
		},
		{
			name: "create fails",
			setup: func(mock sqlmock.Sqlmock) {
				expectFindFavorite(mock, owner).WillReturnRows(sqlmock.NewRows(listCols))
				mock.ExpectQuery(`INSERT INTO lists`).WillReturnError(dbErr)
			},
			wantErr: dbErr,
		},
		{
			name: "update fails",
			setup: func(mock sqlmock.Sqlmock) {
				expectFindFavorite(mock, owner).
					WillReturnRows(sqlmock.NewRows(listCols).
						AddRow(listID.String(), "Favorites", true, owner.String(), "{}", now, now))
				mock.ExpectExec(`UPDATE lists`).WillReturnError(dbErr)
			},
			wantErr: dbErr,
		},
		{
			name: "list vanished before update",
			setup: func(mock sqlmock.Sqlmock) {
				expectFindFavorite(mock, owner).
					WillReturnRows(sqlmock.NewRows(listCols).
						AddRow(listID.String(), "Favorites", true, owner.String(), "{}", now, now))
				mock.ExpectExec(`UPDATE lists`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "corrupt mentor id",
			setup: func(mock sqlmock.Sqlmock) {
				expectFindFavorite(mock, owner).
					WillReturnRows(sqlmock.NewRows(listCols).
						AddRow(listID.String(), "Favorites", true, owner.String(), "{not-a-uuid}", now, now))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, mock := setupManager(t)
			tt.setup(mock)

			_, err := mgr.ToggleFavorite(context.Background(), owner, mentor)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestManager_GetFavorites(t *testing.T) {
	mgr, mock := setupManager(t)

	owner := uuid.New()
	m1, m2 := uuid.New(), uuid.New()
	listID := uuid.New()
	now := time.Now()

	expectFindFavorite(mock, owner).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(listID.String(), "Favorites", true, owner.String(), "{"+m1.String()+","+m2.String()+"}", now, now))

	l, err := mgr.GetFavorites(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil {
		t.Fatal("expected a list")
	}
	if l.ID != listID || l.OwnerID != owner || !l.IsFavorite {
		t.Errorf("unexpected list: %+v", l)
	}
	if len(l.Mentors) != 2 || !l.Mentors[0].Refers(m1) || !l.Mentors[1].Refers(m2) {
		t.Errorf("unexpected mentors: %v", l.Mentors)
	}
}

func TestManager_GetFavorites_Absent(t *testing.T) {
	mgr, mock := setupManager(t)

	owner := uuid.New()
	expectFindFavorite(mock, owner).WillReturnRows(sqlmock.NewRows(listCols))

	l, err := mgr.GetFavorites(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l != nil {
		t.Errorf("expected nil list, got %+v", l)
	}
}

func TestManager_GetFavorites_DatabaseError(t *testing.T) {
	mgr, mock := setupManager(t)

	owner := uuid.New()
	expectFindFavorite(mock, owner).WillReturnError(errors.New("timeout"))

	if _, err := mgr.GetFavorites(context.Background(), owner); err == nil {
		t.Error("expected error")
	}
}

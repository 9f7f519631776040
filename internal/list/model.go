// Package list stores users' mentor lists, including the single
// favorites list each user may own.
package list

import (
	"time"

	"github.com/google/uuid"
)

// FavoritesName is the name given to a newly created favorites list.
const FavoritesName = "Favorites"

// MentorRef references a mentor by user ID.
type MentorRef struct {
	ID uuid.UUID `json:"id"`
}

// Refers reports whether the reference points at the user with the given ID.
func (m MentorRef) Refers(id uuid.UUID) bool {
	return m.ID == id
}

// List is an ordered collection of mentor references owned by one user.
type List struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	IsFavorite bool        `json:"is_favorite"`
	OwnerID    uuid.UUID   `json:"owner_id"`
	Mentors    []MentorRef `json:"mentors"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewFavorites returns an unsaved favorites list for owner holding mentor.
func NewFavorites(ownerID, mentorID uuid.UUID) *List {
	return &List{
		ID:         uuid.New(),
		Name:       FavoritesName,
		IsFavorite: true,
		OwnerID:    ownerID,
		Mentors:    []MentorRef{{ID: mentorID}},
	}
}

// Contains reports whether the list references mentorID.
func (l *List) Contains(mentorID uuid.UUID) bool {
	return l.indexOf(mentorID) >= 0
}

// Toggle removes mentorID if present, otherwise appends it. It reports
// whether the mentor was added.
func (l *List) Toggle(mentorID uuid.UUID) (added bool) {
	if i := l.indexOf(mentorID); i >= 0 {
		l.Mentors = append(l.Mentors[:i:i], l.Mentors[i+1:]...)
		return false
	}
	l.Mentors = append(l.Mentors, MentorRef{ID: mentorID})
	return true
}

func (l *List) indexOf(mentorID uuid.UUID) int {
	for i, m := range l.Mentors {
		if m.Refers(mentorID) {
			return i
		}
	}
	return -1
}

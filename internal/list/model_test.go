package list

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestMentorRef_Refers(t *testing.T) {
	id := uuid.New()
	same, err := uuid.Parse(id.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ref := MentorRef{ID: id}
	if !ref.Refers(same) {
		t.Error("expected references to equal IDs parsed separately to match")
	}
	if ref.Refers(uuid.New()) {
		t.Error("expected different IDs not to match")
	}
}

func TestNewFavorites(t *testing.T) {
	owner, mentor := uuid.New(), uuid.New()

	l := NewFavorites(owner, mentor)

	if l.Name != FavoritesName || !l.IsFavorite || l.OwnerID != owner {
		t.Errorf("unexpected list: %+v", l)
	}
	if l.ID == uuid.Nil {
		t.Error("expected a generated ID")
	}
	if len(l.Mentors) != 1 || !l.Mentors[0].Refers(mentor) {
		t.Errorf("expected list seeded with mentor %s, got %v", mentor, l.Mentors)
	}
}

func TestList_Toggle(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name      string
		start     []uuid.UUID
		toggle    uuid.UUID
		wantAdded bool
		want      []uuid.UUID
	}{
		{name: "add to empty", start: nil, toggle: a, wantAdded: true, want: []uuid.UUID{a}},
		{name: "append keeps order", start: []uuid.UUID{a, b}, toggle: c, wantAdded: true, want: []uuid.UUID{a, b, c}},
		{name: "remove only member", start: []uuid.UUID{a}, toggle: a, wantAdded: false, want: []uuid.UUID{}},
		{name: "remove from middle", start: []uuid.UUID{a, b, c}, toggle: b, wantAdded: false, want: []uuid.UUID{a, c}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &List{}
			for _, id := range tt.start {
				l.Mentors = append(l.Mentors, MentorRef{ID: id})
			}

			added := l.Toggle(tt.toggle)
			if added != tt.wantAdded {
				t.Errorf("added = %v, want %v", added, tt.wantAdded)
			}
			if len(l.Mentors) != len(tt.want) {
				t.Fatalf("mentors = %v, want %v", l.Mentors, tt.want)
			}
			for i, id := range tt.want {
				if !l.Mentors[i].Refers(id) {
					t.Errorf("mentors[%d] = %s, want %s", i, l.Mentors[i].ID, id)
				}
			}
		})
	}
}

func TestList_ToggleTwiceRestoresMembership(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	for _, start := range [][]MentorRef{nil, {{ID: a}}, {{ID: a}, {ID: b}}} {
		l := &List{Mentors: append([]MentorRef(nil), start...)}

		l.Toggle(b)
		l.Toggle(b)

		if l.Contains(b) != containsRef(start, b) {
			t.Errorf("membership of %s changed after two toggles (start %v, end %v)", b, start, l.Mentors)
		}
		if l.Contains(a) != containsRef(start, a) {
			t.Errorf("unrelated mentor membership changed (start %v, end %v)", start, l.Mentors)
		}
	}
}

func TestList_ToggleDoesNotAliasRemovedSlice(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	original := []MentorRef{{ID: a}, {ID: b}}
	l := &List{Mentors: original}

	l.Toggle(a)

	if !original[0].Refers(a) || !original[1].Refers(b) {
		t.Errorf("caller's slice was modified: %v", original)
	}
}

func TestList_JSONEmptyMentorsIsArray(t *testing.T) {
	l := NewFavorites(uuid.New(), uuid.New())
	l.Toggle(l.Mentors[0].ID)

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	mentors, ok := decoded["mentors"].([]any)
	if !ok || len(mentors) != 0 {
		t.Errorf("expected mentors to encode as [], got %s", data)
	}
}

func containsRef(refs []MentorRef, id uuid.UUID) bool {
	for _, r := range refs {
		if r.Refers(id) {
			return true
		}
	}
	return false
}

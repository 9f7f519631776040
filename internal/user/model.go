package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Identity represents a user identity from Auth0.
// We only store minimal information needed for authorization.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	Auth0UserID string    `json:"auth0_user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	Roles       RoleSet   `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasRole reports whether the identity holds r.
func (i *Identity) HasRole(r Role) bool {
	return i.Roles.Has(r)
}

// Role is one of the fixed application roles.
type Role uint8

const (
	RoleMember Role = iota
	RoleMentor
	RoleAdmin

	numRoles
)

var roleNames = [numRoles]string{
	RoleMember: "member",
	RoleMentor: "mentor",
	RoleAdmin:  "admin",
}

var ErrInvalidRole = errors.New("invalid role")

func (r Role) String() string {
	if r < numRoles {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name {
			return Role(r), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// RoleSet is a set of roles. Roles are not mutually exclusive.
// It is stored as a TEXT[] of role names.
type RoleSet uint8

// NewRoleSet returns the set holding roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.With(r)
	}
	return s
}

// ParseRoleSet builds a set from role names. Duplicates are ignored.
func ParseRoleSet(names []string) (RoleSet, error) {
	var s RoleSet
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return 0, err
		}
		s = s.With(r)
	}
	return s, nil
}

func (s RoleSet) Has(r Role) bool {
	return r < numRoles && s&(1<<r) != 0
}

func (s RoleSet) With(r Role) RoleSet {
	if r >= numRoles {
		return s
	}
	return s | 1<<r
}

func (s RoleSet) IsEmpty() bool {
	return s == 0
}

// Roles returns the members of the set in declaration order.
func (s RoleSet) Roles() []Role {
	roles := make([]Role, 0, numRoles)
	for r := Role(0); r < numRoles; r++ {
		if s.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// Names returns the role names in declaration order.
func (s RoleSet) Names() []string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return names
}

func (s RoleSet) String() string {
	return strings.Join(s.Names(), ",")
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseRoleSet(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer.
func (s RoleSet) Value() (driver.Value, error) {
	return pq.StringArray(s.Names()).Value()
}

// Scan implements sql.Scanner.
func (s *RoleSet) Scan(src any) error {
	var names pq.StringArray
	if err := names.Scan(src); err != nil {
		return fmt.Errorf("scan roles: %w", err)
	}
	parsed, err := ParseRoleSet(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

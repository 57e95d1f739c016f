package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role inside their organization.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleOrganizer   Role = "organizer"
	RoleJudge       Role = "judge"
	RoleMentor      Role = "mentor"
	RoleAdmin       Role = "admin"
)

// Roles lists every assignable role in display order.
var Roles = []Role{RoleAdmin, RoleOrganizer, RoleJudge, RoleMentor, RoleParticipant}

// ParseRole validates s against the role enum.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// User represents a platform user. Every user belongs to exactly one organization.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	GoogleID       string    `json:"-"`
	Expertise      string    `json:"expertise,omitempty"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserRef is the populated projection of a user embedded in other resources.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Ref returns the embedded projection of u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Principal is the authenticated caller decoded from a bearer token.
type Principal struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           Role
	Email          string
}

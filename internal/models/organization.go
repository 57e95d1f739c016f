package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant. Users are placed into the organization whose
// domain matches their email domain.
type Organization struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Domain      string     `json:"domain"`
	AdminID     *uuid.UUID `json:"admin_id,omitempty"`
	MemberCount int        `json:"member_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OrgRef is the populated projection of an organization.
type OrgRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is an organization-wide notice.
type Announcement struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	CreatedBy      UserRef   `json:"created_by"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

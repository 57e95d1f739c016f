package models

import (
	"time"

	"github.com/google/uuid"
)

// Idea is a project proposal submitted by a user.
type Idea struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	IsPublic       bool      `json:"is_public"`
	Submitter      UserRef   `json:"submitter"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IdeaRef is the populated projection of an idea embedded in a team.
type IdeaRef struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

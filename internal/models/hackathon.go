package models

import (
	"time"

	"github.com/google/uuid"
)

// Team size bounds applied when a hackathon does not specify them.
const (
	DefaultMinimumTeamSize = 1
	DefaultMaximumTeamSize = 5
)

// Hackathon is an event owned by one organization.
type Hackathon struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	IsActive        bool        `json:"is_active"`
	MinimumTeamSize int         `json:"minimum_team_size"`
	MaximumTeamSize int         `json:"maximum_team_size"`
	StartDate       *time.Time  `json:"start_date,omitempty"`
	EndDate         *time.Time  `json:"end_date,omitempty"`
	OrganizationID  uuid.UUID   `json:"organization_id"`
	CreatedBy       uuid.UUID   `json:"created_by"`
	RoundIDs        []uuid.UUID `json:"round_ids"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// HackathonRef is the populated projection of a hackathon embedded in a team.
type HackathonRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// HackathonDetail is a hackathon with its creator, organization and rounds populated.
type HackathonDetail struct {
	Hackathon
	Creator      UserRef `json:"creator"`
	Organization OrgRef  `json:"organization"`
	Rounds       []Round `json:"rounds"`
	TeamCount    int     `json:"team_count"`
}

// Round is one stage of a hackathon. A round belongs to exactly one hackathon.
type Round struct {
	ID          uuid.UUID  `json:"id"`
	HackathonID uuid.UUID  `json:"hackathon_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsActive    bool       `json:"is_active"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

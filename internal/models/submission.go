package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a team's deliverable for one round. A team has at most one
// submission per round; resubmitting replaces the links.
type Submission struct {
	ID              uuid.UUID  `json:"id"`
	RoundID         uuid.UUID  `json:"round_id"`
	TeamID          uuid.UUID  `json:"team_id"`
	TeamName        string     `json:"team_name,omitempty"`
	OrganizationID  uuid.UUID  `json:"organization_id"`
	SubmittedBy     uuid.UUID  `json:"submitted_by"`
	Notes           string     `json:"notes"`
	PresentationURL string     `json:"presentation_url,omitempty"`
	RecordingURL    string     `json:"recording_url,omitempty"`
	Score           *float64   `json:"score,omitempty"`
	Feedback        string     `json:"feedback,omitempty"`
	ScoredBy        *uuid.UUID `json:"scored_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

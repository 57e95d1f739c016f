package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a hackathon registration. A user is on at most one team per hackathon.
type Team struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	IdeaID         uuid.UUID   `json:"idea_id"`
	LeaderID       uuid.UUID   `json:"leader_id"`
	HackathonID    uuid.UUID   `json:"hackathon_id"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	MemberIDs      []uuid.UUID `json:"member_ids"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// HasMember reports whether userID is on the team.
func (t *Team) HasMember(userID uuid.UUID) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// TeamDetail is a team with idea, leader, members, hackathon and organization populated.
type TeamDetail struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Idea         IdeaRef      `json:"idea"`
	Leader       UserRef      `json:"leader"`
	Members      []UserRef    `json:"members"`
	Hackathon    HackathonRef `json:"hackathon"`
	Organization OrgRef       `json:"organization"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

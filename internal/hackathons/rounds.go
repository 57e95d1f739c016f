package hackathons

import (
	"time"

	"github.com/google/uuid"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/sanitize"
)

// RoundInput is one entry of the rounds array on create and update. A nil ID
// means a new round.
type RoundInput struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsActive    *bool      `json:"is_active"`
}

// RoundPlan is the reconciliation of a stored round list against an incoming one.
type RoundPlan struct {
	Delete []uuid.UUID
	Update []models.Round
	Insert []models.Round
}

// IDs returns the resulting round list: retained rounds in incoming order,
// then new rounds. Insert entries must have their IDs assigned first.
func (p *RoundPlan) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Update)+len(p.Insert))
	for _, r := range p.Update {
		ids = append(ids, r.ID)
	}
	for _, r := range p.Insert {
		ids = append(ids, r.ID)
	}
	return ids
}

// PlanRounds diffs incoming against the hackathon's stored round ids. Stored
// rounds missing from incoming are deleted, matched ones are overwritten and
// rounds without an id are inserted. An id that is not one of the stored
// rounds is rejected so a request can never adopt another hackathon's round.
func PlanRounds(hackathonID uuid.UUID, existing []uuid.UUID, incoming []RoundInput) (*RoundPlan, error) {
	stored := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		stored[id] = true
	}

	plan := &RoundPlan{}
	kept := make(map[uuid.UUID]bool, len(incoming))
	for _, in := range incoming {
		r, err := roundFromInput(hackathonID, in)
		if err != nil {
			return nil, err
		}
		if in.ID == nil {
			plan.Insert = append(plan.Insert, r)
			continue
		}
		if !stored[*in.ID] {
			return nil, errs.ErrUnknownRound.WithDetail("round %s", in.ID)
		}
		if kept[*in.ID] {
			return nil, errs.ErrHackathonValidation.WithDetail("round %s listed twice", in.ID)
		}
		kept[*in.ID] = true
		r.ID = *in.ID
		plan.Update = append(plan.Update, r)
	}
	for _, id := range existing {
		if !kept[id] {
			plan.Delete = append(plan.Delete, id)
		}
	}

	pos := 0
	for i := range plan.Update {
		plan.Update[i].Position = pos
		pos++
	}
	for i := range plan.Insert {
		plan.Insert[i].Position = pos
		pos++
	}
	return plan, nil
}

func roundFromInput(hackathonID uuid.UUID, in RoundInput) (models.Round, error) {
	name := sanitize.Plain(in.Name)
	if name == "" {
		return models.Round{}, errs.ErrHackathonValidation.WithDetail("round name is required")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return models.Round{}, errs.ErrHackathonValidation.WithDetail("round %q ends before it starts", name)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return models.Round{
		HackathonID: hackathonID,
		Name:        name,
		Description: sanitize.Rich(in.Description),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsActive:    active,
	}, nil
}

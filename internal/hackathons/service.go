package hackathons

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/sanitize"
)

// Store is the hackathon persistence the service needs.
type Store interface {
	List(ctx context.Context, orgID uuid.UUID, includeInactive bool) ([]models.HackathonDetail, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.HackathonDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
	Create(ctx context.Context, h *models.Hackathon, rounds []models.Round) error
	Update(ctx context.Context, h *models.Hackathon, plan *RoundPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Input is the body for create and update. On update nil fields keep the
// stored value and a nil Rounds leaves rounds untouched.
type Input struct {
	Title           *string      `json:"title"`
	Description     *string      `json:"description"`
	IsActive        *bool        `json:"is_active"`
	MinimumTeamSize *int         `json:"minimum_team_size"`
	MaximumTeamSize *int         `json:"maximum_team_size"`
	StartDate       *time.Time   `json:"start_date"`
	EndDate         *time.Time   `json:"end_date"`
	Rounds          []RoundInput `json:"rounds"`
}

// Service applies visibility, tenancy and validation rules to hackathons.
type Service struct {
	store Store
}

// NewService creates a hackathon service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the caller's organization's hackathons. Inactive ones are
// included only for roles that may see them.
func (s *Service) List(ctx context.Context, p models.Principal) ([]models.HackathonDetail, error) {
	return s.store.List(ctx, p.OrganizationID, policy.Allowed(p.Role, policy.HackathonViewHidden))
}

// Get returns one hackathon if the caller may view it.
func (s *Service) Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.HackathonDetail, error) {
	d, err := s.store.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewHackathon(p, &d.Hackathon); err != nil {
		return nil, err
	}
	return d, nil
}

// Create validates in and stores a new hackathon in the caller's organization.
func (s *Service) Create(ctx context.Context, p models.Principal, in Input) (*models.HackathonDetail, error) {
	if !policy.Allowed(p.Role, policy.HackathonManage) {
		return nil, errs.ErrForbiddenRole
	}
	h := &models.Hackathon{
		MinimumTeamSize: models.DefaultMinimumTeamSize,
		MaximumTeamSize: models.DefaultMaximumTeamSize,
		OrganizationID:  p.OrganizationID,
		CreatedBy:       p.UserID,
	}
	if err := apply(h, in); err != nil {
		return nil, err
	}
	plan, err := PlanRounds(uuid.Nil, nil, in.Rounds)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, h, plan.Insert); err != nil {
		return nil, err
	}
	return s.store.GetDetail(ctx, h.ID)
}

// Update applies in to a hackathon of the caller's organization and
// reconciles rounds when supplied.
func (s *Service) Update(ctx context.Context, p models.Principal, id uuid.UUID, in Input) (*models.HackathonDetail, error) {
	h, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanManageHackathon(p, h); err != nil {
		return nil, err
	}
	if err := apply(h, in); err != nil {
		return nil, err
	}
	var plan *RoundPlan
	if in.Rounds != nil {
		if plan, err = PlanRounds(h.ID, h.RoundIDs, in.Rounds); err != nil {
			return nil, err
		}
	}
	if err := s.store.Update(ctx, h, plan); err != nil {
		return nil, err
	}
	return s.store.GetDetail(ctx, h.ID)
}

// Delete removes a hackathon of the caller's organization and returns what was deleted.
func (s *Service) Delete(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Hackathon, error) {
	h, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanManageHackathon(p, h); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	return h, nil
}

// apply copies the set fields of in onto h and validates the result.
func apply(h *models.Hackathon, in Input) error {
	if in.Title != nil {
		h.Title = sanitize.Plain(*in.Title)
	}
	if in.Description != nil {
		h.Description = sanitize.Rich(*in.Description)
	}
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
	if in.MinimumTeamSize != nil {
		h.MinimumTeamSize = *in.MinimumTeamSize
	}
	if in.MaximumTeamSize != nil {
		h.MaximumTeamSize = *in.MaximumTeamSize
	}
	if in.StartDate != nil {
		h.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		h.EndDate = in.EndDate
	}

	switch {
	case h.Title == "" || h.Description == "":
		return errs.ErrHackathonValidation.WithDetail("title and description are required")
	case h.MinimumTeamSize < 1:
		return errs.ErrHackathonValidation.WithDetail("minimum team size must be at least 1")
	case h.MaximumTeamSize < h.MinimumTeamSize:
		return errs.ErrHackathonValidation.WithDetail("maximum team size must be at least the minimum")
	case h.StartDate != nil && h.EndDate != nil && h.EndDate.Before(*h.StartDate):
		return errs.ErrHackathonValidation.WithDetail("end date is before start date")
	}
	return nil
}

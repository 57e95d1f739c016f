package registrations

import (
	"context"

	"github.com/google/uuid"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/sanitize"
)

// Store is the team persistence the service needs.
type Store interface {
	Create(ctx context.Context, t *models.Team) error
	Update(ctx context.Context, t *models.Team) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.TeamDetail, error)
	FindConflicts(ctx context.Context, hackathonID uuid.UUID, userIDs []uuid.UUID, excludeTeam uuid.UUID) ([]uuid.UUID, error)
	ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.TeamDetail, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]models.TeamDetail, error)
	FindByMember(ctx context.Context, hackathonID, userID uuid.UUID) (*models.TeamDetail, error)
}

// Hackathons looks up the hackathon a team registers for.
type Hackathons interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
}

// Ideas looks up the idea a team works on.
type Ideas interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)
}

// Members counts how many of a set of users belong to an organization.
type Members interface {
	CountInOrganization(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) (int, error)
}

// RegisterInput is the body for POST /register/:hackathonId/register.
type RegisterInput struct {
	TeamName  string      `json:"team_name"`
	IdeaID    uuid.UUID   `json:"idea_id"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}

// UpdateInput is the body for PUT /register/:hackathonId/teams/:teamId.
// Nil fields are unchanged. The leader always stays on the team.
type UpdateInput struct {
	TeamName  *string     `json:"team_name"`
	IdeaID    *uuid.UUID  `json:"idea_id"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}

// Service runs the team registration workflow.
type Service struct {
	teams      Store
	hackathons Hackathons
	ideas      Ideas
	members    Members
}

// NewService creates a registration service.
func NewService(teams Store, hackathons Hackathons, ideas Ideas, members Members) *Service {
	return &Service{teams: teams, hackathons: hackathons, ideas: ideas, members: members}
}

// Register creates a team led by the caller. Checks run in a fixed order and
// the first failure is returned.
func (s *Service) Register(ctx context.Context, p models.Principal, hackathonID uuid.UUID, in RegisterInput) (*models.TeamDetail, error) {
	roster := newRoster(in.MemberIDs, p.UserID)
	name := sanitize.Plain(in.TeamName)
	if name == "" || in.IdeaID == uuid.Nil {
		return nil, errs.ErrRegistrationValidation
	}

	h, err := s.hackathons.GetByID(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if h.OrganizationID != p.OrganizationID {
		return nil, errs.ErrHackathonAccessDenied
	}
	if !h.IsActive {
		return nil, errs.ErrRegistrationClosed
	}
	if err := roster.check(h); err != nil {
		return nil, err
	}
	if err := s.checkIdea(ctx, p, in.IdeaID); err != nil {
		return nil, err
	}
	members := roster.members
	if err := s.checkMembers(ctx, p, h.ID, members, uuid.Nil); err != nil {
		return nil, err
	}

	t := &models.Team{
		Name:           name,
		IdeaID:         in.IdeaID,
		LeaderID:       p.UserID,
		HackathonID:    h.ID,
		OrganizationID: p.OrganizationID,
		MemberIDs:      members,
	}
	if err := s.teams.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.teams.GetDetail(ctx, t.ID)
}

// Update edits a team. Only the leader or staff may edit, and the same size
// and uniqueness rules as registration apply.
func (s *Service) Update(ctx context.Context, p models.Principal, hackathonID, teamID uuid.UUID, in UpdateInput) (*models.TeamDetail, error) {
	t, err := s.teamFor(ctx, hackathonID, teamID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanEditTeam(p, t); err != nil {
		return nil, err
	}
	h, err := s.hackathons.GetByID(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if !h.IsActive {
		return nil, errs.ErrRegistrationClosed
	}

	if in.TeamName != nil {
		t.Name = sanitize.Plain(*in.TeamName)
		if t.Name == "" {
			return nil, errs.ErrRegistrationValidation
		}
	}
	if in.IdeaID != nil && *in.IdeaID != t.IdeaID {
		if err := s.checkIdea(ctx, p, *in.IdeaID); err != nil {
			return nil, err
		}
		t.IdeaID = *in.IdeaID
	}
	if in.MemberIDs != nil {
		roster := newRoster(in.MemberIDs, t.LeaderID)
		if err := roster.check(h); err != nil {
			return nil, err
		}
		members := roster.members
		if err := s.checkMembers(ctx, p, h.ID, members, t.ID); err != nil {
			return nil, err
		}
		t.MemberIDs = members
	}

	if err := s.teams.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.teams.GetDetail(ctx, t.ID)
}

// Withdraw deletes a team and returns it as it was before deletion.
func (s *Service) Withdraw(ctx context.Context, p models.Principal, hackathonID, teamID uuid.UUID) (*models.TeamDetail, error) {
	t, err := s.teamFor(ctx, hackathonID, teamID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanManageTeam(p, t); err != nil {
		return nil, err
	}
	detail, err := s.teams.GetDetail(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if err := s.teams.Delete(ctx, t.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListTeams returns every team registered for a hackathon of the caller's organization.
func (s *Service) ListTeams(ctx context.Context, p models.Principal, hackathonID uuid.UUID) ([]models.TeamDetail, error) {
	h, err := s.hackathons.GetByID(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if h.OrganizationID != p.OrganizationID {
		return nil, errs.ErrHackathonAccessDenied
	}
	return s.teams.ListByHackathon(ctx, h.ID)
}

// MyTeams returns the caller's teams across hackathons.
func (s *Service) MyTeams(ctx context.Context, p models.Principal) ([]models.TeamDetail, error) {
	return s.teams.ListByMember(ctx, p.UserID)
}

// MyTeam returns the caller's team for one hackathon.
func (s *Service) MyTeam(ctx context.Context, p models.Principal, hackathonID uuid.UUID) (*models.TeamDetail, error) {
	return s.teams.FindByMember(ctx, hackathonID, p.UserID)
}

func (s *Service) teamFor(ctx context.Context, hackathonID, teamID uuid.UUID) (*models.Team, error) {
	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if t.HackathonID != hackathonID {
		return nil, errs.ErrMismatchedHackathon
	}
	return t, nil
}

// checkIdea treats an idea of another organization as missing.
func (s *Service) checkIdea(ctx context.Context, p models.Principal, ideaID uuid.UUID) error {
	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if idea.OrganizationID != p.OrganizationID {
		return errs.ErrIdeaNotFound
	}
	return nil
}

func (s *Service) checkMembers(ctx context.Context, p models.Principal, hackathonID uuid.UUID, members []uuid.UUID, excludeTeam uuid.UUID) error {
	n, err := s.members.CountInOrganization(ctx, p.OrganizationID, members)
	if err != nil {
		return err
	}
	if n != len(members) {
		return errs.ErrInvalidMembers
	}
	taken, err := s.teams.FindConflicts(ctx, hackathonID, members, excludeTeam)
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return errs.ErrAlreadyRegistered.WithDetail("%d member(s) already on a team", len(taken))
	}
	return nil
}

func checkSize(h *models.Hackathon, size int) error {
	if size < h.MinimumTeamSize || size > h.MaximumTeamSize {
		return errs.ErrInvalidTeamSize.WithDetail("team size must be between %d and %d", h.MinimumTeamSize, h.MaximumTeamSize)
	}
	return nil
}

// roster is a submitted member list with the leader added when absent.
// size counts every submitted id, repeats included.
type roster struct {
	members   []uuid.UUID
	size      int
	duplicate bool
}

func newRoster(ids []uuid.UUID, leader uuid.UUID) roster {
	var r roster
	seen := make(map[uuid.UUID]bool, len(ids)+1)
	r.members = make([]uuid.UUID, 0, len(ids)+1)
	for _, m := range ids {
		if m == uuid.Nil {
			continue
		}
		r.size++
		if seen[m] {
			r.duplicate = true
			continue
		}
		seen[m] = true
		r.members = append(r.members, m)
	}
	if !seen[leader] {
		r.members = append(r.members, leader)
		r.size++
	}
	return r
}

// check applies the hackathon's size bounds, then rejects repeated ids.
func (r roster) check(h *models.Hackathon) error {
	if err := checkSize(h, r.size); err != nil {
		return err
	}
	if r.duplicate {
		return errs.ErrRegistrationValidation.WithDetail("duplicate member id")
	}
	return nil
}

// Package policy is the single place where role and ownership rules live.
// Route guards use Roles; services use the Can* helpers for checks that
// need the loaded resource.
package policy

import (
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Action names a protected operation.
type Action string

const (
	AnnouncementWrite    Action = "announcement.write"
	AnnouncementModerate Action = "announcement.moderate"
	HackathonManage      Action = "hackathon.manage"
	HackathonViewHidden  Action = "hackathon.view_inactive"
	TeamList             Action = "team.list"
	TeamManageAny        Action = "team.manage_any"
	UserChangeRole       Action = "user.change_role"
	SubmissionReview     Action = "submission.review"
	SubmissionScore      Action = "submission.score"
	AuditRead            Action = "audit.read"
	OrganizationManage   Action = "organization.manage"
)

var staff = []models.Role{models.RoleOrganizer, models.RoleAdmin}

var table = map[Action][]models.Role{
	AnnouncementWrite:    staff,
	AnnouncementModerate: {models.RoleAdmin},
	HackathonManage:      staff,
	HackathonViewHidden:  staff,
	TeamList:             staff,
	TeamManageAny:        staff,
	UserChangeRole:       staff,
	SubmissionReview:     {models.RoleOrganizer, models.RoleAdmin, models.RoleJudge, models.RoleMentor},
	SubmissionScore:      {models.RoleOrganizer, models.RoleAdmin, models.RoleJudge},
	AuditRead:            {models.RoleAdmin},
	OrganizationManage:   {models.RoleAdmin},
}

// Roles returns the roles allowed to perform a.
func Roles(a Action) []models.Role {
	return table[a]
}

// Allowed reports whether role may perform a.
func Allowed(role models.Role, a Action) bool {
	for _, r := range table[a] {
		if r == role {
			return true
		}
	}
	return false
}

// CanEditAnnouncement allows the creator or a moderator.
func CanEditAnnouncement(p models.Principal, a *models.Announcement) error {
	if a.OrganizationID != p.OrganizationID {
		return errs.ErrAnnouncementNotFound
	}
	if a.CreatedBy.ID == p.UserID || Allowed(p.Role, AnnouncementModerate) {
		return nil
	}
	return errs.ErrAnnouncementForbidden
}

// CanEditIdea allows only the submitter, whatever their role.
func CanEditIdea(p models.Principal, idea *models.Idea) error {
	if idea.Submitter.ID != p.UserID {
		return errs.ErrIdeaUnauthorized
	}
	return nil
}

// CanViewHackathon enforces tenancy and hides inactive hackathons from non-staff.
func CanViewHackathon(p models.Principal, h *models.Hackathon) error {
	if h.OrganizationID != p.OrganizationID {
		return errs.ErrHackathonAccessDenied
	}
	if !h.IsActive && !Allowed(p.Role, HackathonViewHidden) {
		return errs.ErrHackathonInactive
	}
	return nil
}

// CanManageHackathon requires a staff role inside the owning organization.
func CanManageHackathon(p models.Principal, h *models.Hackathon) error {
	if h.OrganizationID != p.OrganizationID {
		return errs.ErrHackathonAccessDenied
	}
	if !Allowed(p.Role, HackathonManage) {
		return errs.ErrForbiddenRole
	}
	return nil
}

// CanManageTeam allows staff of the team's organization or any team member.
func CanManageTeam(p models.Principal, t *models.Team) error {
	if t.OrganizationID != p.OrganizationID {
		return errs.ErrRegistrationAccessDenied
	}
	if Allowed(p.Role, TeamManageAny) || t.HasMember(p.UserID) {
		return nil
	}
	return errs.ErrRegistrationAccessDenied
}

// CanEditTeam allows staff or the team leader.
func CanEditTeam(p models.Principal, t *models.Team) error {
	if t.OrganizationID != p.OrganizationID {
		return errs.ErrRegistrationAccessDenied
	}
	if Allowed(p.Role, TeamManageAny) || t.LeaderID == p.UserID {
		return nil
	}
	return errs.ErrRegistrationAccessDenied
}

// CanChangeRole guards role assignment. Admin users are never modified and
// only an admin may grant the admin role.
func CanChangeRole(p models.Principal, target *models.User, to models.Role) error {
	if !Allowed(p.Role, UserChangeRole) {
		return errs.ErrForbiddenRole
	}
	if target.OrganizationID != p.OrganizationID {
		return errs.ErrUserNotFound
	}
	if target.Role == models.RoleAdmin {
		return errs.ErrCannotModifyAdmin
	}
	if to == models.RoleAdmin && p.Role != models.RoleAdmin {
		return errs.ErrForbiddenRole
	}
	return nil
}

package policy

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

var org = uuid.New()

func principal(role models.Role) models.Principal {
	return models.Principal{UserID: uuid.New(), OrganizationID: org, Role: role}
}

func TestAllowedTable(t *testing.T) {
	tests := []struct {
		role   models.Role
		action Action
		want   bool
	}{
		{models.RoleOrganizer, AnnouncementWrite, true},
		{models.RoleParticipant, AnnouncementWrite, false},
		{models.RoleOrganizer, AnnouncementModerate, false},
		{models.RoleAdmin, AnnouncementModerate, true},
		{models.RoleJudge, SubmissionScore, true},
		{models.RoleMentor, SubmissionScore, false},
		{models.RoleMentor, SubmissionReview, true},
		{models.RoleParticipant, TeamList, false},
		{models.RoleOrganizer, AuditRead, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.action))
		})
	}
}

func TestCanEditAnnouncement(t *testing.T) {
	creator := principal(models.RoleOrganizer)
	a := &models.Announcement{CreatedBy: models.UserRef{ID: creator.UserID}, OrganizationID: org}

	assert.NoError(t, CanEditAnnouncement(creator, a))
	assert.NoError(t, CanEditAnnouncement(principal(models.RoleAdmin), a))
	assert.True(t, errors.Is(CanEditAnnouncement(principal(models.RoleOrganizer), a), errs.ErrAnnouncementForbidden))

	foreign := principal(models.RoleAdmin)
	foreign.OrganizationID = uuid.New()
	assert.True(t, errors.Is(CanEditAnnouncement(foreign, a), errs.ErrAnnouncementNotFound))
}

func TestCanEditIdeaIgnoresRole(t *testing.T) {
	owner := principal(models.RoleParticipant)
	idea := &models.Idea{Submitter: models.UserRef{ID: owner.UserID}}

	assert.NoError(t, CanEditIdea(owner, idea))
	err := CanEditIdea(principal(models.RoleAdmin), idea)
	assert.True(t, errors.Is(err, errs.ErrIdeaUnauthorized))
}

func TestCanViewHackathon(t *testing.T) {
	inactive := &models.Hackathon{OrganizationID: org, IsActive: false}

	assert.True(t, errors.Is(CanViewHackathon(principal(models.RoleParticipant), inactive), errs.ErrHackathonInactive))
	assert.NoError(t, CanViewHackathon(principal(models.RoleOrganizer), inactive))

	other := &models.Hackathon{OrganizationID: uuid.New(), IsActive: true}
	assert.True(t, errors.Is(CanViewHackathon(principal(models.RoleAdmin), other), errs.ErrHackathonAccessDenied))
}

func TestCanManageTeam(t *testing.T) {
	member := principal(models.RoleParticipant)
	team := &models.Team{OrganizationID: org, LeaderID: uuid.New(), MemberIDs: []uuid.UUID{member.UserID}}

	assert.NoError(t, CanManageTeam(member, team))
	assert.NoError(t, CanManageTeam(principal(models.RoleOrganizer), team))
	assert.Error(t, CanManageTeam(principal(models.RoleParticipant), team))
	assert.Error(t, CanEditTeam(member, team), "plain members cannot edit")
}

func TestCanChangeRole(t *testing.T) {
	target := &models.User{ID: uuid.New(), OrganizationID: org, Role: models.RoleParticipant}
	admin := &models.User{ID: uuid.New(), OrganizationID: org, Role: models.RoleAdmin}

	assert.NoError(t, CanChangeRole(principal(models.RoleOrganizer), target, models.RoleJudge))
	assert.True(t, errors.Is(CanChangeRole(principal(models.RoleOrganizer), admin, models.RoleJudge), errs.ErrCannotModifyAdmin))
	assert.True(t, errors.Is(CanChangeRole(principal(models.RoleParticipant), target, models.RoleJudge), errs.ErrForbiddenRole))
	assert.True(t, errors.Is(CanChangeRole(principal(models.RoleOrganizer), target, models.RoleAdmin), errs.ErrForbiddenRole))
	assert.NoError(t, CanChangeRole(principal(models.RoleAdmin), target, models.RoleAdmin))
}

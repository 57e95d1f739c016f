package registrations

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/audit"
	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/notify"
	"github.com/srbmaury-team/Hackathon-Portal/internal/realtime"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

// Publisher pushes realtime events to an organization feed.
type Publisher interface {
	Publish(orgID uuid.UUID, event string, payload interface{})
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	svc      *Service
	notifier *notify.Notifier
	audit    *audit.Logger
	feed     Publisher
	logger   *zap.Logger
}

// NewHandler creates a registrations handler. notifier, auditLog and feed may be nil.
func NewHandler(svc *Service, notifier *notify.Notifier, auditLog *audit.Logger, feed Publisher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, notifier: notifier, audit: auditLog, feed: feed, logger: logger}
}

// Register handles POST /register/:hackathonId/register.
func (h *Handler) Register(c *gin.Context) {
	hackathonID, ok := parseID(c, "hackathonId", errs.ErrInvalidHackathonID, "registration.failed")
	if !ok {
		return
	}
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	p := middleware.MustPrincipal(c)
	team, err := h.svc.Register(ctx, p, hackathonID, in)
	if err != nil {
		response.Error(c, err, "registration.failed")
		return
	}
	h.logger.Info("team registered",
		zap.String("team_id", team.ID.String()),
		zap.String("hackathon_id", hackathonID.String()),
		zap.Int("members", len(team.Members)))
	h.audit.Record(ctx, p, c.ClientIP(), audit.CategoryTeam, audit.EventTeamRegistered, team.ID,
		map[string]string{"hackathon_id": hackathonID.String(), "team_name": team.Name})
	h.notifier.TeamRegistered(ctx, team)
	h.publish(p.OrganizationID, realtime.EventTeamRegistered, team)
	response.Created(c, "registration.success", gin.H{"team": team})
}

// ListTeams handles GET /register/:hackathonId/teams.
func (h *Handler) ListTeams(c *gin.Context) {
	hackathonID, ok := parseID(c, "hackathonId", errs.ErrInvalidHackathonID, "registration.fetch_failed")
	if !ok {
		return
	}
	teams, err := h.svc.ListTeams(c.Request.Context(), middleware.MustPrincipal(c), hackathonID)
	if err != nil {
		response.Error(c, err, "registration.fetch_failed")
		return
	}
	response.OKMessage(c, "registration.fetch_success", teamList(teams))
}

// MyTeams handles GET /register/my-teams.
func (h *Handler) MyTeams(c *gin.Context) {
	teams, err := h.svc.MyTeams(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err, "registration.fetch_failed")
		return
	}
	response.OKMessage(c, "registration.fetch_success", teamList(teams))
}

// MyTeam handles GET /register/:hackathonId/my.
func (h *Handler) MyTeam(c *gin.Context) {
	hackathonID, ok := parseID(c, "hackathonId", errs.ErrInvalidHackathonID, "registration.fetch_failed")
	if !ok {
		return
	}
	team, err := h.svc.MyTeam(c.Request.Context(), middleware.MustPrincipal(c), hackathonID)
	if err != nil {
		response.Error(c, err, "registration.fetch_failed")
		return
	}
	response.OKMessage(c, "registration.fetch_success", gin.H{"team": team})
}

// UpdateTeam handles PUT /register/:hackathonId/teams/:teamId.
func (h *Handler) UpdateTeam(c *gin.Context) {
	hackathonID, ok := parseID(c, "hackathonId", errs.ErrInvalidHackathonID, "registration.update_failed")
	if !ok {
		return
	}
	teamID, ok := parseID(c, "teamId", errs.ErrInvalidID, "registration.update_failed")
	if !ok {
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	p := middleware.MustPrincipal(c)
	team, err := h.svc.Update(ctx, p, hackathonID, teamID, in)
	if err != nil {
		response.Error(c, err, "registration.update_failed")
		return
	}
	h.audit.Record(ctx, p, c.ClientIP(), audit.CategoryTeam, audit.EventTeamUpdated, team.ID,
		map[string]string{"hackathon_id": hackathonID.String(), "team_name": team.Name})
	h.publish(p.OrganizationID, realtime.EventTeamUpdated, team)
	response.OKMessage(c, "registration.update_success", gin.H{"team": team})
}

// Withdraw handles DELETE /register/:hackathonId/teams/:teamId.
func (h *Handler) Withdraw(c *gin.Context) {
	hackathonID, ok := parseID(c, "hackathonId", errs.ErrInvalidHackathonID, "registration.withdraw_failed")
	if !ok {
		return
	}
	teamID, ok := parseID(c, "teamId", errs.ErrInvalidID, "registration.withdraw_failed")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p := middleware.MustPrincipal(c)
	team, err := h.svc.Withdraw(ctx, p, hackathonID, teamID)
	if err != nil {
		response.Error(c, err, "registration.withdraw_failed")
		return
	}
	h.audit.Record(ctx, p, c.ClientIP(), audit.CategoryTeam, audit.EventTeamWithdrawn, team.ID,
		map[string]string{"hackathon_id": hackathonID.String(), "team_name": team.Name})
	h.notifier.TeamWithdrawn(ctx, team)
	h.publish(p.OrganizationID, realtime.EventTeamWithdrawn, gin.H{"id": team.ID, "hackathon_id": hackathonID})
	response.OKMessage(c, "registration.withdraw_success", gin.H{"id": team.ID})
}

func (h *Handler) publish(orgID uuid.UUID, event string, payload interface{}) {
	if h.feed != nil {
		h.feed.Publish(orgID, event, payload)
	}
}

func teamList(teams []models.TeamDetail) gin.H {
	return gin.H{"teams": teams, "total": len(teams)}
}

func parseID(c *gin.Context, param string, invalid *errs.Error, fallback string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.Error(c, invalid, fallback)
		return uuid.Nil, false
	}
	return id, true
}

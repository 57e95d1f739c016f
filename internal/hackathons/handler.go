package hackathons

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/audit"
	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/realtime"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

// Publisher pushes realtime events to an organization feed.
type Publisher interface {
	Publish(orgID uuid.UUID, event string, payload interface{})
}

// Handler handles hackathon HTTP endpoints.
type Handler struct {
	svc    *Service
	feed   Publisher
	audit  *audit.Logger
	logger *zap.Logger
}

// NewHandler creates a hackathons handler. feed and auditLog may be nil.
func NewHandler(svc *Service, feed Publisher, auditLog *audit.Logger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, feed: feed, audit: auditLog, logger: logger}
}

// List handles GET /hackathons.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err, "hackathon.fetch_failed")
		return
	}
	response.OK(c, gin.H{"hackathons": list})
}

// Get handles GET /hackathons/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := hackathonID(c, "hackathon.fetch_failed")
	if !ok {
		return
	}
	d, err := h.svc.Get(c.Request.Context(), middleware.MustPrincipal(c), id)
	if err != nil {
		response.Error(c, err, "hackathon.fetch_failed")
		return
	}
	response.OK(c, d)
}

// Create handles POST /hackathons.
func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := middleware.MustPrincipal(c)
	d, err := h.svc.Create(c.Request.Context(), p, in)
	if err != nil {
		response.Error(c, err, "hackathon.creation_failed")
		return
	}
	h.logger.Info("hackathon created", zap.String("hackathon_id", d.ID.String()), zap.String("organization_id", p.OrganizationID.String()))
	h.publish(p.OrganizationID, realtime.EventHackathonCreated, d)
	response.Created(c, "hackathon.created_successfully", d)
}

// Update handles PUT /hackathons/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := hackathonID(c, "hackathon.update_failed")
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := middleware.MustPrincipal(c)
	d, err := h.svc.Update(c.Request.Context(), p, id, in)
	if err != nil {
		response.Error(c, err, "hackathon.update_failed")
		return
	}
	h.publish(p.OrganizationID, realtime.EventHackathonUpdated, d)
	response.OKMessage(c, "hackathon.updated_successfully", d)
}

// Delete handles DELETE /hackathons/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := hackathonID(c, "hackathon.delete_failed")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p := middleware.MustPrincipal(c)
	deleted, err := h.svc.Delete(ctx, p, id)
	if err != nil {
		response.Error(c, err, "hackathon.delete_failed")
		return
	}
	h.audit.Record(ctx, p, c.ClientIP(), audit.CategoryAdmin, audit.EventHackathonDeleted, deleted.ID,
		map[string]string{"title": deleted.Title})
	h.publish(p.OrganizationID, realtime.EventHackathonDeleted, gin.H{"id": deleted.ID})
	response.OKMessage(c, "hackathon.deleted_successfully", gin.H{"id": deleted.ID})
}

func (h *Handler) publish(orgID uuid.UUID, event string, payload interface{}) {
	if h.feed != nil {
		h.feed.Publish(orgID, event, payload)
	}
}

func hackathonID(c *gin.Context, fallback string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrInvalidHackathonID, fallback)
		return uuid.Nil, false
	}
	return id, true
}

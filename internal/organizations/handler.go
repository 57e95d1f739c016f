package organizations

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

// Store is the organization persistence the handler needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
}

// Handler handles organization HTTP endpoints.
type Handler struct {
	store Store
}

// NewHandler creates an organizations handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RenameRequest is the body for PUT /organizations/me.
type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Mine handles GET /organizations/me.
func (h *Handler) Mine(c *gin.Context) {
	p := middleware.MustPrincipal(c)
	org, err := h.store.GetByID(c.Request.Context(), p.OrganizationID)
	if err != nil {
		response.Error(c, err, "organization.fetch_failed")
		return
	}
	response.OK(c, org)
}

// Rename handles PUT /organizations/me. Admin only.
func (h *Handler) Rename(c *gin.Context) {
	var body RenameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	name := strings.TrimSpace(body.Name)
	if len(name) < 1 || len(name) > 255 {
		response.Error(c, errs.ErrInvalidRequest.WithDetail("name must be 1-255 characters"), "organization.update_failed")
		return
	}
	p := middleware.MustPrincipal(c)
	ctx := c.Request.Context()
	if err := h.store.Rename(ctx, p.OrganizationID, name); err != nil {
		response.Error(c, err, "organization.update_failed")
		return
	}
	org, err := h.store.GetByID(ctx, p.OrganizationID)
	if err != nil {
		response.Error(c, err, "organization.update_failed")
		return
	}
	response.OKMessage(c, "organization.updated_successfully", org)
}

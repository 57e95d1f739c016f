package ideas

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/sanitize"
)

// ideaTeamsConstraint is the teams.idea_id foreign key. Ideas a team
// registered with cannot be deleted.
const ideaTeamsConstraint = "teams_idea_id_fkey"

// Store is the idea persistence the handler needs.
type Store interface {
	ListPublic(ctx context.Context, orgID uuid.UUID) ([]models.Idea, error)
	ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]models.Idea, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	Create(ctx context.Context, idea *models.Idea) error
	Update(ctx context.Context, idea *models.Idea) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler handles idea HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates an ideas handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// SubmitRequest is the body for POST /ideas/submit. IsPublic is a pointer so
// an omitted flag is rejected instead of defaulting to private.
type SubmitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// UpdateRequest is the body for PUT /ideas/:id. Omitted fields are unchanged.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// Public handles GET /ideas/public-ideas.
func (h *Handler) Public(c *gin.Context) {
	p := middleware.MustPrincipal(c)
	list, err := h.store.ListPublic(c.Request.Context(), p.OrganizationID)
	if err != nil {
		response.Error(c, err, "idea.fetch_failed")
		return
	}
	response.OK(c, gin.H{"ideas": list})
}

// Mine handles GET /ideas/my.
func (h *Handler) Mine(c *gin.Context) {
	p := middleware.MustPrincipal(c)
	list, err := h.store.ListBySubmitter(c.Request.Context(), p.UserID)
	if err != nil {
		response.Error(c, err, "idea.fetch_failed")
		return
	}
	response.OK(c, gin.H{"ideas": list})
}

// Submit handles POST /ideas/submit.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	title := sanitize.Plain(req.Title)
	description := sanitize.Rich(req.Description)
	if title == "" || description == "" || req.IsPublic == nil {
		response.Error(c, errs.ErrIdeaValidation, "idea.submit_failed")
		return
	}
	p := middleware.MustPrincipal(c)
	idea := &models.Idea{
		Title:          title,
		Description:    description,
		IsPublic:       *req.IsPublic,
		Submitter:      models.UserRef{ID: p.UserID, Email: p.Email},
		OrganizationID: p.OrganizationID,
	}
	ctx := c.Request.Context()
	if err := h.store.Create(ctx, idea); err != nil {
		response.Error(c, err, "idea.submit_failed")
		return
	}
	stored, err := h.store.GetByID(ctx, idea.ID)
	if err != nil {
		response.Error(c, err, "idea.submit_failed")
		return
	}
	response.Created(c, "idea.submitted_successfully", stored)
}

// Update handles PUT /ideas/:id. Only the submitter may edit.
func (h *Handler) Update(c *gin.Context) {
	idea, ok := h.loadOwned(c, "idea.update_failed")
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Title != nil {
		idea.Title = sanitize.Plain(*req.Title)
	}
	if req.Description != nil {
		idea.Description = sanitize.Rich(*req.Description)
	}
	if req.IsPublic != nil {
		idea.IsPublic = *req.IsPublic
	}
	if idea.Title == "" || idea.Description == "" {
		response.Error(c, errs.ErrIdeaValidation, "idea.update_failed")
		return
	}
	if err := h.store.Update(c.Request.Context(), idea); err != nil {
		response.Error(c, err, "idea.update_failed")
		return
	}
	response.OKMessage(c, "idea.updated_successfully", idea)
}

// Delete handles DELETE /ideas/:id. Only the submitter may delete.
func (h *Handler) Delete(c *gin.Context) {
	idea, ok := h.loadOwned(c, "idea.delete_failed")
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), idea.ID); err != nil {
		if database.IsForeignKeyViolation(err, ideaTeamsConstraint) {
			err = errs.ErrIdeaInUse.Wrap(err)
		}
		response.Error(c, err, "idea.delete_failed")
		return
	}
	h.logger.Info("idea deleted", zap.String("idea_id", idea.ID.String()))
	response.OKMessage(c, "idea.deleted_successfully", gin.H{"id": idea.ID})
}

func (h *Handler) loadOwned(c *gin.Context, fallback string) (*models.Idea, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrInvalidID.WithDetail("invalid idea id"), fallback)
		return nil, false
	}
	idea, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, fallback)
		return nil, false
	}
	p := middleware.MustPrincipal(c)
	if idea.OrganizationID != p.OrganizationID {
		response.Error(c, errs.ErrIdeaNotFound, fallback)
		return nil, false
	}
	if err := policy.CanEditIdea(p, idea); err != nil {
		response.Error(c, err, fallback)
		return nil, false
	}
	return idea, true
}

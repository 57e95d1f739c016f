package announcements

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/audit"
	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/internal/realtime"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/paging"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/sanitize"
)

// Store is the announcement persistence the handler needs.
type Store interface {
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]models.Announcement, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error)
	Create(ctx context.Context, a *models.Announcement) error
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Publisher pushes realtime events to an organization feed.
type Publisher interface {
	Publish(orgID uuid.UUID, event string, payload interface{})
}

// Handler handles announcement HTTP endpoints.
type Handler struct {
	store  Store
	feed   Publisher
	audit  *audit.Logger
	logger *zap.Logger
}

// NewHandler creates an announcements handler. feed and auditLog may be nil.
func NewHandler(store Store, feed Publisher, auditLog *audit.Logger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, feed: feed, audit: auditLog, logger: logger}
}

// CreateRequest is the body for POST /announcements.
type CreateRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// UpdateRequest is the body for PUT /announcements/:id. Empty fields keep the stored value.
type UpdateRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ListResponse is one page of announcements.
type ListResponse struct {
	Announcements []models.Announcement `json:"announcements"`
	TotalPages    int                   `json:"total_pages"`
	Page          int                   `json:"page"`
	Total         int                   `json:"total"`
}

// List handles GET /announcements?page=&limit=.
func (h *Handler) List(c *gin.Context) {
	p := middleware.MustPrincipal(c)
	page := paging.FromQuery(c)
	list, total, err := h.store.List(c.Request.Context(), p.OrganizationID, page.Limit, page.Offset())
	if err != nil {
		response.Error(c, err, "announcement.get_failed")
		return
	}
	response.OK(c, ListResponse{
		Announcements: list,
		TotalPages:    page.TotalPages(total),
		Page:          page.Number,
		Total:         total,
	})
}

// Create handles POST /announcements.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	title := sanitize.Plain(req.Title)
	message := sanitize.Rich(req.Message)
	if title == "" || message == "" {
		response.Error(c, errs.ErrAnnouncementValidation, "announcement.creation_failed")
		return
	}
	p := middleware.MustPrincipal(c)
	a := &models.Announcement{
		Title:          title,
		Message:        message,
		CreatedBy:      models.UserRef{ID: p.UserID, Email: p.Email},
		OrganizationID: p.OrganizationID,
	}
	if err := h.store.Create(c.Request.Context(), a); err != nil {
		response.Error(c, err, "announcement.creation_failed")
		return
	}
	if full, err := h.store.GetByID(c.Request.Context(), a.ID); err == nil {
		a = full
	}
	h.publish(p.OrganizationID, realtime.EventAnnouncementCreated, a)
	response.Created(c, "announcement.created_successfully", a)
}

// Update handles PUT /announcements/:id. Creator or moderator only.
func (h *Handler) Update(c *gin.Context) {
	a, ok := h.loadEditable(c, "announcement.update_failed")
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if t := sanitize.Plain(req.Title); t != "" {
		a.Title = t
	}
	if m := sanitize.Rich(req.Message); m != "" {
		a.Message = m
	}
	if err := h.store.Update(c.Request.Context(), a); err != nil {
		response.Error(c, err, "announcement.update_failed")
		return
	}
	h.publish(a.OrganizationID, realtime.EventAnnouncementUpdated, a)
	response.OKMessage(c, "announcement.updated_successfully", a)
}

// Delete handles DELETE /announcements/:id. Creator or moderator only.
func (h *Handler) Delete(c *gin.Context) {
	a, ok := h.loadEditable(c, "announcement.delete_failed")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.store.Delete(ctx, a.ID); err != nil {
		response.Error(c, err, "announcement.delete_failed")
		return
	}
	p := middleware.MustPrincipal(c)
	h.audit.Record(ctx, p, c.ClientIP(), audit.CategoryAdmin, audit.EventAnnouncementDeleted, a.ID,
		map[string]string{"title": a.Title})
	h.publish(a.OrganizationID, realtime.EventAnnouncementDeleted, gin.H{"id": a.ID})
	response.OKMessage(c, "announcement.deleted_successfully", gin.H{"id": a.ID})
}

func (h *Handler) loadEditable(c *gin.Context, fallback string) (*models.Announcement, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrInvalidID.WithDetail("invalid announcement id"), fallback)
		return nil, false
	}
	a, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, fallback)
		return nil, false
	}
	if err := policy.CanEditAnnouncement(middleware.MustPrincipal(c), a); err != nil {
		response.Error(c, err, fallback)
		return nil, false
	}
	return a, true
}

func (h *Handler) publish(orgID uuid.UUID, event string, payload interface{}) {
	if h.feed != nil {
		h.feed.Publish(orgID, event, payload)
	}
}

package users

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/audit"
	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/notify"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/internal/realtime"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

// SearchLimit caps member-picker results.
const SearchLimit = 10

// Store is the user persistence the handler needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.User, error)
	SearchByPrefix(ctx context.Context, orgID uuid.UUID, prefix string, limit int) ([]models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
}

// Publisher pushes realtime events to an organization feed.
type Publisher interface {
	Publish(orgID uuid.UUID, event string, payload interface{})
}

// Handler handles user directory endpoints.
type Handler struct {
	store  Store
	notify *notify.Notifier
	audit  *audit.Logger
	feed   Publisher
	logger *zap.Logger
}

// NewHandler creates a users handler. notifier, auditLog and feed may be nil.
func NewHandler(store Store, notifier *notify.Notifier, auditLog *audit.Logger, feed Publisher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, notify: notifier, audit: auditLog, feed: feed, logger: logger}
}

// UpdateRoleRequest is the body for PUT /users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// GroupedUsers maps each role to the organization's users holding it.
type GroupedUsers map[models.Role][]models.User

// Group buckets users by role. Every role key is present.
func Group(list []models.User) GroupedUsers {
	g := make(GroupedUsers, len(models.Roles))
	for _, r := range models.Roles {
		g[r] = []models.User{}
	}
	for _, u := range list {
		g[u.Role] = append(g[u.Role], u)
	}
	return g
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	p := middleware.MustPrincipal(c)
	u, err := h.store.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		response.Error(c, err, "user.fetch_failed")
		return
	}
	response.OK(c, u)
}

// List handles GET /users. Users of the caller's organization grouped by role.
func (h *Handler) List(c *gin.Context) {
	p := middleware.MustPrincipal(c)
	list, err := h.store.ListByOrganization(c.Request.Context(), p.OrganizationID)
	if err != nil {
		response.Error(c, err, "user.fetch_failed")
		return
	}
	response.OKMessage(c, "user.fetch_success", gin.H{"grouped_users": Group(list)})
}

// Search handles GET /users/search?q=. Prefix match on name or email.
func (h *Handler) Search(c *gin.Context) {
	p := middleware.MustPrincipal(c)
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.OK(c, []models.User{})
		return
	}
	list, err := h.store.SearchByPrefix(c.Request.Context(), p.OrganizationID, q, SearchLimit)
	if err != nil {
		response.Error(c, err, "user.fetch_failed")
		return
	}
	response.OK(c, list)
}

// UpdateRole handles PUT /users/:id/role.
func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrInvalidID.WithDetail("invalid user id"), "user.role_update_failed")
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		response.Error(c, errs.ErrInvalidRole.WithDetail("unknown role %q", req.Role), "user.role_update_failed")
		return
	}

	ctx := c.Request.Context()
	p := middleware.MustPrincipal(c)
	target, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "user.role_update_failed")
		return
	}
	if err := policy.CanChangeRole(p, target, role); err != nil {
		response.Error(c, err, "user.role_update_failed")
		return
	}
	previous := target.Role
	updated, err := h.store.UpdateRole(ctx, id, role)
	if err != nil {
		response.Error(c, err, "user.role_update_failed")
		return
	}

	h.audit.Record(ctx, p, c.ClientIP(), audit.CategoryAdmin, audit.EventRoleChanged, updated.ID,
		map[string]string{"from": string(previous), "to": string(role)})
	if previous != role {
		h.notify.RoleChanged(ctx, updated)
	}
	if h.feed != nil {
		h.feed.Publish(p.OrganizationID, realtime.EventRoleChanged, gin.H{"user_id": updated.ID, "role": role})
	}
	response.OKMessage(c, "user.role_updated_successfully", updated)
}

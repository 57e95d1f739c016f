package audit

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/paging"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

// Reader queries stored events.
type Reader interface {
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)
}

// Handler serves the organization audit trail.
type Handler struct {
	reader Reader
}

// NewHandler creates an audit handler. A nil reader answers 503.
func NewHandler(reader Reader) *Handler {
	return &Handler{reader: reader}
}

// List handles GET /audit?category=&event_type=&page=&limit=.
func (h *Handler) List(c *gin.Context) {
	if h.reader == nil {
		response.Error(c, errs.ErrUnavailable.WithDetail("audit storage is not configured"), "audit.failed")
		return
	}
	p := middleware.MustPrincipal(c)
	page := paging.FromQuery(c)
	events, err := h.reader.Query(c.Request.Context(), QueryFilter{
		OrganizationID: p.OrganizationID.String(),
		Category:       c.Query("category"),
		EventType:      c.Query("event_type"),
		Limit:          int64(page.Limit),
		Offset:         int64(page.Offset()),
	})
	if err != nil {
		response.Error(c, err, "audit.failed")
		return
	}
	response.OK(c, events)
}

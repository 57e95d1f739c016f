package submissions

import (
	"net/http"

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

// Handler handles submission HTTP endpoints.
type Handler struct {
	svc    *Service
	feed   Publisher
	audit  *audit.Logger
	logger *zap.Logger
}

// NewHandler creates a submissions handler. feed and auditLog may be nil.
func NewHandler(svc *Service, feed Publisher, auditLog *audit.Logger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, feed: feed, audit: auditLog, logger: logger}
}

// UploadURLRequest is the body for POST /submissions/upload-url.
type UploadURLRequest struct {
	TeamID      uuid.UUID `json:"team_id" binding:"required"`
	Kind        string    `json:"kind" binding:"required"`
	ContentType string    `json:"content_type" binding:"required"`
}

// Submit handles POST /hackathons/:id/rounds/:roundId/submissions.
func (h *Handler) Submit(c *gin.Context) {
	hackathonID, roundID, ok := roundPath(c, "submission.failed")
	if !ok {
		return
	}
	var in SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := middleware.MustPrincipal(c)
	sub, err := h.svc.Submit(c.Request.Context(), p, hackathonID, roundID, in)
	if err != nil {
		response.Error(c, err, "submission.failed")
		return
	}
	h.logger.Info("submission stored",
		zap.String("submission_id", sub.ID.String()),
		zap.String("round_id", roundID.String()),
		zap.String("team_id", sub.TeamID.String()))
	response.Created(c, "submission.success", sub)
}

// ListByRound handles GET /hackathons/:id/rounds/:roundId/submissions.
func (h *Handler) ListByRound(c *gin.Context) {
	hackathonID, roundID, ok := roundPath(c, "submission.fetch_failed")
	if !ok {
		return
	}
	list, err := h.svc.ListByRound(c.Request.Context(), middleware.MustPrincipal(c), hackathonID, roundID)
	if err != nil {
		response.Error(c, err, "submission.fetch_failed")
		return
	}
	response.OK(c, gin.H{"submissions": list, "total": len(list)})
}

// ListByTeam handles GET /submissions/teams/:teamId.
func (h *Handler) ListByTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.Error(c, errs.ErrInvalidID.WithDetail("invalid team id"), "submission.fetch_failed")
		return
	}
	list, err := h.svc.ListByTeam(c.Request.Context(), middleware.MustPrincipal(c), teamID)
	if err != nil {
		response.Error(c, err, "submission.fetch_failed")
		return
	}
	response.OK(c, gin.H{"submissions": list, "total": len(list)})
}

// Score handles PUT /submissions/:id/score.
func (h *Handler) Score(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrInvalidID.WithDetail("invalid submission id"), "submission.score_failed")
		return
	}
	var in ScoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	p := middleware.MustPrincipal(c)
	sub, err := h.svc.Score(ctx, p, id, in)
	if err != nil {
		response.Error(c, err, "submission.score_failed")
		return
	}
	h.audit.Record(ctx, p, c.ClientIP(), audit.CategoryTeam, audit.EventSubmissionScored, sub.ID,
		map[string]string{"team_id": sub.TeamID.String(), "round_id": sub.RoundID.String()})
	if h.feed != nil {
		h.feed.Publish(p.OrganizationID, realtime.EventSubmissionScored, gin.H{"id": sub.ID, "team_id": sub.TeamID, "round_id": sub.RoundID})
	}
	response.OKMessage(c, "submission.scored", sub)
}

// UploadURL handles POST /submissions/upload-url.
func (h *Handler) UploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	target, err := h.svc.PresignUpload(c.Request.Context(), middleware.MustPrincipal(c), req.TeamID, req.Kind, req.ContentType)
	if err != nil {
		response.Error(c, err, "submission.upload_failed")
		return
	}
	response.OK(c, target)
}

// Upload handles POST /submissions/upload (multipart: file, team_id, kind).
func (h *Handler) Upload(c *gin.Context) {
	if limit := h.svc.MaxUploadBytes(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)
	}
	teamID, err := uuid.Parse(c.PostForm("team_id"))
	if err != nil {
		response.BadRequest(c, "team_id is required")
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "unreadable file")
		return
	}
	defer f.Close()

	url, err := h.svc.Upload(c.Request.Context(), middleware.MustPrincipal(c), teamID, c.PostForm("kind"),
		fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		response.Error(c, err, "submission.upload_failed")
		return
	}
	response.Created(c, "submission.uploaded", gin.H{"object_url": url})
}

func roundPath(c *gin.Context, fallback string) (uuid.UUID, uuid.UUID, bool) {
	hackathonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrInvalidHackathonID, fallback)
		return uuid.Nil, uuid.Nil, false
	}
	roundID, err := uuid.Parse(c.Param("roundId"))
	if err != nil {
		response.Error(c, errs.ErrInvalidID.WithDetail("invalid round id"), fallback)
		return uuid.Nil, uuid.Nil, false
	}
	return hackathonID, roundID, true
}

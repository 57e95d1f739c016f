package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

// GoogleLoginRequest is the body for POST /auth/google-login.
type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// GoogleCodeRequest is the body for POST /auth/google-code.
type GoogleCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// GoogleLogin handles POST /auth/google-login.
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	session, err := h.svc.LoginWithIDToken(c.Request.Context(), req.Token)
	if err != nil {
		h.logger.Warn("google login failed", zap.Error(err))
		response.Error(c, err, "auth.login_failed")
		return
	}
	response.OKMessage(c, "auth.login_success", session)
}

// GoogleCode handles POST /auth/google-code.
func (h *Handler) GoogleCode(c *gin.Context) {
	var req GoogleCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	session, err := h.svc.LoginWithCode(c.Request.Context(), req.Code)
	if err != nil {
		h.logger.Warn("google code login failed", zap.Error(err))
		response.Error(c, err, "auth.login_failed")
		return
	}
	response.OKMessage(c, "auth.login_success", session)
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/srbmaury-team/Hackathon-Portal/internal/auth"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

const (
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserRole is the key for user role in gin context.
	ContextUserRole = "user_role"
	// ContextOrganizationID is the key for the caller's organization ID.
	ContextOrganizationID = "organization_id"
	// ContextPrincipal is the key for the full models.Principal.
	ContextPrincipal = "principal"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// JWT returns a middleware that validates JWT and sets the caller in context.
func JWT(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, errs.ErrUnauthenticated.WithDetail("missing authorization header"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, errs.ErrUnauthenticated.WithDetail("invalid authorization header"))
			return
		}
		claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, errs.ErrInvalidToken)
			return
		}
		SetPrincipal(c, claims.Principal())
		c.Next()
	}
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(ContextPrincipal, p)
	c.Set(ContextUserID, p.UserID)
	c.Set(ContextUserRole, p.Role)
	c.Set(ContextOrganizationID, p.OrganizationID)
}

// CurrentPrincipal returns the authenticated caller, if any.
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// MustPrincipal returns the caller. It panics outside a JWT-protected route.
func MustPrincipal(c *gin.Context) models.Principal {
	return c.MustGet(ContextPrincipal).(models.Principal)
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			response.Abort(c, errs.ErrUnauthenticated.WithDetail("missing user context"))
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			response.Abort(c, errs.ErrForbiddenRole.WithDetail("role %s may not perform this action", p.Role))
			return
		}
		c.Next()
	}
}

// Require guards a route with the roles the policy table grants for action.
func Require(action policy.Action) gin.HandlerFunc {
	return RequireRole(policy.Roles(action)...)
}

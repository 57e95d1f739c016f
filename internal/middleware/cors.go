package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsHeaders = "Content-Type, Authorization, Accept-Language"
)

// Origins is a parsed CORS allow-list. Empty or "*" allows every origin.
type Origins struct {
	any     bool
	allowed map[string]bool
}

// ParseOrigins reads a comma-separated origin list.
func ParseOrigins(s string) Origins {
	o := Origins{allowed: make(map[string]bool)}
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			o.allowed[v] = true
		}
	}
	o.any = len(o.allowed) == 0 || o.allowed["*"]
	return o
}

// Allows reports whether a browser request from origin may proceed.
// Requests without an Origin header are not cross-site.
func (o Origins) Allows(origin string) bool {
	return origin == "" || o.any || o.allowed[origin]
}

// CORS answers preflights and sets CORS headers for allowed origins.
func CORS(allowedOrigins string) gin.HandlerFunc {
	origins := ParseOrigins(allowedOrigins)
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case origins.any:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && origins.allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		default:
			origin = ""
		}
		if origins.any || origin != "" {
			c.Header("Access-Control-Allow-Methods", corsMethods)
			c.Header("Access-Control-Allow-Headers", corsHeaders)
			c.Header("Access-Control-Max-Age", "86400")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

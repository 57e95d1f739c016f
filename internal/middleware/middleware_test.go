package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/srbmaury-team/Hackathon-Portal/internal/auth"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *auth.JWTService, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Logger(zap.NewNop()))
	r.GET("/protected", JWT(tokens), guard, func(c *gin.Context) {
		p := MustPrincipal(c)
		c.String(http.StatusOK, p.OrganizationID.String())
	})
	return r
}

func tokenFor(t *testing.T, tokens *auth.JWTService, role models.Role) (string, *models.User) {
	t.Helper()
	u := &models.User{ID: uuid.New(), OrganizationID: uuid.New(), Email: "u@acme.io", Role: role}
	tok, err := tokens.Generate(u)
	require.NoError(t, err)
	return tok, u
}

func do(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAndRequire(t *testing.T) {
	tokens := auth.NewJWTService("secret", 1, "portal")
	r := newRouter(tokens, Require(policy.HackathonManage))

	organizer, u := tokenFor(t, tokens, models.RoleOrganizer)
	participant, _ := tokenFor(t, tokens, models.RoleParticipant)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"participant forbidden", participant, http.StatusForbidden},
		{"organizer allowed", organizer, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.token)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := do(r, organizer)
	assert.Equal(t, u.OrganizationID.String(), w.Body.String())
}

func TestForbiddenBodyCarriesCode(t *testing.T) {
	tokens := auth.NewJWTService("secret", 1, "portal")
	r := newRouter(tokens, Require(policy.AuditRead))
	organizer, _ := tokenFor(t, tokens, models.RoleOrganizer)

	w := do(r, organizer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"auth.forbidden_role"`)
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:5173"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginsAllows(t *testing.T) {
	list := ParseOrigins(" http://localhost:5173 , https://portal.acme.io,")
	assert.True(t, list.Allows("https://portal.acme.io"))
	assert.True(t, list.Allows(""))
	assert.False(t, list.Allows("http://evil.test"))

	assert.True(t, ParseOrigins("").Allows("http://evil.test"))
	assert.True(t, ParseOrigins("*").Allows("http://evil.test"))
}

func TestLoggerRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

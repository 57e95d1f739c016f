package organizations

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/testutil"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

type memStore map[uuid.UUID]*models.Organization

func (m memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	if o, ok := m[id]; ok {
		return o, nil
	}
	return nil, errs.ErrOrganizationNotFound
}

func (m memStore) Rename(ctx context.Context, id uuid.UUID, name string) error {
	o, ok := m[id]
	if !ok {
		return errs.ErrOrganizationNotFound
	}
	o.Name = name
	return nil
}

func TestMineAndRename(t *testing.T) {
	org := &models.Organization{ID: uuid.New(), Name: "acme.io", Domain: "acme.io", MemberCount: 3}
	h := NewHandler(memStore{org.ID: org})
	r := testutil.NewRouter()
	g := r.Group("/organizations", testutil.AsPrincipal(testutil.Principal(org.ID, models.RoleAdmin)))
	g.GET("/me", h.Mine)
	g.PUT("/me", h.Rename)

	w := testutil.Do(t, r, http.MethodGet, "/organizations/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Organization
	testutil.Decode(t, w, &got)
	assert.Equal(t, "acme.io", got.Domain)
	assert.Equal(t, 3, got.MemberCount)

	w = testutil.Do(t, r, http.MethodPut, "/organizations/me", gin.H{"name": "  Acme Corp "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme Corp", org.Name)

	w = testutil.Do(t, r, http.MethodPut, "/organizations/me", gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMineMissingOrganization(t *testing.T) {
	h := NewHandler(memStore{})
	r := testutil.NewRouter()
	r.GET("/organizations/me", testutil.AsPrincipal(testutil.Principal(uuid.New(), models.RoleParticipant)), h.Mine)
	w := testutil.Do(t, r, http.MethodGet, "/organizations/me", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package ideas

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/testutil"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

type memStore struct {
	ideas     map[uuid.UUID]*models.Idea
	names     map[uuid.UUID]string
	deleteErr error
}

func (m *memStore) ListPublic(ctx context.Context, orgID uuid.UUID) ([]models.Idea, error) {
	out := []models.Idea{}
	for _, i := range m.ideas {
		if i.OrganizationID == orgID && i.IsPublic {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (m *memStore) ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]models.Idea, error) {
	out := []models.Idea{}
	for _, i := range m.ideas {
		if i.Submitter.ID == userID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	i, ok := m.ideas[id]
	if !ok {
		return nil, errs.ErrIdeaNotFound
	}
	cp := *i
	if name, ok := m.names[cp.Submitter.ID]; ok {
		cp.Submitter.Name = name
	}
	return &cp, nil
}

func (m *memStore) Create(ctx context.Context, idea *models.Idea) error {
	idea.ID = uuid.New()
	cp := *idea
	m.ideas[idea.ID] = &cp
	return nil
}

func (m *memStore) Update(ctx context.Context, idea *models.Idea) error {
	cp := *idea
	m.ideas[idea.ID] = &cp
	return nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.ideas, id)
	return nil
}

func router(store Store, p models.Principal) *gin.Engine {
	h := NewHandler(store, nil)
	r := testutil.NewRouter()
	g := r.Group("/ideas", testutil.AsPrincipal(p))
	g.GET("/public-ideas", h.Public)
	g.GET("/my", h.Mine)
	g.POST("/submit", h.Submit)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"complete", gin.H{"title": "Drone swarm", "description": "Mapping", "is_public": false}, http.StatusCreated},
		{"missing visibility", gin.H{"title": "Drone swarm", "description": "Mapping"}, http.StatusBadRequest},
		{"missing title", gin.H{"description": "Mapping", "is_public": true}, http.StatusBadRequest},
		{"blank description", gin.H{"title": "x", "description": "   ", "is_public": true}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{ideas: map[uuid.UUID]*models.Idea{}}
			p := testutil.Principal(uuid.New(), models.RoleParticipant)
			w := testutil.Do(t, router(store, p), http.MethodPost, "/ideas/submit", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusCreated {
				var idea models.Idea
				testutil.Decode(t, w, &idea)
				assert.Equal(t, p.UserID, idea.Submitter.ID)
				assert.Equal(t, p.OrganizationID, idea.OrganizationID)
				assert.False(t, idea.IsPublic)
			}
		})
	}
}

func TestPublicListIsTenantScoped(t *testing.T) {
	org := uuid.New()
	store := &memStore{ideas: map[uuid.UUID]*models.Idea{}}
	for _, i := range []*models.Idea{
		{ID: uuid.New(), Title: "a", IsPublic: true, OrganizationID: org},
		{ID: uuid.New(), Title: "b", IsPublic: false, OrganizationID: org},
		{ID: uuid.New(), Title: "c", IsPublic: true, OrganizationID: uuid.New()},
	} {
		store.ideas[i.ID] = i
	}
	w := testutil.Do(t, router(store, testutil.Principal(org, models.RoleJudge)), http.MethodGet, "/ideas/public-ideas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Ideas []models.Idea `json:"ideas"`
	}
	testutil.Decode(t, w, &body)
	require.Len(t, body.Ideas, 1)
	assert.Equal(t, "a", body.Ideas[0].Title)
}

func TestOnlySubmitterMayModify(t *testing.T) {
	org := uuid.New()
	owner := testutil.Principal(org, models.RoleParticipant)
	roles := []models.Role{models.RoleParticipant, models.RoleOrganizer, models.RoleAdmin}

	for _, role := range roles {
		for _, method := range []string{http.MethodPut, http.MethodDelete} {
			t.Run(string(role)+" "+method, func(t *testing.T) {
				id := uuid.New()
				store := &memStore{ideas: map[uuid.UUID]*models.Idea{
					id: {ID: id, Title: "t", Description: "d", OrganizationID: org, Submitter: models.UserRef{ID: owner.UserID}},
				}}
				w := testutil.Do(t, router(store, testutil.Principal(org, role)), method, "/ideas/"+id.String(), gin.H{"title": "new"})
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, "idea.unauthorized", testutil.Decode(t, w, nil).Code)
				assert.Equal(t, "t", store.ideas[id].Title)
			})
		}
	}
}

func TestSubmitterUpdatesAndDeletes(t *testing.T) {
	org := uuid.New()
	owner := testutil.Principal(org, models.RoleParticipant)
	id := uuid.New()
	store := &memStore{ideas: map[uuid.UUID]*models.Idea{
		id: {ID: id, Title: "t", Description: "d", OrganizationID: org, Submitter: models.UserRef{ID: owner.UserID}},
	}}
	r := router(store, owner)

	w := testutil.Do(t, r, http.MethodPut, "/ideas/"+id.String(), gin.H{"is_public": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.ideas[id].IsPublic)
	assert.Equal(t, "t", store.ideas[id].Title)

	w = testutil.Do(t, r, http.MethodDelete, "/ideas/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.ideas)
}

func TestMissingIdea(t *testing.T) {
	store := &memStore{ideas: map[uuid.UUID]*models.Idea{}}
	w := testutil.Do(t, router(store, testutil.Principal(uuid.New(), models.RoleAdmin)), http.MethodDelete, "/ideas/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitReturnsStoredSubmitter(t *testing.T) {
	p := testutil.Principal(uuid.New(), models.RoleParticipant)
	store := &memStore{
		ideas: map[uuid.UUID]*models.Idea{},
		names: map[uuid.UUID]string{p.UserID: "Ada Lovelace"},
	}
	w := testutil.Do(t, router(store, p), http.MethodPost, "/ideas/submit",
		gin.H{"title": "Drone swarm", "description": "Mapping", "is_public": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var idea models.Idea
	testutil.Decode(t, w, &idea)
	assert.NotEqual(t, uuid.Nil, idea.ID)
	assert.Equal(t, p.UserID, idea.Submitter.ID)
	assert.Equal(t, "Ada Lovelace", idea.Submitter.Name)
}

func TestDeleteIdeaUsedByTeam(t *testing.T) {
	org := uuid.New()
	owner := testutil.Principal(org, models.RoleParticipant)
	id := uuid.New()
	store := &memStore{
		ideas: map[uuid.UUID]*models.Idea{
			id: {ID: id, Title: "t", Description: "d", OrganizationID: org, Submitter: models.UserRef{ID: owner.UserID}},
		},
		deleteErr: fmt.Errorf("delete idea: %w", &pgconn.PgError{Code: "23503", ConstraintName: "teams_idea_id_fkey"}),
	}

	w := testutil.Do(t, router(store, owner), http.MethodDelete, "/ideas/"+id.String(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "idea.in_use", testutil.Decode(t, w, nil).Code)
	assert.Contains(t, store.ideas, id)
}

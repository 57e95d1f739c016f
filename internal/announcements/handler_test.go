package announcements

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/internal/realtime"
	"github.com/srbmaury-team/Hackathon-Portal/internal/testutil"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

type memStore struct {
	items map[uuid.UUID]*models.Announcement
	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{items: map[uuid.UUID]*models.Announcement{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memStore) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]models.Announcement, int, error) {
	var all []models.Announcement
	for _, a := range m.items {
		if a.OrganizationID == orgID {
			all = append(all, *a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return []models.Announcement{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, errs.ErrAnnouncementNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) Create(ctx context.Context, a *models.Announcement) error {
	m.clock = m.clock.Add(time.Minute)
	a.ID = uuid.New()
	a.CreatedAt, a.UpdatedAt = m.clock, m.clock
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *memStore) Update(ctx context.Context, a *models.Announcement) error {
	if _, ok := m.items[a.ID]; !ok {
		return errs.ErrAnnouncementNotFound
	}
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return errs.ErrAnnouncementNotFound
	}
	delete(m.items, id)
	return nil
}

type feedRecorder struct{ events []string }

func (f *feedRecorder) Publish(orgID uuid.UUID, event string, payload interface{}) {
	f.events = append(f.events, event)
}

func router(h *Handler, p models.Principal) *gin.Engine {
	r := testutil.NewRouter()
	g := r.Group("/announcements", testutil.AsPrincipal(p))
	g.GET("", h.List)
	g.POST("", middleware.Require(policy.AnnouncementWrite), h.Create)
	g.PUT("/:id", middleware.Require(policy.AnnouncementWrite), h.Update)
	g.DELETE("/:id", middleware.Require(policy.AnnouncementWrite), h.Delete)
	return r
}

func seed(store *memStore, org, author uuid.UUID, n int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		a := &models.Announcement{Title: "t", Message: "m", OrganizationID: org, CreatedBy: models.UserRef{ID: author}}
		_ = store.Create(context.Background(), a)
		ids = append(ids, a.ID)
	}
	return ids
}

func TestListPaginatesNewestFirst(t *testing.T) {
	store := newMemStore()
	org := uuid.New()
	ids := seed(store, org, uuid.New(), 12)
	seed(store, uuid.New(), uuid.New(), 3)
	h := NewHandler(store, nil, nil, nil)

	w := testutil.Do(t, router(h, testutil.Principal(org, models.RoleParticipant)), http.MethodGet, "/announcements?page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page ListResponse
	testutil.Decode(t, w, &page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Announcements, 5)
	assert.Equal(t, ids[6], page.Announcements[0].ID)
}

func TestListDefaultsToTenPerPage(t *testing.T) {
	store := newMemStore()
	org := uuid.New()
	seed(store, org, uuid.New(), 11)
	h := NewHandler(store, nil, nil, nil)

	w := testutil.Do(t, router(h, testutil.Principal(org, models.RoleJudge)), http.MethodGet, "/announcements", nil)
	var page ListResponse
	testutil.Decode(t, w, &page)
	assert.Len(t, page.Announcements, 10)
	assert.Equal(t, 2, page.TotalPages)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
		body gin.H
		want int
		code string
	}{
		{"organizer", models.RoleOrganizer, gin.H{"title": "Kickoff", "message": "<b>Hello</b>"}, http.StatusCreated, ""},
		{"participant forbidden", models.RoleParticipant, gin.H{"title": "x", "message": "y"}, http.StatusForbidden, "auth.forbidden_role"},
		{"missing message", models.RoleAdmin, gin.H{"title": "x"}, http.StatusBadRequest, "announcement.validation_failed"},
		{"markup only title", models.RoleAdmin, gin.H{"title": "<script></script>", "message": "y"}, http.StatusBadRequest, "announcement.validation_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			feed := &feedRecorder{}
			h := NewHandler(store, feed, nil, nil)
			w := testutil.Do(t, router(h, testutil.Principal(uuid.New(), tt.role)), http.MethodPost, "/announcements", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			env := testutil.Decode(t, w, nil)
			if tt.code != "" {
				assert.Equal(t, tt.code, env.Code)
				assert.Empty(t, feed.events)
				return
			}
			assert.Equal(t, "announcement.created_successfully", env.Message)
			assert.Equal(t, []string{realtime.EventAnnouncementCreated}, feed.events)
			assert.Len(t, store.items, 1)
		})
	}
}

func TestUpdateOwnership(t *testing.T) {
	org := uuid.New()
	author := testutil.Principal(org, models.RoleOrganizer)
	otherOrganizer := testutil.Principal(org, models.RoleOrganizer)
	admin := testutil.Principal(org, models.RoleAdmin)
	foreignAdmin := testutil.Principal(uuid.New(), models.RoleAdmin)

	tests := []struct {
		name   string
		caller models.Principal
		want   int
	}{
		{"creator", author, http.StatusOK},
		{"admin moderates", admin, http.StatusOK},
		{"other organizer", otherOrganizer, http.StatusForbidden},
		{"other organization", foreignAdmin, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			id := seed(store, org, author.UserID, 1)[0]
			h := NewHandler(store, nil, nil, nil)
			w := testutil.Do(t, router(h, tt.caller), http.MethodPut, "/announcements/"+id.String(), gin.H{"title": "Updated"})
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusOK {
				assert.Equal(t, "Updated", store.items[id].Title)
				assert.Equal(t, "m", store.items[id].Message, "empty fields keep stored values")
			}
		})
	}
}

func TestDeleteRemovesAndPublishes(t *testing.T) {
	store := newMemStore()
	org := uuid.New()
	author := testutil.Principal(org, models.RoleOrganizer)
	id := seed(store, org, author.UserID, 1)[0]
	feed := &feedRecorder{}
	h := NewHandler(store, feed, nil, nil)

	w := testutil.Do(t, router(h, author), http.MethodDelete, "/announcements/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.items)
	assert.Equal(t, []string{realtime.EventAnnouncementDeleted}, feed.events)

	w = testutil.Do(t, router(h, author), http.MethodDelete, "/announcements/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidID(t *testing.T) {
	h := NewHandler(newMemStore(), nil, nil, nil)
	w := testutil.Do(t, router(h, testutil.Principal(uuid.New(), models.RoleAdmin)), http.MethodDelete, "/announcements/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

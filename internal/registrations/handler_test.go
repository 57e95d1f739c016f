package registrations

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/notify"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/internal/realtime"
	"github.com/srbmaury-team/Hackathon-Portal/internal/testutil"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/queue"
)

type emailRecorder struct{ jobs []queue.EmailPayload }

func (r *emailRecorder) EnqueueEmail(ctx context.Context, p queue.EmailPayload) error {
	r.jobs = append(r.jobs, p)
	return nil
}

type feedRecorder struct{ events []string }

func (f *feedRecorder) Publish(orgID uuid.UUID, event string, payload interface{}) {
	f.events = append(f.events, event)
}

func (w *world) router(p models.Principal, n *notify.Notifier, feed Publisher) *gin.Engine {
	h := NewHandler(w.svc, n, nil, feed, nil)
	r := testutil.NewRouter()
	g := r.Group("/register", testutil.AsPrincipal(p))
	g.GET("/my-teams", h.MyTeams)
	g.POST("/:hackathonId/register", h.Register)
	g.GET("/:hackathonId/my", h.MyTeam)
	g.GET("/:hackathonId/teams", middleware.Require(policy.TeamList), h.ListTeams)
	g.PUT("/:hackathonId/teams/:teamId", h.UpdateTeam)
	g.DELETE("/:hackathonId/teams/:teamId", h.Withdraw)
	return r
}

func TestRegisterEndpoint(t *testing.T) {
	w := newWorld()
	emails := &emailRecorder{}
	feed := &feedRecorder{}
	r := w.router(w.caller, notify.New(emails, "https://portal.example", nil), feed)

	rec := testutil.Do(t, r, http.MethodPost, "/register/"+w.hackathon.ID.String()+"/register", gin.H{
		"team_name":  "AI Masters",
		"idea_id":    w.idea.ID,
		"member_ids": []uuid.UUID{w.users[0], w.users[1]},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Team models.TeamDetail `json:"team"`
	}
	env := testutil.Decode(t, rec, &body)
	assert.Equal(t, "registration.success", env.Message)
	assert.Equal(t, "AI Masters", body.Team.Name)
	assert.Len(t, emails.jobs, 3, "one email per member")
	assert.Equal(t, []string{realtime.EventTeamRegistered}, feed.events)
}

func TestRegisterEndpointOversizedTeam(t *testing.T) {
	w := newWorld()
	r := w.router(w.caller, nil, nil)
	rec := testutil.Do(t, r, http.MethodPost, "/register/"+w.hackathon.ID.String()+"/register", gin.H{
		"team_name":  "Too many",
		"idea_id":    w.idea.ID,
		"member_ids": w.users[:5],
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "registration.invalid_team_size", testutil.Decode(t, rec, nil).Code)
}

func TestRegisterEndpointInvalidHackathonID(t *testing.T) {
	w := newWorld()
	rec := testutil.Do(t, w.router(w.caller, nil, nil), http.MethodPost, "/register/xyz/register", gin.H{"team_name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "hackathon.invalid_id", testutil.Decode(t, rec, nil).Code)
}

func TestListTeamsRequiresStaff(t *testing.T) {
	w := newWorld()
	path := "/register/" + w.hackathon.ID.String() + "/teams"

	rec := testutil.Do(t, w.router(w.caller, nil, nil), http.MethodGet, path, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testutil.Do(t, w.router(testutil.Principal(w.org, models.RoleOrganizer), nil, nil), http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Teams []models.TeamDetail `json:"teams"`
		Total int                 `json:"total"`
	}
	testutil.Decode(t, rec, &body)
	assert.Equal(t, 0, body.Total)
}

func TestWithdrawEndpointNotifiesMembers(t *testing.T) {
	w := newWorld()
	team, err := w.register(w.caller, w.users[0])
	require.NoError(t, err)
	emails := &emailRecorder{}
	feed := &feedRecorder{}

	rec := testutil.Do(t, w.router(w.caller, notify.New(emails, "", nil), feed), http.MethodDelete,
		"/register/"+w.hackathon.ID.String()+"/teams/"+team.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, emails.jobs, 2)
	assert.Equal(t, []string{realtime.EventTeamWithdrawn}, feed.events)
}

func TestMyTeamEndpointNotFound(t *testing.T) {
	w := newWorld()
	rec := testutil.Do(t, w.router(w.caller, nil, nil), http.MethodGet, "/register/"+w.hackathon.ID.String()+"/my", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "registration.team_not_found", testutil.Decode(t, rec, nil).Code)
}

func TestMyTeamsEndpoint(t *testing.T) {
	w := newWorld()
	_, err := w.register(w.caller)
	require.NoError(t, err)
	rec := testutil.Do(t, w.router(w.caller, nil, nil), http.MethodGet, "/register/my-teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total int `json:"total"`
	}
	testutil.Decode(t, rec, &body)
	assert.Equal(t, 1, body.Total)
}

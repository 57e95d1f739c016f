package hackathons

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

func ptr[T any](v T) *T { return &v }

func TestPlanRoundsUpdatesOneAndInsertsOne(t *testing.T) {
	hid := uuid.New()
	keep, drop := uuid.New(), uuid.New()

	plan, err := PlanRounds(hid, []uuid.UUID{keep, drop}, []RoundInput{
		{ID: ptr(keep), Name: "Finals (renamed)", IsActive: ptr(false)},
		{Name: "Demo day"},
	})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{drop}, plan.Delete)
	require.Len(t, plan.Update, 1)
	assert.Equal(t, keep, plan.Update[0].ID)
	assert.Equal(t, "Finals (renamed)", plan.Update[0].Name)
	assert.False(t, plan.Update[0].IsActive)
	assert.Equal(t, 0, plan.Update[0].Position)

	require.Len(t, plan.Insert, 1)
	assert.Equal(t, "Demo day", plan.Insert[0].Name)
	assert.True(t, plan.Insert[0].IsActive, "new rounds default to active")
	assert.Equal(t, hid, plan.Insert[0].HackathonID)
	assert.Equal(t, 1, plan.Insert[0].Position)

	plan.Insert[0].ID = uuid.New()
	assert.Equal(t, []uuid.UUID{keep, plan.Insert[0].ID}, plan.IDs())
}

func TestPlanRoundsEmptyIncomingDeletesAll(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	plan, err := PlanRounds(uuid.New(), []uuid.UUID{a, b}, []RoundInput{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, plan.Delete)
	assert.Empty(t, plan.IDs())
}

func TestPlanRoundsKeepsIncomingOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	plan, err := PlanRounds(uuid.New(), []uuid.UUID{a, b}, []RoundInput{{ID: ptr(b), Name: "B"}, {ID: ptr(a), Name: "A"}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b, a}, plan.IDs())
	assert.Empty(t, plan.Delete)
}

func TestPlanRoundsRejects(t *testing.T) {
	known := uuid.New()
	tests := []struct {
		name     string
		incoming []RoundInput
		want     error
	}{
		{"foreign id", []RoundInput{{ID: ptr(uuid.New()), Name: "x"}}, errs.ErrUnknownRound},
		{"duplicate id", []RoundInput{{ID: ptr(known), Name: "x"}, {ID: ptr(known), Name: "y"}}, errs.ErrHackathonValidation},
		{"missing name", []RoundInput{{Name: "  "}}, errs.ErrHackathonValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanRounds(uuid.New(), []uuid.UUID{known}, tt.incoming)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKey(t *testing.T) {
	withDetail := ErrTeamNotFound.WithDetail("team %s", "abc")
	assert.True(t, errors.Is(withDetail, ErrTeamNotFound))
	assert.False(t, errors.Is(withDetail, ErrHackathonNotFound))
	assert.Equal(t, "team abc", withDetail.Detail)
	assert.Empty(t, ErrTeamNotFound.Detail, "sentinel must not be mutated")
}

func TestWrapKeepsCauseAndKind(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("create team: %w", ErrAlreadyRegistered.Wrap(cause))

	assert.True(t, errors.Is(err, ErrAlreadyRegistered))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestKindOfUntyped(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindUnavailable:     http.StatusServiceUnavailable,
		KindInternal:        http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, Status(k))
	}
}

func TestIdeaOwnershipIsClientError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(ErrIdeaUnauthorized.Kind))
	assert.Equal(t, "idea.unauthorized", ErrIdeaUnauthorized.Key)
}

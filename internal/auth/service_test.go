package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

type fakeVerifier struct {
	id  *Identity
	err error
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, token string) (*Identity, error) {
	return f.id, f.err
}

func (f *fakeVerifier) ExchangeCode(ctx context.Context, code string) (*Identity, error) {
	return f.id, f.err
}

type fakeStore struct {
	users []*models.User
	orgs  map[string]uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{orgs: map[string]uuid.UUID{}}
}

func (s *fakeStore) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	for _, u := range s.users {
		if u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (s *fakeStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (s *fakeStore) LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error {
	for _, u := range s.users {
		if u.ID == userID {
			u.GoogleID = googleID
			return nil
		}
	}
	return errs.ErrUserNotFound
}

func (s *fakeStore) CreateInDomain(ctx context.Context, u *models.User, domain string) error {
	orgID, ok := s.orgs[domain]
	u.Role = models.RoleParticipant
	if !ok {
		orgID = uuid.New()
		s.orgs[domain] = orgID
		u.Role = models.RoleAdmin
	}
	u.ID = uuid.New()
	u.OrganizationID = orgID
	s.users = append(s.users, u)
	return nil
}

func newTestService(store Store, v IdentityVerifier) *Service {
	return NewService(store, NewJWTService("secret", 1, "portal"), v, nil)
}

func TestFirstUserOfDomainBecomesAdmin(t *testing.T) {
	store := newFakeStore()
	v := &fakeVerifier{id: &Identity{GoogleID: "g-1", Email: "ada@acme.io", Name: "Ada"}}
	svc := newTestService(store, v)

	first, err := svc.LoginWithIDToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, first.IsNewUser)
	assert.Equal(t, models.RoleAdmin, first.User.Role)
	assert.NotEmpty(t, first.Token)

	v.id = &Identity{GoogleID: "g-2", Email: "bob@acme.io", Name: "Bob"}
	second, err := svc.LoginWithIDToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, models.RoleParticipant, second.User.Role)
	assert.Equal(t, first.User.OrganizationID, second.User.OrganizationID)
}

func TestReturningUserIsMatchedByGoogleID(t *testing.T) {
	store := newFakeStore()
	existing := &models.User{ID: uuid.New(), GoogleID: "g-1", Email: "ada@acme.io", Role: models.RoleJudge, OrganizationID: uuid.New()}
	store.users = append(store.users, existing)

	svc := newTestService(store, &fakeVerifier{id: &Identity{GoogleID: "g-1", Email: "ada@acme.io"}})
	session, err := svc.LoginWithIDToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, session.IsNewUser)
	assert.Equal(t, existing.ID, session.User.ID)
	assert.Equal(t, models.RoleJudge, session.User.Role)
}

func TestExistingEmailIsLinked(t *testing.T) {
	store := newFakeStore()
	existing := &models.User{ID: uuid.New(), Email: "ada@acme.io", Role: models.RoleOrganizer, OrganizationID: uuid.New()}
	store.users = append(store.users, existing)

	svc := newTestService(store, &fakeVerifier{id: &Identity{GoogleID: "g-9", Email: "ada@acme.io"}})
	session, err := svc.LoginWithCode(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, session.User.ID)
	assert.Equal(t, "g-9", existing.GoogleID)
}

func TestVerifierFailureSurfaces(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeVerifier{err: errs.ErrGoogleToken})
	_, err := svc.LoginWithIDToken(context.Background(), "bad")
	assert.True(t, errors.Is(err, errs.ErrGoogleToken))
}

func TestDisabledWithoutVerifier(t *testing.T) {
	svc := NewService(newFakeStore(), NewJWTService("secret", 1, ""), nil, nil)
	_, err := svc.LoginWithIDToken(context.Background(), "tok")
	assert.True(t, errors.Is(err, errs.ErrGoogleDisabled))
}

func TestIdentityDomain(t *testing.T) {
	assert.Equal(t, "acme.io", Identity{Email: "ada@ACME.io"}.Domain())
	assert.Equal(t, "", Identity{Email: "nobody"}.Domain())
}

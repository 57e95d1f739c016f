package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Store is the persistence the sign-in flow needs.
type Store interface {
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error
	CreateInDomain(ctx context.Context, u *models.User, domain string) error
}

// Session is returned to the client after a successful sign-in.
type Session struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	IsNewUser bool         `json:"is_new_user"`
}

// Service signs users in with Google and issues portal tokens.
type Service struct {
	store    Store
	tokens   *JWTService
	verifier IdentityVerifier
	logger   *zap.Logger
}

// NewService creates an auth service. A nil verifier disables Google sign-in.
func NewService(store Store, tokens *JWTService, verifier IdentityVerifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, tokens: tokens, verifier: verifier, logger: logger}
}

// LoginWithIDToken signs in with a Google ID token from the client.
func (s *Service) LoginWithIDToken(ctx context.Context, token string) (*Session, error) {
	if s.verifier == nil {
		return nil, errs.ErrGoogleDisabled
	}
	id, err := s.verifier.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.login(ctx, id)
}

// LoginWithCode signs in with an authorization code from the popup flow.
func (s *Service) LoginWithCode(ctx context.Context, code string) (*Session, error) {
	if s.verifier == nil {
		return nil, errs.ErrGoogleDisabled
	}
	id, err := s.verifier.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.login(ctx, id)
}

func (s *Service) login(ctx context.Context, id *Identity) (*Session, error) {
	u, err := s.store.GetByGoogleID(ctx, id.GoogleID)
	if err == nil {
		return s.issue(u, false)
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup by google id: %w", err)
	}

	u, err = s.store.GetByEmail(ctx, id.Email)
	if err == nil {
		if err := s.store.LinkGoogleID(ctx, u.ID, id.GoogleID); err != nil {
			return nil, fmt.Errorf("link google id: %w", err)
		}
		u.GoogleID = id.GoogleID
		return s.issue(u, false)
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}

	domain := id.Domain()
	if domain == "" {
		return nil, errs.ErrGoogleToken.WithDetail("email has no domain")
	}
	u = &models.User{Name: id.Name, Email: id.Email, GoogleID: id.GoogleID}
	if err := s.store.CreateInDomain(ctx, u, domain); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user onboarded",
		zap.String("user_id", u.ID.String()),
		zap.String("organization_id", u.OrganizationID.String()),
		zap.String("role", string(u.Role)),
	)
	return s.issue(u, true)
}

func (s *Service) issue(u *models.User, isNew bool) (*Session, error) {
	token, err := s.tokens.Generate(u)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, User: u, IsNewUser: isNew}, nil
}

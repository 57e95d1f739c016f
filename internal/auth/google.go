package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Identity is the verified Google account behind a sign-in.
type Identity struct {
	GoogleID string
	Email    string
	Name     string
}

// Domain returns the lowercased email domain used to pick the organization.
func (i Identity) Domain() string {
	at := strings.LastIndex(i.Email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(i.Email[at+1:])
}

// IdentityVerifier turns a client-supplied Google credential into an Identity.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (*Identity, error)
	ExchangeCode(ctx context.Context, code string) (*Identity, error)
}

// GoogleVerifier checks Google ID tokens against the configured client ID
// and exchanges authorization codes from the popup flow.
type GoogleVerifier struct {
	clientID string
	oauth    *oauth2.Config
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier creates a verifier. redirectURL is "postmessage" for the JS popup code flow.
func NewGoogleVerifier(clientID, clientSecret, redirectURL string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

// VerifyIDToken validates signature, audience and expiry of a Google ID token.
func (v *GoogleVerifier) VerifyIDToken(ctx context.Context, token string) (*Identity, error) {
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, errs.ErrGoogleToken.Wrap(err)
	}
	return identityFromPayload(payload)
}

// ExchangeCode redeems an authorization code and verifies the returned ID token.
func (v *GoogleVerifier) ExchangeCode(ctx context.Context, code string) (*Identity, error) {
	if v.oauth.ClientSecret == "" {
		return nil, errs.ErrGoogleDisabled.WithDetail("client secret not configured")
	}
	tok, err := v.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errs.ErrGoogleToken.Wrap(fmt.Errorf("exchange code: %w", err))
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errs.ErrGoogleToken.WithDetail("token response carried no id_token")
	}
	return v.VerifyIDToken(ctx, raw)
}

func identityFromPayload(p *idtoken.Payload) (*Identity, error) {
	email, _ := p.Claims["email"].(string)
	if email == "" {
		return nil, errs.ErrGoogleToken.WithDetail("token has no email claim")
	}
	if verified, ok := p.Claims["email_verified"].(bool); ok && !verified {
		return nil, errs.ErrGoogleEmail
	}
	name, _ := p.Claims["name"].(string)
	if name == "" {
		name = email
		if at := strings.LastIndex(email, "@"); at > 0 {
			name = email[:at]
		}
	}
	return &Identity{GoogleID: p.Subject, Email: strings.ToLower(email), Name: name}, nil
}

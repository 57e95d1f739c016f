// Package errs defines the typed error taxonomy shared by services and handlers.
// Every error carries a Kind (which picks the HTTP status) and a stable
// message key that clients can translate.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindUnavailable
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Key     string
	Message string
	Detail  string
	Err     error
}

// E builds a new error value.
func E(kind Kind, key, message string) *Error {
	return &Error{Kind: kind, Key: key, Message: message}
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Key + ": " + e.Detail
	}
	if e.Err != nil {
		return e.Key + ": " + e.Err.Error()
	}
	return e.Key
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on message key so sentinels survive WithDetail and Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Key == t.Key
}

// WithDetail returns a copy carrying a human-readable detail.
func (e *Error) WithDetail(format string, args ...interface{}) *Error {
	cp := *e
	cp.Detail = fmt.Sprintf(format, args...)
	return &cp
}

// Wrap returns a copy carrying the underlying cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps a kind to an HTTP status code.
func Status(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Request-level errors.
var (
	ErrInvalidRequest  = E(KindValidation, "request.invalid", "invalid request")
	ErrInvalidID       = E(KindValidation, "request.invalid_id", "invalid id")
	ErrUnauthenticated = E(KindUnauthenticated, "auth.unauthorized", "authentication required")
	ErrInvalidToken    = E(KindUnauthenticated, "auth.invalid_token", "invalid or expired token")
	ErrForbiddenRole   = E(KindForbidden, "auth.forbidden_role", "insufficient permissions")
	ErrGoogleToken     = E(KindUnauthenticated, "auth.google_token_invalid", "google credential could not be verified")
	ErrGoogleEmail     = E(KindValidation, "auth.email_unverified", "google account email is not verified")
	ErrGoogleDisabled  = E(KindUnavailable, "auth.google_disabled", "google sign-in is not configured")
	ErrUnavailable     = E(KindUnavailable, "server.unavailable", "service unavailable")
)

// Users and organizations.
var (
	ErrUserNotFound         = E(KindNotFound, "user.not_found", "user not found")
	ErrCannotModifyAdmin    = E(KindForbidden, "user.cannot_modify_admin", "admin roles cannot be changed")
	ErrInvalidRole          = E(KindValidation, "user.invalid_role", "invalid role")
	ErrOrganizationNotFound = E(KindNotFound, "organization.not_found", "organization not found")
)

// Announcements.
var (
	ErrAnnouncementNotFound   = E(KindNotFound, "announcement.not_found", "announcement not found")
	ErrAnnouncementValidation = E(KindValidation, "announcement.validation_failed", "title and message are required")
	ErrAnnouncementForbidden  = E(KindForbidden, "announcement.forbidden", "not allowed to modify this announcement")
)

// Ideas.
var (
	ErrIdeaNotFound     = E(KindNotFound, "idea.not_found", "idea not found")
	ErrIdeaValidation   = E(KindValidation, "idea.validation_failed", "title, description and is_public are required")
	ErrIdeaUnauthorized = E(KindValidation, "idea.unauthorized", "only the submitter can modify this idea")
	ErrIdeaInUse        = E(KindValidation, "idea.in_use", "a registered team still uses this idea")
)

// Hackathons and rounds.
var (
	ErrHackathonNotFound     = E(KindNotFound, "hackathon.not_found", "hackathon not found")
	ErrInvalidHackathonID    = E(KindValidation, "hackathon.invalid_id", "invalid hackathon id")
	ErrHackathonValidation   = E(KindValidation, "hackathon.validation_failed", "invalid hackathon")
	ErrHackathonAccessDenied = E(KindForbidden, "hackathon.access_denied", "hackathon belongs to another organization")
	ErrHackathonInactive     = E(KindForbidden, "hackathon.access_denied_inactive", "hackathon is not active")
	ErrUnknownRound          = E(KindValidation, "hackathon.invalid_round", "round does not belong to this hackathon")
	ErrRoundNotFound         = E(KindNotFound, "round.not_found", "round not found")
)

// Registrations.
var (
	ErrRegistrationValidation   = E(KindValidation, "registration.validation_failed", "team name, idea and members are required")
	ErrRegistrationClosed       = E(KindValidation, "registration.hackathon_closed", "registration for this hackathon is closed")
	ErrInvalidTeamSize          = E(KindValidation, "registration.invalid_team_size", "team size is outside the allowed range")
	ErrAlreadyRegistered        = E(KindValidation, "registration.already_registered", "a member is already registered for this hackathon")
	ErrInvalidMembers           = E(KindValidation, "registration.invalid_members", "every member must belong to your organization")
	ErrTeamNotFound             = E(KindNotFound, "registration.team_not_found", "team not found")
	ErrMismatchedHackathon      = E(KindValidation, "registration.mismatched_hackathon", "team is not registered for this hackathon")
	ErrRegistrationAccessDenied = E(KindForbidden, "registration.access_denied", "not allowed to manage this team")
)

// Submissions.
var (
	ErrSubmissionNotFound   = E(KindNotFound, "submission.not_found", "submission not found")
	ErrSubmissionValidation = E(KindValidation, "submission.validation_failed", "invalid submission")
	ErrRoundClosed          = E(KindValidation, "submission.round_closed", "round is not accepting submissions")
	ErrNotTeamMember        = E(KindForbidden, "submission.not_team_member", "only team members can submit")
	ErrInvalidScore         = E(KindValidation, "submission.invalid_score", "score must be between 0 and 100")
	ErrInvalidUpload        = E(KindValidation, "submission.invalid_file", "file type not allowed")
)

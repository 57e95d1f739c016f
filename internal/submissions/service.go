package submissions

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/sanitize"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/storage"
)

// Store is the submission persistence the service needs.
type Store interface {
	GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error)
	Upsert(ctx context.Context, s *models.Submission) error
	ListByRound(ctx context.Context, roundID uuid.UUID) ([]models.Submission, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	Score(ctx context.Context, id uuid.UUID, score float64, feedback string, by uuid.UUID) error
}

// Hackathons looks up the hackathon a round belongs to.
type Hackathons interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
}

// Teams looks up the submitting team.
type Teams interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

// FileStore signs and receives submission files.
type FileStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	ObjectURL(key string) string
}

// SubmitInput is the body for POST /hackathons/:id/rounds/:roundId/submissions.
type SubmitInput struct {
	TeamID          uuid.UUID `json:"team_id" binding:"required"`
	Notes           string    `json:"notes"`
	PresentationURL string    `json:"presentation_url" binding:"omitempty,url,max=2048"`
	RecordingURL    string    `json:"recording_url" binding:"omitempty,url,max=2048"`
}

// ScoreInput is the body for PUT /submissions/:id/score.
type ScoreInput struct {
	Score    *float64 `json:"score"`
	Feedback string   `json:"feedback"`
}

// UploadTarget is where a client PUTs a file and the URL to submit afterwards.
type UploadTarget struct {
	UploadURL string    `json:"upload_url"`
	ObjectURL string    `json:"object_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service applies membership, round and scoring rules to submissions.
type Service struct {
	store      Store
	hackathons Hackathons
	teams      Teams
	files      FileStore
	maxUpload  int64
}

// NewService creates a submission service. files may be nil when storage is
// not configured; upload operations then report ErrUnavailable.
func NewService(store Store, hackathons Hackathons, teams Teams, files FileStore, maxUploadBytes int64) *Service {
	return &Service{store: store, hackathons: hackathons, teams: teams, files: files, maxUpload: maxUploadBytes}
}

// MaxUploadBytes is the largest accepted multipart file.
func (s *Service) MaxUploadBytes() int64 { return s.maxUpload }

// Submit stores the caller's team submission for a round.
func (s *Service) Submit(ctx context.Context, p models.Principal, hackathonID, roundID uuid.UUID, in SubmitInput) (*models.Submission, error) {
	h, rd, err := s.round(ctx, p, hackathonID, roundID)
	if err != nil {
		return nil, err
	}
	if !rd.IsActive {
		return nil, errs.ErrRoundClosed
	}
	if rd.EndDate != nil && time.Now().After(*rd.EndDate) {
		return nil, errs.ErrRoundClosed.WithDetail("round ended at %s", rd.EndDate.Format(time.RFC3339))
	}
	team, err := s.memberTeam(ctx, p, in.TeamID)
	if err != nil {
		return nil, err
	}
	if team.HackathonID != h.ID {
		return nil, errs.ErrMismatchedHackathon
	}
	if in.PresentationURL == "" && in.RecordingURL == "" {
		return nil, errs.ErrSubmissionValidation.WithDetail("a presentation or recording link is required")
	}

	sub := &models.Submission{
		RoundID:         rd.ID,
		TeamID:          team.ID,
		TeamName:        team.Name,
		OrganizationID:  p.OrganizationID,
		SubmittedBy:     p.UserID,
		Notes:           sanitize.Rich(in.Notes),
		PresentationURL: strings.TrimSpace(in.PresentationURL),
		RecordingURL:    strings.TrimSpace(in.RecordingURL),
	}
	if err := s.store.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListByRound returns a round's submissions for reviewers.
func (s *Service) ListByRound(ctx context.Context, p models.Principal, hackathonID, roundID uuid.UUID) ([]models.Submission, error) {
	if !policy.Allowed(p.Role, policy.SubmissionReview) {
		return nil, errs.ErrForbiddenRole
	}
	if _, _, err := s.round(ctx, p, hackathonID, roundID); err != nil {
		return nil, err
	}
	return s.store.ListByRound(ctx, roundID)
}

// ListByTeam returns a team's submissions to its members and reviewers.
func (s *Service) ListByTeam(ctx context.Context, p models.Principal, teamID uuid.UUID) ([]models.Submission, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.OrganizationID != p.OrganizationID {
		return nil, errs.ErrTeamNotFound
	}
	if !team.HasMember(p.UserID) && !policy.Allowed(p.Role, policy.SubmissionReview) {
		return nil, errs.ErrRegistrationAccessDenied
	}
	return s.store.ListByTeam(ctx, team.ID)
}

// Score records a score between 0 and 100 with optional feedback.
func (s *Service) Score(ctx context.Context, p models.Principal, id uuid.UUID, in ScoreInput) (*models.Submission, error) {
	if !policy.Allowed(p.Role, policy.SubmissionScore) {
		return nil, errs.ErrForbiddenRole
	}
	if in.Score == nil || *in.Score < 0 || *in.Score > 100 {
		return nil, errs.ErrInvalidScore
	}
	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.OrganizationID != p.OrganizationID {
		return nil, errs.ErrSubmissionNotFound
	}
	feedback := sanitize.Rich(in.Feedback)
	if err := s.store.Score(ctx, id, *in.Score, feedback, p.UserID); err != nil {
		return nil, err
	}
	score, by := *in.Score, p.UserID
	sub.Score, sub.Feedback, sub.ScoredBy = &score, feedback, &by
	return sub, nil
}

// PresignUpload returns a direct upload target for a team member.
func (s *Service) PresignUpload(ctx context.Context, p models.Principal, teamID uuid.UUID, kind, contentType string) (*UploadTarget, error) {
	if s.files == nil {
		return nil, errs.ErrUnavailable.WithDetail("file storage is not configured")
	}
	key, err := s.uploadKey(ctx, p, teamID, kind, contentType)
	if err != nil {
		return nil, err
	}
	url, expires, err := s.files.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	return &UploadTarget{UploadURL: url, ObjectURL: s.files.ObjectURL(key), Key: key, ExpiresAt: expires}, nil
}

// Upload streams a file for a team member through the server and returns its URL.
func (s *Service) Upload(ctx context.Context, p models.Principal, teamID uuid.UUID, kind, contentType string, body io.Reader, size int64) (string, error) {
	if s.files == nil {
		return "", errs.ErrUnavailable.WithDetail("file storage is not configured")
	}
	if s.maxUpload > 0 && size > s.maxUpload {
		return "", errs.ErrInvalidUpload.WithDetail("file exceeds %d bytes", s.maxUpload)
	}
	key, err := s.uploadKey(ctx, p, teamID, kind, contentType)
	if err != nil {
		return "", err
	}
	return s.files.Upload(ctx, key, contentType, body, size)
}

func (s *Service) uploadKey(ctx context.Context, p models.Principal, teamID uuid.UUID, kind, contentType string) (string, error) {
	k, ok := storage.ParseKind(kind)
	if !ok {
		return "", errs.ErrInvalidUpload.WithDetail("unknown kind %q", kind)
	}
	ext, ok := storage.Extension(k, contentType)
	if !ok {
		return "", errs.ErrInvalidUpload.WithDetail("%s files cannot be %q", k, contentType)
	}
	team, err := s.memberTeam(ctx, p, teamID)
	if err != nil {
		return "", err
	}
	return storage.SubmissionKey(team.OrganizationID, team.ID, k, ext), nil
}

// round loads a round, checks it belongs to the hackathon and that the caller may view the hackathon.
func (s *Service) round(ctx context.Context, p models.Principal, hackathonID, roundID uuid.UUID) (*models.Hackathon, *models.Round, error) {
	h, err := s.hackathons.GetByID(ctx, hackathonID)
	if err != nil {
		return nil, nil, err
	}
	if err := policy.CanViewHackathon(p, h); err != nil {
		return nil, nil, err
	}
	rd, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, nil, err
	}
	if rd.HackathonID != h.ID {
		return nil, nil, errs.ErrRoundNotFound
	}
	return h, rd, nil
}

func (s *Service) memberTeam(ctx context.Context, p models.Principal, teamID uuid.UUID) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.OrganizationID != p.OrganizationID {
		return nil, errs.ErrTeamNotFound
	}
	if !team.HasMember(p.UserID) {
		return nil, errs.ErrNotTeamMember
	}
	return team, nil
}

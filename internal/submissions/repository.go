package submissions

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Repository handles round lookups and submission persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a submissions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetRound returns a round by id.
func (r *Repository) GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	const q = `SELECT id, hackathon_id, name, description, start_date, end_date, is_active, position, created_at, updated_at
		FROM rounds WHERE id = $1`
	var rd models.Round
	err := r.pool.QueryRow(ctx, q, id).Scan(&rd.ID, &rd.HackathonID, &rd.Name, &rd.Description, &rd.StartDate, &rd.EndDate,
		&rd.IsActive, &rd.Position, &rd.CreatedAt, &rd.UpdatedAt)
	if database.IsNoRows(err) {
		return nil, errs.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

const selectSubmission = `SELECT s.id, s.round_id, s.team_id, t.name, s.organization_id, s.submitted_by, s.notes,
		s.presentation_url, s.recording_url, s.score, s.feedback, s.scored_by, s.created_at, s.updated_at
	FROM submissions s
	JOIN teams t ON t.id = s.team_id`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(&s.ID, &s.RoundID, &s.TeamID, &s.TeamName, &s.OrganizationID, &s.SubmittedBy, &s.Notes,
		&s.PresentationURL, &s.RecordingURL, &s.Score, &s.Feedback, &s.ScoredBy, &s.CreatedAt, &s.UpdatedAt)
	if database.IsNoRows(err) {
		return nil, errs.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) list(ctx context.Context, where string, arg uuid.UUID) ([]models.Submission, error) {
	rows, err := r.pool.Query(ctx, selectSubmission+` WHERE `+where+` ORDER BY s.updated_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// ListByRound returns every submission for a round.
func (r *Repository) ListByRound(ctx context.Context, roundID uuid.UUID) ([]models.Submission, error) {
	return r.list(ctx, `s.round_id = $1`, roundID)
}

// ListByTeam returns a team's submissions across rounds.
func (r *Repository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Submission, error) {
	return r.list(ctx, `s.team_id = $1`, teamID)
}

// GetByID returns one submission.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	return scanSubmission(r.pool.QueryRow(ctx, selectSubmission+` WHERE s.id = $1`, id))
}

// Upsert stores the team's submission for a round, replacing notes and links
// of an earlier one. Scores are kept.
func (r *Repository) Upsert(ctx context.Context, s *models.Submission) error {
	const q = `INSERT INTO submissions (round_id, team_id, organization_id, submitted_by, notes, presentation_url, recording_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (round_id, team_id) DO UPDATE SET
			submitted_by = EXCLUDED.submitted_by,
			notes = EXCLUDED.notes,
			presentation_url = EXCLUDED.presentation_url,
			recording_url = EXCLUDED.recording_url,
			updated_at = NOW()
		RETURNING id, score, feedback, scored_by, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, s.RoundID, s.TeamID, s.OrganizationID, s.SubmittedBy, s.Notes, s.PresentationURL, s.RecordingURL).
		Scan(&s.ID, &s.Score, &s.Feedback, &s.ScoredBy, &s.CreatedAt, &s.UpdatedAt)
}

// Score records a judge's score and feedback.
func (r *Repository) Score(ctx context.Context, id uuid.UUID, score float64, feedback string, by uuid.UUID) error {
	const q = `UPDATE submissions SET score = $2, feedback = $3, scored_by = $4, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, score, feedback, by)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrSubmissionNotFound
	}
	return nil
}

package hackathons

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Repository handles hackathon and round persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a hackathons repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const hackathonColumns = `h.id, h.title, h.description, h.is_active, h.minimum_team_size, h.maximum_team_size,
	h.start_date, h.end_date, h.organization_id, h.created_by, h.created_at, h.updated_at`

const selectDetail = `SELECT ` + hackathonColumns + `,
		u.id, u.name, u.email, o.id, o.name,
		(SELECT COUNT(*) FROM teams t WHERE t.hackathon_id = h.id)
	FROM hackathons h
	JOIN users u ON u.id = h.created_by
	JOIN organizations o ON o.id = h.organization_id`

const roundColumns = `id, hackathon_id, name, description, start_date, end_date, is_active, position, created_at, updated_at`

func scanDetail(row pgx.Row) (*models.HackathonDetail, error) {
	var d models.HackathonDetail
	h := &d.Hackathon
	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.IsActive, &h.MinimumTeamSize, &h.MaximumTeamSize,
		&h.StartDate, &h.EndDate, &h.OrganizationID, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt,
		&d.Creator.ID, &d.Creator.Name, &d.Creator.Email, &d.Organization.ID, &d.Organization.Name,
		&d.TeamCount)
	if database.IsNoRows(err) {
		return nil, errs.ErrHackathonNotFound
	}
	if err != nil {
		return nil, err
	}
	d.Rounds = []models.Round{}
	d.RoundIDs = []uuid.UUID{}
	return &d, nil
}

// List returns an organization's hackathons, newest first, with rounds
// populated. Inactive hackathons are skipped unless includeInactive is set.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID, includeInactive bool) ([]models.HackathonDetail, error) {
	q := selectDetail + ` WHERE h.organization_id = $1 AND (h.is_active OR $2) ORDER BY h.created_at DESC`
	rows, err := r.pool.Query(ctx, q, orgID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.HackathonDetail{}
	index := map[uuid.UUID]int{}
	ids := []uuid.UUID{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		index[d.ID] = len(list)
		ids = append(ids, d.ID)
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	rounds, err := r.rounds(ctx, r.pool, `hackathon_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, rd := range rounds {
		d := &list[index[rd.HackathonID]]
		d.Rounds = append(d.Rounds, rd)
		d.RoundIDs = append(d.RoundIDs, rd.ID)
	}
	return list, nil
}

// GetDetail returns a hackathon with creator, organization, rounds and team count.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.HackathonDetail, error) {
	d, err := scanDetail(r.pool.QueryRow(ctx, selectDetail+` WHERE h.id = $1`, id))
	if err != nil {
		return nil, err
	}
	rounds, err := r.rounds(ctx, r.pool, `hackathon_id = $1`, id)
	if err != nil {
		return nil, err
	}
	for _, rd := range rounds {
		d.Rounds = append(d.Rounds, rd)
		d.RoundIDs = append(d.RoundIDs, rd.ID)
	}
	return d, nil
}

// GetByID returns the bare hackathon with its ordered round ids.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	q := `SELECT ` + hackathonColumns + `,
			COALESCE((SELECT array_agg(rd.id ORDER BY rd.position) FROM rounds rd WHERE rd.hackathon_id = h.id), '{}')
		FROM hackathons h WHERE h.id = $1`
	var h models.Hackathon
	err := r.pool.QueryRow(ctx, q, id).Scan(&h.ID, &h.Title, &h.Description, &h.IsActive, &h.MinimumTeamSize, &h.MaximumTeamSize,
		&h.StartDate, &h.EndDate, &h.OrganizationID, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt, &h.RoundIDs)
	if database.IsNoRows(err) {
		return nil, errs.ErrHackathonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *Repository) rounds(ctx context.Context, db database.DBTX, where string, arg interface{}) ([]models.Round, error) {
	rows, err := db.Query(ctx, `SELECT `+roundColumns+` FROM rounds WHERE `+where+` ORDER BY position, created_at`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Round
	for rows.Next() {
		var rd models.Round
		if err := rows.Scan(&rd.ID, &rd.HackathonID, &rd.Name, &rd.Description, &rd.StartDate, &rd.EndDate,
			&rd.IsActive, &rd.Position, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}

// Create inserts h and its rounds in one transaction.
func (r *Repository) Create(ctx context.Context, h *models.Hackathon, rounds []models.Round) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `INSERT INTO hackathons (title, description, is_active, minimum_team_size, maximum_team_size,
				start_date, end_date, organization_id, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, q, h.Title, h.Description, h.IsActive, h.MinimumTeamSize, h.MaximumTeamSize,
			h.StartDate, h.EndDate, h.OrganizationID, h.CreatedBy).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return fmt.Errorf("insert hackathon: %w", err)
		}
		h.RoundIDs = make([]uuid.UUID, 0, len(rounds))
		for i := range rounds {
			rounds[i].HackathonID = h.ID
			if err := insertRound(ctx, tx, &rounds[i]); err != nil {
				return err
			}
			h.RoundIDs = append(h.RoundIDs, rounds[i].ID)
		}
		return nil
	})
}

// Update stores h's fields and, when plan is non-nil, applies the round
// reconciliation in the same transaction.
func (r *Repository) Update(ctx context.Context, h *models.Hackathon, plan *RoundPlan) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `UPDATE hackathons SET title = $2, description = $3, is_active = $4,
				minimum_team_size = $5, maximum_team_size = $6, start_date = $7, end_date = $8, updated_at = NOW()
			WHERE id = $1 RETURNING updated_at`
		err := tx.QueryRow(ctx, q, h.ID, h.Title, h.Description, h.IsActive, h.MinimumTeamSize, h.MaximumTeamSize,
			h.StartDate, h.EndDate).Scan(&h.UpdatedAt)
		if database.IsNoRows(err) {
			return errs.ErrHackathonNotFound
		}
		if err != nil {
			return fmt.Errorf("update hackathon: %w", err)
		}
		if plan == nil {
			return nil
		}
		if len(plan.Delete) > 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM rounds WHERE hackathon_id = $1 AND id = ANY($2)`, h.ID, plan.Delete); err != nil {
				return fmt.Errorf("delete rounds: %w", err)
			}
		}
		for _, rd := range plan.Update {
			const uq = `UPDATE rounds SET name = $3, description = $4, start_date = $5, end_date = $6,
					is_active = $7, position = $8, updated_at = NOW()
				WHERE id = $1 AND hackathon_id = $2`
			tag, err := tx.Exec(ctx, uq, rd.ID, h.ID, rd.Name, rd.Description, rd.StartDate, rd.EndDate, rd.IsActive, rd.Position)
			if err != nil {
				return fmt.Errorf("update round: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return errs.ErrUnknownRound.WithDetail("round %s", rd.ID)
			}
		}
		for i := range plan.Insert {
			if err := insertRound(ctx, tx, &plan.Insert[i]); err != nil {
				return err
			}
		}
		h.RoundIDs = plan.IDs()
		return nil
	})
}

func insertRound(ctx context.Context, tx pgx.Tx, rd *models.Round) error {
	const q = `INSERT INTO rounds (hackathon_id, name, description, start_date, end_date, is_active, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, q, rd.HackathonID, rd.Name, rd.Description, rd.StartDate, rd.EndDate, rd.IsActive, rd.Position).
		Scan(&rd.ID, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// Delete removes a hackathon. Rounds, teams, memberships and submissions cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hackathons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrHackathonNotFound
	}
	return nil
}

package ideas

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Repository handles idea persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an ideas repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectIdea = `SELECT i.id, i.title, i.description, i.is_public, i.organization_id, i.created_at, i.updated_at,
		u.id, u.name, u.email
	FROM ideas i
	JOIN users u ON u.id = i.submitter_id`

func scanIdea(row pgx.Row) (*models.Idea, error) {
	var i models.Idea
	err := row.Scan(&i.ID, &i.Title, &i.Description, &i.IsPublic, &i.OrganizationID, &i.CreatedAt, &i.UpdatedAt,
		&i.Submitter.ID, &i.Submitter.Name, &i.Submitter.Email)
	if database.IsNoRows(err) {
		return nil, errs.ErrIdeaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *Repository) list(ctx context.Context, where string, arg uuid.UUID) ([]models.Idea, error) {
	rows, err := r.pool.Query(ctx, selectIdea+` WHERE `+where+` ORDER BY i.created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Idea{}
	for rows.Next() {
		i, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *i)
	}
	return list, rows.Err()
}

// ListPublic returns the public ideas of an organization.
func (r *Repository) ListPublic(ctx context.Context, orgID uuid.UUID) ([]models.Idea, error) {
	return r.list(ctx, `i.organization_id = $1 AND i.is_public`, orgID)
}

// ListBySubmitter returns every idea a user submitted.
func (r *Repository) ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]models.Idea, error) {
	return r.list(ctx, `i.submitter_id = $1`, userID)
}

// GetByID returns an idea with its submitter.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	return scanIdea(r.pool.QueryRow(ctx, selectIdea+` WHERE i.id = $1`, id))
}

// Create inserts idea and fills its generated fields.
func (r *Repository) Create(ctx context.Context, idea *models.Idea) error {
	const q = `INSERT INTO ideas (title, description, is_public, submitter_id, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, idea.Title, idea.Description, idea.IsPublic, idea.Submitter.ID, idea.OrganizationID).
		Scan(&idea.ID, &idea.CreatedAt, &idea.UpdatedAt)
}

// Update stores title, description and visibility.
func (r *Repository) Update(ctx context.Context, idea *models.Idea) error {
	const q = `UPDATE ideas SET title = $2, description = $3, is_public = $4, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, idea.ID, idea.Title, idea.Description, idea.IsPublic).Scan(&idea.UpdatedAt)
	if database.IsNoRows(err) {
		return errs.ErrIdeaNotFound
	}
	return err
}

// Delete removes an idea.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ideas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrIdeaNotFound
	}
	return nil
}

package organizations

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Repository handles organization reads.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns an organization with its member count.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	const q = `SELECT o.id, o.name, o.domain, o.admin_id,
			(SELECT COUNT(*) FROM users u WHERE u.organization_id = o.id),
			o.created_at, o.updated_at
		FROM organizations o WHERE o.id = $1`
	var org models.Organization
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&org.ID, &org.Name, &org.Domain, &org.AdminID, &org.MemberCount, &org.CreatedAt, &org.UpdatedAt)
	if database.IsNoRows(err) {
		return nil, errs.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Rename changes the display name.
func (r *Repository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	const q = `UPDATE organizations SET name = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrOrganizationNotFound
	}
	return nil
}

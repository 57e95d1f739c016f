package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Repository handles the organization user directory.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, name, email, role, expertise, organization_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Expertise, &u.OrganizationID, &u.CreatedAt, &u.UpdatedAt)
	if database.IsNoRows(err) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	defer rows.Close()
	list := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, q, id))
}

// ListByOrganization returns every user of an organization ordered by name.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 ORDER BY lower(name), email`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// SearchByPrefix matches the start of the name or email, case-insensitively.
func (r *Repository) SearchByPrefix(ctx context.Context, orgID uuid.UUID, prefix string, limit int) ([]models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users
		WHERE organization_id = $1
		  AND (lower(name) LIKE $2 OR lower(email) LIKE $2)
		ORDER BY lower(name), email
		LIMIT $3`
	pattern := escapeLike(strings.ToLower(prefix)) + "%"
	rows, err := r.pool.Query(ctx, q, orgID, pattern, limit)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// UpdateRole sets a user's role and returns the updated row.
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	q := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, id, role))
}

// CountInOrganization counts how many of ids belong to orgID.
func (r *Repository) CountInOrganization(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM users WHERE organization_id = $1 AND id = ANY($2)`
	var n int
	err := r.pool.QueryRow(ctx, q, orgID, ids).Scan(&n)
	return n, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

package auth

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

// Repository handles the user and organization writes behind sign-in.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, name, email, role, COALESCE(google_id, ''), expertise, organization_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.GoogleID, &u.Expertise, &u.OrganizationID, &u.CreatedAt, &u.UpdatedAt)
	if database.IsNoRows(err) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGoogleID returns the user linked to a Google account.
func (r *Repository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(r.pool.QueryRow(ctx, q, googleID))
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, q, email))
}

// LinkGoogleID attaches a Google account to an existing user.
func (r *Repository) LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error {
	const q = `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, userID, googleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

// CreateInDomain inserts u into the organization owning domain. When no such
// organization exists it is created and u becomes its admin. u.ID, u.Role
// and u.OrganizationID are filled in.
func (r *Repository) CreateInDomain(ctx context.Context, u *models.User, domain string) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertOrg = `INSERT INTO organizations (name, domain)
			VALUES ($1, $1)
			ON CONFLICT (domain) DO NOTHING
			RETURNING id`
		created := true
		err := tx.QueryRow(ctx, insertOrg, domain).Scan(&u.OrganizationID)
		if database.IsNoRows(err) {
			created = false
			const q = `SELECT id FROM organizations WHERE domain = $1`
			err = tx.QueryRow(ctx, q, domain).Scan(&u.OrganizationID)
		}
		if err != nil {
			return fmt.Errorf("resolve organization: %w", err)
		}

		u.Role = models.RoleParticipant
		if created {
			u.Role = models.RoleAdmin
		}
		const insertUser = `INSERT INTO users (name, email, role, google_id, organization_id)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5)
			RETURNING id, expertise, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertUser, u.Name, u.Email, u.Role, u.GoogleID, u.OrganizationID).
			Scan(&u.ID, &u.Expertise, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		if created {
			const setAdmin = `UPDATE organizations SET admin_id = $2, updated_at = NOW() WHERE id = $1`
			if _, err := tx.Exec(ctx, setAdmin, u.OrganizationID, u.ID); err != nil {
				return fmt.Errorf("set organization admin: %w", err)
			}
		}
		return nil
	})
}

package announcements

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Repository handles announcement persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an announcements repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectAnnouncement = `SELECT a.id, a.title, a.message, a.organization_id, a.created_at, a.updated_at,
		u.id, u.name, u.email
	FROM announcements a
	JOIN users u ON u.id = a.created_by`

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	var a models.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Message, &a.OrganizationID, &a.CreatedAt, &a.UpdatedAt,
		&a.CreatedBy.ID, &a.CreatedBy.Name, &a.CreatedBy.Email)
	if database.IsNoRows(err) {
		return nil, errs.ErrAnnouncementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns one page of an organization's announcements, newest first, and the total count.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]models.Announcement, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM announcements WHERE organization_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := selectAnnouncement + ` WHERE a.organization_id = $1 ORDER BY a.created_at DESC, a.id LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, orgID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list := []models.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *a)
	}
	return list, total, rows.Err()
}

// GetByID returns an announcement with its creator.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	return scanAnnouncement(r.pool.QueryRow(ctx, selectAnnouncement+` WHERE a.id = $1`, id))
}

// Create inserts a and fills its generated fields.
func (r *Repository) Create(ctx context.Context, a *models.Announcement) error {
	const q = `INSERT INTO announcements (title, message, created_by, organization_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.Title, a.Message, a.CreatedBy.ID, a.OrganizationID).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update stores title and message.
func (r *Repository) Update(ctx context.Context, a *models.Announcement) error {
	const q = `UPDATE announcements SET title = $2, message = $3, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, a.ID, a.Title, a.Message).Scan(&a.UpdatedAt)
	if database.IsNoRows(err) {
		return errs.ErrAnnouncementNotFound
	}
	return err
}

// Delete removes an announcement.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrAnnouncementNotFound
	}
	return nil
}

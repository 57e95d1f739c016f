package registrations

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

const memberConstraint = "team_members_hackathon_user_key"

// Repository handles team and membership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the team and one membership row per member in one
// transaction. A concurrent registration that claimed a member first makes
// the membership insert fail, which is reported as ErrAlreadyRegistered.
func (r *Repository) Create(ctx context.Context, t *models.Team) error {
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `INSERT INTO teams (name, idea_id, leader_id, hackathon_id, organization_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, q, t.Name, t.IdeaID, t.LeaderID, t.HackathonID, t.OrganizationID).
			Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("insert team: %w", err)
		}
		return insertMembers(ctx, tx, t)
	})
	return mapConflict(err)
}

// Update stores name, idea and leader and replaces the member set.
func (r *Repository) Update(ctx context.Context, t *models.Team) error {
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `UPDATE teams SET name = $2, idea_id = $3, leader_id = $4, updated_at = NOW()
			WHERE id = $1 RETURNING updated_at`
		err := tx.QueryRow(ctx, q, t.ID, t.Name, t.IdeaID, t.LeaderID).Scan(&t.UpdatedAt)
		if database.IsNoRows(err) {
			return errs.ErrTeamNotFound
		}
		if err != nil {
			return fmt.Errorf("update team: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, t.ID); err != nil {
			return fmt.Errorf("clear members: %w", err)
		}
		return insertMembers(ctx, tx, t)
	})
	return mapConflict(err)
}

func insertMembers(ctx context.Context, tx pgx.Tx, t *models.Team) error {
	rows := make([][]interface{}, 0, len(t.MemberIDs))
	for i, id := range t.MemberIDs {
		rows = append(rows, []interface{}{t.HackathonID, id, t.ID, i})
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{"team_members"},
		[]string{"hackathon_id", "user_id", "team_id", "position"}, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("insert members: %w", err)
	}
	return nil
}

func mapConflict(err error) error {
	if database.IsUniqueViolation(err, memberConstraint) {
		return errs.ErrAlreadyRegistered.Wrap(err)
	}
	return err
}

// Delete removes a team. Memberships and submissions cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrTeamNotFound
	}
	return nil
}

// GetByID returns the bare team with member ids in registration order.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	const q = `SELECT t.id, t.name, t.idea_id, t.leader_id, t.hackathon_id, t.organization_id, t.created_at, t.updated_at,
			COALESCE((SELECT array_agg(m.user_id ORDER BY m.position) FROM team_members m WHERE m.team_id = t.id), '{}')
		FROM teams t WHERE t.id = $1`
	var t models.Team
	err := r.pool.QueryRow(ctx, q, id).Scan(&t.ID, &t.Name, &t.IdeaID, &t.LeaderID, &t.HackathonID, &t.OrganizationID,
		&t.CreatedAt, &t.UpdatedAt, &t.MemberIDs)
	if database.IsNoRows(err) {
		return nil, errs.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindConflicts returns which of userIDs already belong to a team of the
// hackathon other than excludeTeam. Pass uuid.Nil to check every team.
func (r *Repository) FindConflicts(ctx context.Context, hackathonID uuid.UUID, userIDs []uuid.UUID, excludeTeam uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT user_id FROM team_members
		WHERE hackathon_id = $1 AND user_id = ANY($2) AND team_id <> $3`
	rows, err := r.pool.Query(ctx, q, hackathonID, userIDs, excludeTeam)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

const selectDetail = `SELECT t.id, t.name, t.created_at, t.updated_at,
		i.id, i.title, i.description,
		l.id, l.name, l.email,
		h.id, h.title,
		o.id, o.name
	FROM teams t
	JOIN ideas i ON i.id = t.idea_id
	JOIN users l ON l.id = t.leader_id
	JOIN hackathons h ON h.id = t.hackathon_id
	JOIN organizations o ON o.id = t.organization_id`

func scanDetail(row pgx.Row) (*models.TeamDetail, error) {
	var d models.TeamDetail
	err := row.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt,
		&d.Idea.ID, &d.Idea.Title, &d.Idea.Description,
		&d.Leader.ID, &d.Leader.Name, &d.Leader.Email,
		&d.Hackathon.ID, &d.Hackathon.Title,
		&d.Organization.ID, &d.Organization.Name)
	if database.IsNoRows(err) {
		return nil, errs.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	d.Members = []models.UserRef{}
	return &d, nil
}

// GetDetail returns a team with its idea, leader, members, hackathon and organization.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.TeamDetail, error) {
	list, err := r.details(ctx, `t.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errs.ErrTeamNotFound
	}
	return &list[0], nil
}

// ListByHackathon returns every team of a hackathon, newest first.
func (r *Repository) ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.TeamDetail, error) {
	return r.details(ctx, `t.hackathon_id = $1`, hackathonID)
}

// ListByMember returns every team userID belongs to, newest first.
func (r *Repository) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.TeamDetail, error) {
	return r.details(ctx, `t.id IN (SELECT team_id FROM team_members WHERE user_id = $1)`, userID)
}

// FindByMember returns userID's team for a hackathon.
func (r *Repository) FindByMember(ctx context.Context, hackathonID, userID uuid.UUID) (*models.TeamDetail, error) {
	const where = `t.id = (SELECT team_id FROM team_members WHERE hackathon_id = $1 AND user_id = $2)`
	list, err := r.details(ctx, where, hackathonID, userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errs.ErrTeamNotFound
	}
	return &list[0], nil
}

func (r *Repository) details(ctx context.Context, where string, args ...interface{}) ([]models.TeamDetail, error) {
	rows, err := r.pool.Query(ctx, selectDetail+` WHERE `+where+` ORDER BY t.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.TeamDetail{}
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

	const mq = `SELECT m.team_id, u.id, u.name, u.email
		FROM team_members m JOIN users u ON u.id = m.user_id
		WHERE m.team_id = ANY($1)
		ORDER BY m.team_id, m.position`
	mrows, err := r.pool.Query(ctx, mq, ids)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var teamID uuid.UUID
		var u models.UserRef
		if err := mrows.Scan(&teamID, &u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		d := &list[index[teamID]]
		d.Members = append(d.Members, u)
	}
	return list, mrows.Err()
}

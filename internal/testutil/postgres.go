package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
)

// Postgres connects to TEST_DATABASE_URL and applies the migrations. The
// test is skipped when the variable is unset.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	pool, err := database.NewPostgresPool(ctx, database.PoolConfig{DSN: dsn, MaxConns: 4}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool, logger))
	return pool
}

// Tenant is a seeded organization. Users[0] created the idea and the hackathon.
type Tenant struct {
	OrgID       uuid.UUID
	Users       []uuid.UUID
	IdeaID      uuid.UUID
	HackathonID uuid.UUID
}

// SeedTenant inserts a fresh organization with users, one idea and one
// active hackathon allowing teams of one to five.
func SeedTenant(t *testing.T, pool *pgxpool.Pool, users int) Tenant {
	t.Helper()
	require.Positive(t, users)
	ctx := context.Background()
	tag := uuid.NewString()

	var tn Tenant
	err := pool.QueryRow(ctx, `INSERT INTO organizations (name, domain) VALUES ($1, $2) RETURNING id`,
		"Org "+tag, tag+".example.test").Scan(&tn.OrgID)
	require.NoError(t, err)

	for i := 0; i < users; i++ {
		var id uuid.UUID
		err := pool.QueryRow(ctx, `INSERT INTO users (name, email, organization_id) VALUES ($1, $2, $3) RETURNING id`,
			fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@%s.example.test", i, tag), tn.OrgID).Scan(&id)
		require.NoError(t, err)
		tn.Users = append(tn.Users, id)
	}

	err = pool.QueryRow(ctx, `INSERT INTO ideas (title, description, is_public, submitter_id, organization_id)
		VALUES ('Drone swarm', 'Mapping', TRUE, $1, $2) RETURNING id`, tn.Users[0], tn.OrgID).Scan(&tn.IdeaID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx, `INSERT INTO hackathons (title, description, is_active, organization_id, created_by)
		VALUES ('Spring hack', 'Build things', TRUE, $1, $2) RETURNING id`, tn.OrgID, tn.Users[0]).Scan(&tn.HackathonID)
	require.NoError(t, err)
	return tn
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestQueue connects to TEST_REDIS_ADDR and isolates keys by flushing the
// selected database. Tests are skipped when the variable is unset.
func newTestQueue(t *testing.T) (*Queue, *redis.Client) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background())
		_ = client.Close()
	})
	return NewQueue(client, nil), client
}

func TestEnqueueDequeueEmail(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	payload := EmailPayload{EmailType: EmailTeamRegistered, OrganizationID: uuid.New(), RecipientEmail: "ada@acme.io", Subject: "hi"}
	require.NoError(t, q.EnqueueEmail(ctx, payload))

	job, err := q.Dequeue(ctx, QueueEmails)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, JobTypeEmail, job.Type)
	assert.Equal(t, QueueEmails, job.Queue)

	var got EmailPayload
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, payload, got)
}

func TestRetryMovesToDLQAfterMaxRetries(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, q.EnqueueEmail(ctx, EmailPayload{RecipientEmail: "x@y.z"}))

	job, err := q.Dequeue(ctx, QueueEmails)
	require.NoError(t, err)

	for i := 1; i < MaxRetries; i++ {
		require.NoError(t, q.Retry(ctx, job, errors.New("smtp down")))
		job, err = q.Dequeue(ctx, QueueEmails)
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, i, job.Attempt)
	}
	require.NoError(t, q.Retry(ctx, job, errors.New("smtp down")))

	n, err := client.LLen(ctx, QueueDLQ).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = client.LLen(ctx, QueueEmails).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

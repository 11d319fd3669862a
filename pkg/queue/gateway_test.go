package queue_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminderd/pkg/queue"
	"reminderd/pkg/schedule"
)

const testToken = "test-secret"

func newGateway(t *testing.T, repo queue.Repository, now time.Time) *queue.Gateway {
	t.Helper()

	gw, err := queue.NewGateway(repo, queue.Config{
		Name:        "task-reminders",
		CallbackURL: "http://localhost:8080/send-notification",
		Timezone:    "Europe/Berlin",
		MaxRetries:  3,
	}, testToken)
	require.NoError(t, err)
	queue.SetGatewayNow(gw, func() time.Time { return now })
	return gw
}

func TestNewGateway(t *testing.T) {
	t.Parallel()

	t.Run("nil repository", func(t *testing.T) {
		t.Parallel()
		_, err := queue.NewGateway(nil, queue.Config{Timezone: "UTC"}, testToken)
		assert.ErrorIs(t, err, queue.ErrRepositoryNil)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		t.Parallel()
		_, err := queue.NewGateway(queue.NewMemoryStorage(), queue.Config{Timezone: "Mars/Olympus"}, testToken)
		assert.ErrorIs(t, err, queue.ErrInvalidTimezone)
	})
}

func TestGateway_Schedule(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

	t.Run("builds deterministic task", func(t *testing.T) {
		t.Parallel()
		repo := queue.NewMemoryStorage()
		gw := newGateway(t, repo, now)

		task, err := gw.Schedule(context.Background(), queue.ScheduleRequest{
			Message: "Pay rent",
			DueDate: "2030-01-01T10:00:00", // 09:00 UTC in winter Berlin
		})
		require.NoError(t, err)

		assert.Equal(t, "pay-rent-3600", task.ID)
		assert.Equal(t, "task-reminders", task.Queue)
		assert.Equal(t, "http://localhost:8080/send-notification", task.Target)
		assert.Equal(t, "Bearer "+testToken, task.Headers["Authorization"])
		assert.Equal(t, queue.TaskStatusPending, task.Status)
		assert.Equal(t, now.Add(time.Hour), task.ScheduledAt)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(task.Payload, &payload))
		assert.Equal(t, "Pay rent", payload["message"])
	})

	t.Run("html message carried in payload", func(t *testing.T) {
		t.Parallel()
		gw := newGateway(t, queue.NewMemoryStorage(), now)

		task, err := gw.Schedule(context.Background(), queue.ScheduleRequest{
			Message:     "Pay rent",
			HTMLMessage: "<b>Pay rent</b>",
			DueDate:     "2030-01-01T10:00:00",
		})
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(task.Payload, &payload))
		assert.Equal(t, "<b>Pay rent</b>", payload["htmlMessage"])
	})

	t.Run("missing message", func(t *testing.T) {
		t.Parallel()
		gw := newGateway(t, queue.NewMemoryStorage(), now)

		_, err := gw.Schedule(context.Background(), queue.ScheduleRequest{DueDate: "2030-01-01T10:00:00"})
		assert.ErrorIs(t, err, queue.ErrMessageRequired)
	})

	t.Run("missing due date", func(t *testing.T) {
		t.Parallel()
		gw := newGateway(t, queue.NewMemoryStorage(), now)

		_, err := gw.Schedule(context.Background(), queue.ScheduleRequest{Message: "Pay rent"})
		assert.ErrorIs(t, err, queue.ErrDueDateRequired)
	})

	t.Run("past due date", func(t *testing.T) {
		t.Parallel()
		gw := newGateway(t, queue.NewMemoryStorage(), now)

		_, err := gw.Schedule(context.Background(), queue.ScheduleRequest{
			Message: "Pay rent",
			DueDate: "2000-01-01T00:00:00",
		})
		assert.ErrorIs(t, err, schedule.ErrDueDateInPast)
	})

	t.Run("duplicate submission collides", func(t *testing.T) {
		t.Parallel()
		gw := newGateway(t, queue.NewMemoryStorage(), now)
		req := queue.ScheduleRequest{Message: "Pay rent", DueDate: "2030-01-01T10:00:00"}

		_, err := gw.Schedule(context.Background(), req)
		require.NoError(t, err)

		_, err = gw.Schedule(context.Background(), req)
		assert.ErrorIs(t, err, queue.ErrTaskExists)
	})
}

func TestGateway_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	gw := newGateway(t, queue.NewMemoryStorage(), now)

	created, err := gw.Schedule(context.Background(), queue.ScheduleRequest{
		Message: "Water plants",
		DueDate: "2030-01-01T12:00:00",
	})
	require.NoError(t, err)

	fetched, err := gw.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.JSONEq(t, string(created.Payload), string(fetched.Payload))
	assert.True(t, created.ScheduledAt.Equal(fetched.ScheduledAt))
}

func TestGateway_ReadPathsRedactCredential(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	gw := newGateway(t, queue.NewMemoryStorage(), now)

	created, err := gw.Schedule(context.Background(), queue.ScheduleRequest{
		Message: "Water plants",
		DueDate: "2030-01-01T12:00:00",
	})
	require.NoError(t, err)

	fetched, err := gw.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotContains(t, fetched.Headers, "Authorization")

	tasks, err := gw.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.NotContains(t, tasks[0].Headers, "Authorization")
}

func TestGateway_List(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	gw := newGateway(t, queue.NewMemoryStorage(), now)

	tasks, err := gw.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	for _, msg := range []string{"first", "second", "third"} {
		_, err := gw.Schedule(context.Background(), queue.ScheduleRequest{
			Message: msg,
			DueDate: "2030-01-01T12:00:00",
		})
		require.NoError(t, err)
	}

	tasks, err = gw.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestGateway_Remove(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	gw := newGateway(t, queue.NewMemoryStorage(), now)

	created, err := gw.Schedule(context.Background(), queue.ScheduleRequest{
		Message: "Pay rent",
		DueDate: "2030-01-01T10:00:00",
	})
	require.NoError(t, err)

	require.NoError(t, gw.Remove(context.Background(), created.ID))

	// A removed task is gone for reads and repeated deletes alike.
	_, err = gw.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, queue.ErrTaskNotFound)
	assert.ErrorIs(t, gw.Remove(context.Background(), created.ID), queue.ErrTaskNotFound)
	assert.ErrorIs(t, gw.Remove(context.Background(), "unknown-id"), queue.ErrTaskNotFound)
}

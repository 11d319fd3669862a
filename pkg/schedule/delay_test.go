package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminderd/pkg/schedule"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func TestDelaySeconds(t *testing.T) {
	t.Parallel()

	loc := berlin(t)
	// 2030-01-01 09:00 Berlin is UTC+1 (standard time).
	now := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate string
		want    int64
		wantErr error
	}{
		{"one hour ahead", "2030-01-01T10:00:00", 3600, nil},
		{"exactly now is accepted", "2030-01-01T09:00:00", 0, nil},
		{"minute precision layout", "2030-01-01T10:30", 5400, nil},
		{"date only resolves to midnight", "2030-01-02", 54000, nil},
		{"past date", "2000-01-01T00:00:00", 0, schedule.ErrDueDateInPast},
		{"one second in the past", "2030-01-01T08:59:59", 0, schedule.ErrDueDateInPast},
		{"garbage input", "next tuesday", 0, schedule.ErrInvalidDueDate},
		{"empty input", "", 0, schedule.ErrInvalidDueDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := schedule.DelaySeconds(tt.dueDate, loc, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDelaySeconds_DSTTransition(t *testing.T) {
	t.Parallel()

	loc := berlin(t)
	// Submission happens in winter (UTC+1); the target date falls after the
	// spring transition, when Berlin is UTC+2. The zone rules of the target
	// date must apply.
	now := time.Date(2030, 3, 30, 12, 0, 0, 0, time.UTC)

	got, err := schedule.DelaySeconds("2030-04-01T12:00:00", loc, now)
	require.NoError(t, err)

	want := time.Date(2030, 4, 1, 12, 0, 0, 0, loc).Sub(now) / time.Second
	assert.Equal(t, int64(want), got)
	// 12:00 CEST is 10:00 UTC, two days minus two hours ahead of now.
	assert.Equal(t, int64(46*3600), got)
}

func TestDelaySeconds_NilLocationMeansUTC(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := schedule.DelaySeconds("2030-06-01T00:01:00", nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(60), got)
}

func TestDelaySeconds_RoundsToNearestSecond(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 6, 1, 0, 0, 0, 600_000_000, time.UTC)
	got, err := schedule.DelaySeconds("2030-06-01T00:01:00", time.UTC, now)
	require.NoError(t, err)
	// 59.4s rounds down to 59.
	assert.Equal(t, int64(59), got)
}

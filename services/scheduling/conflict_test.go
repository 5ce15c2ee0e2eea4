package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"slotbook/models"
)

func TestHasConflict(t *testing.T) {
	ctx := context.Background()

	t.Run("Scheduled Record Holds The Slot", func(t *testing.T) {
		repo := newFakeRepo(rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled))

		taken, err := HasConflict(ctx, repo, "2024-06-01", "09:00", "")
		assert.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("Free Slot Has No Conflict", func(t *testing.T) {
		repo := newFakeRepo(rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled))

		for _, probe := range []struct{ date, timeOfDay string }{
			{"2024-06-01", "09:30"}, // same day, other slot
			{"2024-06-02", "09:00"}, // other day, same slot
		} {
			taken, err := HasConflict(ctx, repo, probe.date, probe.timeOfDay, "")
			assert.NoError(t, err)
			assert.False(t, taken)
		}
	})

	t.Run("Canceled And Completed Records Do Not Conflict", func(t *testing.T) {
		repo := newFakeRepo(
			rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusCanceled),
			rec("r2", "bob", "haircut", "2024-06-01", "09:30", models.StatusCompleted),
		)

		for _, timeOfDay := range []string{"09:00", "09:30"} {
			taken, err := HasConflict(ctx, repo, "2024-06-01", timeOfDay, "")
			assert.NoError(t, err)
			assert.False(t, taken)
		}
	})

	t.Run("Excluded Record Does Not Conflict With Itself", func(t *testing.T) {
		repo := newFakeRepo(rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled))

		taken, err := HasConflict(ctx, repo, "2024-06-01", "09:00", "r1")
		assert.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("Exclusion Only Skips The Named Record", func(t *testing.T) {
		repo := newFakeRepo(
			rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled),
			rec("r2", "bob", "haircut", "2024-06-01", "09:00", models.StatusScheduled),
		)

		taken, err := HasConflict(ctx, repo, "2024-06-01", "09:00", "r1")
		assert.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("Timestamp Date Is Checked Against Its Day", func(t *testing.T) {
		repo := newFakeRepo(rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled))

		taken, err := HasConflict(ctx, repo, "2024-06-01T18:45:00Z", "09:00", "")
		assert.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("Malformed Date Is An Error", func(t *testing.T) {
		repo := newFakeRepo()

		_, err := HasConflict(ctx, repo, "june first", "09:00", "")
		assert.Error(t, err)
	})
}

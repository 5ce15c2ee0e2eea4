package scheduling

import (
	"context"
	"fmt"

	"slotbook/models"
)

// HasConflict reports whether an active (scheduled) booking already occupies
// the exact (date, timeOfDay) slot. excludeRecordID, when non-empty, lets an
// edit-in-place of an existing record skip its own slot. The date is
// normalized to its calendar day before the lookup.
func HasConflict(ctx context.Context, repo BookingRepository, date, timeOfDay, excludeRecordID string) (bool, error) {
	day, err := NormalizeDate(date)
	if err != nil {
		return false, err
	}

	records, err := repo.GetByDateAndTime(ctx, day, timeOfDay)
	if err != nil {
		return false, fmt.Errorf("conflict lookup for %s %s failed: %w", day, timeOfDay, err)
	}

	for i := range records {
		if records[i].Status != models.StatusScheduled {
			continue
		}
		if excludeRecordID != "" && records[i].ID == excludeRecordID {
			continue
		}
		return true, nil
	}
	return false, nil
}

// findConflicts checks every candidate slot independently, one lookup per
// slot, and returns the times already held by an active booking. All checks
// complete before any write begins so a multi-slot request is rejected as a
// whole when any one slot conflicts.
func findConflicts(ctx context.Context, repo BookingRepository, date string, timesOfDay []string, excludeRecordID string) ([]string, error) {
	var conflicting []string
	for _, timeOfDay := range timesOfDay {
		taken, err := HasConflict(ctx, repo, date, timeOfDay, excludeRecordID)
		if err != nil {
			return nil, err
		}
		if taken {
			conflicting = append(conflicting, timeOfDay)
		}
	}
	return conflicting, nil
}

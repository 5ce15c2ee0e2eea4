package scheduling

import (
	"fmt"
	"time"

	"slotbook/models"
)

const dateLayout = "2006-01-02"

// timeToMinutes converts an "HH:MM" time of day to minutes from midnight.
func timeToMinutes(timeOfDay string) (int, error) {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", timeOfDay, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// minutesToTime converts minutes from midnight back to "HH:MM".
func minutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeDate reduces the supported date encodings to the canonical
// "YYYY-MM-DD" day key. A plain day string passes through; an RFC3339
// timestamp is truncated to its calendar day. Dates compare as calendar days,
// never as instants, so two encodings of the same day always normalize to one
// key.
func NormalizeDate(date string) (string, error) {
	if t, err := time.Parse(dateLayout, date); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format(dateLayout), nil
	}
	return "", fmt.Errorf("invalid date %q: expected %q or RFC3339", date, dateLayout)
}

// GenerateSlots derives the ordered list of bookable times of day from the
// schedule config: every IntervalMinutes from opening to closing, inclusive
// of both ends. An opening time after the closing time yields no slots; that
// is a configuration error the caller surfaces, not this function.
func GenerateSlots(cfg models.ScheduleConfig) []string {
	open, err := timeToMinutes(cfg.OpeningTime)
	if err != nil {
		return []string{}
	}
	closing, err := timeToMinutes(cfg.ClosingTime)
	if err != nil {
		return []string{}
	}
	if cfg.IntervalMinutes <= 0 || open > closing {
		return []string{}
	}

	slots := make([]string, 0, (closing-open)/cfg.IntervalMinutes+1)
	for cur := open; cur <= closing; cur += cfg.IntervalMinutes {
		slots = append(slots, minutesToTime(cur))
	}
	return slots
}

// ValidateConfig rejects a schedule config that would produce an unusable
// grid: unparseable times, a non-positive interval, or an opening time after
// the closing time.
func ValidateConfig(cfg models.ScheduleConfig) error {
	open, err := timeToMinutes(cfg.OpeningTime)
	if err != nil {
		return NewValidationError("invalid opening time %q", cfg.OpeningTime)
	}
	closing, err := timeToMinutes(cfg.ClosingTime)
	if err != nil {
		return NewValidationError("invalid closing time %q", cfg.ClosingTime)
	}
	if cfg.IntervalMinutes <= 0 {
		return NewValidationError("interval must be positive, got %d", cfg.IntervalMinutes)
	}
	if open > closing {
		return NewValidationError("opening time %s is after closing time %s", cfg.OpeningTime, cfg.ClosingTime)
	}
	return nil
}

// slotIndex builds a lookup set over the generated catalog, used to validate
// that requested times lie on the grid.
func slotIndex(cfg models.ScheduleConfig) map[string]struct{} {
	catalog := GenerateSlots(cfg)
	index := make(map[string]struct{}, len(catalog))
	for _, s := range catalog {
		index[s] = struct{}{}
	}
	return index
}

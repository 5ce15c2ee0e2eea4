package models

// Defaults used when no schedule config has been stored yet.
const (
	DefaultOpeningTime     = "06:00"
	DefaultClosingTime     = "23:00"
	DefaultIntervalMinutes = 30
)

// ScheduleConfig describes the business schedule the slot grid is derived
// from. The scheduling core treats it as an immutable value per operation.
type ScheduleConfig struct {
	OpeningTime     string `bson:"openingTime" json:"openingTime"`         // "HH:MM"
	ClosingTime     string `bson:"closingTime" json:"closingTime"`         // "HH:MM"
	IntervalMinutes int    `bson:"intervalMinutes" json:"intervalMinutes"` // typically 15/30/60/90/120
}

// DefaultScheduleConfig returns the documented fallback schedule.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		OpeningTime:     DefaultOpeningTime,
		ClosingTime:     DefaultClosingTime,
		IntervalMinutes: DefaultIntervalMinutes,
	}
}

// SlotAvailability is one cell of the rendered booking grid for a day.
type SlotAvailability struct {
	TimeOfDay string `json:"timeOfDay"`
	Booked    bool   `json:"booked"`
	RecordID  string `json:"recordId,omitempty"` // set when an active booking holds the slot
}

package scheduling

import (
	"context"

	"slotbook/models"
)

// BookingRepository is the narrow record-store surface the scheduling core
// consumes: key and range lookups plus single-record writes. Persistence
// representation (id scheme, date encoding) is the store's concern.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.BookingRecord, error)
	GetByDate(ctx context.Context, date string) ([]models.BookingRecord, error)
	GetByDateRange(ctx context.Context, from, to string) ([]models.BookingRecord, error)
	GetByDateAndTime(ctx context.Context, date, timeOfDay string) ([]models.BookingRecord, error)
	GetByClient(ctx context.Context, clientID string) ([]models.BookingRecord, error)
	Create(ctx context.Context, rec *models.BookingRecord) (string, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// ScheduleSource supplies the current schedule config. Implementations fall
// back to the documented defaults (06:00, 23:00, 30) when nothing is stored.
type ScheduleSource interface {
	GetConfig(ctx context.Context) (models.ScheduleConfig, error)
}

// BookingEngine is the write-and-read orchestration surface over the
// scheduling core that handlers consume.
type BookingEngine interface {
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*CreateResult, error)
	GetDayAppointments(ctx context.Context, date string) ([]models.LogicalAppointment, error)
	GetRangeAppointments(ctx context.Context, from, to string) ([]models.LogicalAppointment, error)
	GetClientAppointments(ctx context.Context, clientID string) ([]models.LogicalAppointment, error)
	GetAppointmentByRecord(ctx context.Context, recordID string) (*models.LogicalAppointment, error)
	SetGroupStatus(ctx context.Context, recordIDs []string, status string) (*GroupResult, error)
	SetGroupPaymentMethod(ctx context.Context, recordIDs []string, method string) (*GroupResult, error)
	DeleteGroup(ctx context.Context, recordIDs []string) (*GroupResult, error)
	UpdateRecord(ctx context.Context, recordID string, upd RecordUpdate) (*models.BookingRecord, error)
	GetDayGrid(ctx context.Context, date string) ([]models.SlotAvailability, error)
}

// CreateAppointmentRequest carries one new visit: one entry in TimesOfDay per
// slot the visit occupies. A single-slot appointment is a list of length one.
type CreateAppointmentRequest struct {
	ClientID   string   `json:"clientId"`
	ServiceID  string   `json:"serviceId"`
	Date       string   `json:"date"`
	TimesOfDay []string `json:"timesOfDay"`
	Notes      string   `json:"notes,omitempty"`
}

// RecordUpdate names the editable fields of a single record. Nil fields are
// left untouched. Date and TimeOfDay move the record to another slot and are
// conflict-checked with the record itself excluded.
type RecordUpdate struct {
	Date      *string `json:"date,omitempty"`
	TimeOfDay *string `json:"timeOfDay,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// CreateResult reports the outcome of a multi-slot create. Writes are
// independent; records already written when a later write fails are not
// rolled back, so FailedSlots can be non-empty alongside RecordIDs.
type CreateResult struct {
	RecordIDs   []string      `json:"recordIds"`
	FailedSlots []SlotFailure `json:"failedSlots,omitempty"`
}

// Partial reports whether some but not all member writes succeeded.
func (r *CreateResult) Partial() bool {
	return len(r.RecordIDs) > 0 && len(r.FailedSlots) > 0
}

// SlotFailure is one slot whose record write failed.
type SlotFailure struct {
	TimeOfDay string `json:"timeOfDay"`
	Error     string `json:"error"`
}

// GroupResult reports a group-wide mutation per member record. A 3-of-4
// success is a valid terminal outcome the caller must surface; failed ids are
// not retried automatically and remain independently retryable.
type GroupResult struct {
	Succeeded []string        `json:"succeeded"`
	Failed    []RecordFailure `json:"failed,omitempty"`
}

// Partial reports whether some but not all member mutations succeeded.
func (r *GroupResult) Partial() bool {
	return len(r.Succeeded) > 0 && len(r.Failed) > 0
}

// RecordFailure is one member record whose mutation failed.
type RecordFailure struct {
	RecordID string `json:"recordId"`
	Error    string `json:"error"`
}

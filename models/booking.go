package models

import "time"

// Booking statuses. All six transitions between them are allowed; status is a
// user-driven toggle, not a workflow.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCanceled
}

// BookingRecord is the atomic persisted unit: one reserved slot on one day.
// A visit spanning several consecutive slots is stored as several records
// sharing client, service and date; see LogicalAppointment.
type BookingRecord struct {
	ID            string    `bson:"id" json:"id"`                                           // UUID assigned by the store on insert
	ClientID      string    `bson:"clientId" json:"clientId"`                               // opaque reference to the owning client
	ServiceID     string    `bson:"serviceId" json:"serviceId"`                             // opaque reference to the booked service
	Date          string    `bson:"date" json:"date"`                                       // calendar day in "YYYY-MM-DD" format, never an instant
	TimeOfDay     string    `bson:"timeOfDay" json:"timeOfDay"`                             // "HH:MM", aligned to the configured slot grid
	Status        string    `bson:"status" json:"status"`                                   // scheduled | completed | canceled
	PaymentMethod string    `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"` // meaningful once status is completed
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the record still occupies its slot. Only scheduled
// records count for conflict detection.
func (b *BookingRecord) IsActive() bool {
	return b.Status == StatusScheduled
}

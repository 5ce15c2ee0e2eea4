package models

// LogicalAppointment is a derived view: the group of time-contiguous
// BookingRecords that the user perceives as one visit. It is recomputed on
// every read and never persisted.
//
// Status and PaymentMethod are taken from the first record of the group. The
// grouping key is the identity of the visit (client, service, date,
// contiguity), not its state, so after a partial group mutation the members
// can legitimately carry different statuses. The group is a display and
// bulk-action convenience, not a consistency boundary.
type LogicalAppointment struct {
	RecordIDs     []string `json:"recordIds"`  // ascending by time of day
	ClientID      string   `json:"clientId"`
	ServiceID     string   `json:"serviceId"`
	Date          string   `json:"date"`
	TimesOfDay    []string `json:"timesOfDay"` // each exactly one interval after the previous
	Status        string   `json:"status"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

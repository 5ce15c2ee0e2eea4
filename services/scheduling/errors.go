package scheduling

import (
	"fmt"
	"strings"
)

// ValidationError reports input rejected before any I/O: an empty slot list,
// a slot off the catalog grid, a malformed date or time. Fully recoverable by
// correcting the input.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{
		Code:    "validationError",
		Message: fmt.Sprintf(format, args...),
	}
}

// ConflictError reports requested slots already held by an active booking.
// Slots lists the offending times so the caller can let the user pick others.
type ConflictError struct {
	Code  string
	Date  string
	Slots []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: slot(s) already booked on %s: %s", e.Code, e.Date, strings.Join(e.Slots, ", "))
}

func NewConflictError(date string, slots []string) error {
	return &ConflictError{
		Code:  "conflictError",
		Date:  date,
		Slots: slots,
	}
}

// NotFoundError reports an operation on a record id that no longer exists.
type NotFoundError struct {
	Code     string
	RecordID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: booking record %s not found", e.Code, e.RecordID)
}

func NewNotFoundError(recordID string) error {
	return &NotFoundError{
		Code:     "notFound",
		RecordID: recordID,
	}
}

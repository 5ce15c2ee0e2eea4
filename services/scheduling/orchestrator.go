package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"slotbook/models"
)

// DefaultBookingEngine orchestrates multi-slot creates and group-wide
// mutations over the record store. The engine holds no state of its own;
// every operation reads the schedule config fresh and passes it down into the
// pure slot/grouping functions.
type DefaultBookingEngine struct {
	Repo     BookingRepository
	Schedule ScheduleSource
	Logger   *zap.Logger
}

// NewBookingEngine wires the engine with its collaborators.
func NewBookingEngine(repo BookingRepository, schedule ScheduleSource, logger *zap.Logger) *DefaultBookingEngine {
	return &DefaultBookingEngine{Repo: repo, Schedule: schedule, Logger: logger}
}

// CreateAppointment books one visit spanning one or more slots. All candidate
// slots are validated against the catalog and conflict-checked before any
// write begins, so a request with any conflicting slot writes nothing. The
// member writes themselves are independent: a failure mid-sequence does not
// roll back records already written, and the result reports both sides.
func (e *DefaultBookingEngine) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*CreateResult, error) {
	if req.ClientID == "" || req.ServiceID == "" {
		return nil, NewValidationError("clientId and serviceId are required")
	}
	if len(req.TimesOfDay) == 0 {
		return nil, NewValidationError("at least one time of day is required")
	}

	day, err := NormalizeDate(req.Date)
	if err != nil {
		return nil, NewValidationError("%v", err)
	}

	cfg, err := e.Schedule.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule config: %w", err)
	}

	times := make([]string, len(req.TimesOfDay))
	copy(times, req.TimesOfDay)
	sort.Strings(times)

	grid := slotIndex(cfg)
	seen := make(map[string]struct{}, len(times))
	for _, timeOfDay := range times {
		if _, ok := grid[timeOfDay]; !ok {
			return nil, NewValidationError("time %s is not on the slot grid", timeOfDay)
		}
		if _, dup := seen[timeOfDay]; dup {
			return nil, NewValidationError("time %s requested twice", timeOfDay)
		}
		seen[timeOfDay] = struct{}{}
	}

	conflicting, err := findConflicts(ctx, e.Repo, day, times, "")
	if err != nil {
		return nil, err
	}
	if len(conflicting) > 0 {
		return nil, NewConflictError(day, conflicting)
	}

	result := &CreateResult{}
	now := time.Now()
	for _, timeOfDay := range times {
		rec := &models.BookingRecord{
			ClientID:  req.ClientID,
			ServiceID: req.ServiceID,
			Date:      day,
			TimeOfDay: timeOfDay,
			Status:    models.StatusScheduled,
			Notes:     req.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		id, err := e.Repo.Create(ctx, rec)
		if err != nil {
			e.Logger.Error("create booking record failed",
				zap.String("date", day), zap.String("timeOfDay", timeOfDay), zap.Error(err))
			result.FailedSlots = append(result.FailedSlots, SlotFailure{TimeOfDay: timeOfDay, Error: err.Error()})
			continue
		}
		result.RecordIDs = append(result.RecordIDs, id)
	}

	e.Logger.Info("appointment created",
		zap.String("clientId", req.ClientID),
		zap.String("date", day),
		zap.Int("slots", len(result.RecordIDs)),
		zap.Int("failed", len(result.FailedSlots)))
	return result, nil
}

// GetDayAppointments returns the logical appointments for one calendar day.
func (e *DefaultBookingEngine) GetDayAppointments(ctx context.Context, date string) ([]models.LogicalAppointment, error) {
	day, err := NormalizeDate(date)
	if err != nil {
		return nil, NewValidationError("%v", err)
	}
	cfg, err := e.Schedule.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule config: %w", err)
	}
	records, err := e.Repo.GetByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for %s: %w", day, err)
	}
	return GroupConsecutive(records, cfg.IntervalMinutes), nil
}

// GetRangeAppointments returns the logical appointments over an inclusive
// date range.
func (e *DefaultBookingEngine) GetRangeAppointments(ctx context.Context, from, to string) ([]models.LogicalAppointment, error) {
	fromDay, err := NormalizeDate(from)
	if err != nil {
		return nil, NewValidationError("%v", err)
	}
	toDay, err := NormalizeDate(to)
	if err != nil {
		return nil, NewValidationError("%v", err)
	}
	if fromDay > toDay {
		return nil, NewValidationError("range start %s is after range end %s", fromDay, toDay)
	}
	cfg, err := e.Schedule.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule config: %w", err)
	}
	records, err := e.Repo.GetByDateRange(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for %s..%s: %w", fromDay, toDay, err)
	}
	return GroupConsecutive(records, cfg.IntervalMinutes), nil
}

// GetClientAppointments returns a client's history as logical appointments.
func (e *DefaultBookingEngine) GetClientAppointments(ctx context.Context, clientID string) ([]models.LogicalAppointment, error) {
	if clientID == "" {
		return nil, NewValidationError("clientId is required")
	}
	cfg, err := e.Schedule.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule config: %w", err)
	}
	records, err := e.Repo.GetByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for client %s: %w", clientID, err)
	}
	return GroupConsecutive(records, cfg.IntervalMinutes), nil
}

// GetAppointmentByRecord reconstructs the full logical appointment one known
// record belongs to by expanding its neighborhood on that day.
func (e *DefaultBookingEngine) GetAppointmentByRecord(ctx context.Context, recordID string) (*models.LogicalAppointment, error) {
	rec, err := e.Repo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError(recordID)
		}
		return nil, fmt.Errorf("failed to fetch record %s: %w", recordID, err)
	}
	cfg, err := e.Schedule.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule config: %w", err)
	}
	dayRecords, err := e.Repo.GetByDate(ctx, rec.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for %s: %w", rec.Date, err)
	}
	appt := GroupAround(dayRecords, recordID, cfg.IntervalMinutes)
	if appt == nil {
		return nil, NewNotFoundError(recordID)
	}
	return appt, nil
}

// applyToGroup fans one mutation out to every member record independently and
// in order, collecting a per-id outcome. There is no compensating rollback; a
// partial success is a terminal outcome and the failed subset stays
// retryable.
func (e *DefaultBookingEngine) applyToGroup(recordIDs []string, mutate func(id string) error) *GroupResult {
	result := &GroupResult{}
	for _, id := range recordIDs {
		if err := mutate(id); err != nil {
			e.Logger.Warn("group mutation failed for record", zap.String("recordId", id), zap.Error(err))
			result.Failed = append(result.Failed, RecordFailure{RecordID: id, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

// SetGroupStatus moves every member record to the given status. Any of the
// six transitions between scheduled, completed and canceled is allowed.
func (e *DefaultBookingEngine) SetGroupStatus(ctx context.Context, recordIDs []string, status string) (*GroupResult, error) {
	if len(recordIDs) == 0 {
		return nil, NewValidationError("at least one record id is required")
	}
	if !models.ValidStatus(status) {
		return nil, NewValidationError("unknown status %q", status)
	}
	result := e.applyToGroup(recordIDs, func(id string) error {
		return e.Repo.UpdateFields(ctx, id, map[string]any{
			"status":    status,
			"updatedAt": time.Now(),
		})
	})
	e.Logger.Info("group status change",
		zap.String("status", status),
		zap.Int("succeeded", len(result.Succeeded)), zap.Int("failed", len(result.Failed)))
	return result, nil
}

// SetGroupPaymentMethod records how every member record was paid. The field
// is only meaningful on completed records, but members are not required to
// share a status (a partial earlier mutation can leave them split), so the
// engine does not reject mixed groups here.
func (e *DefaultBookingEngine) SetGroupPaymentMethod(ctx context.Context, recordIDs []string, method string) (*GroupResult, error) {
	if len(recordIDs) == 0 {
		return nil, NewValidationError("at least one record id is required")
	}
	if method == "" {
		return nil, NewValidationError("payment method is required")
	}
	result := e.applyToGroup(recordIDs, func(id string) error {
		return e.Repo.UpdateFields(ctx, id, map[string]any{
			"paymentMethod": method,
			"updatedAt":     time.Now(),
		})
	})
	e.Logger.Info("group payment method change",
		zap.String("paymentMethod", method),
		zap.Int("succeeded", len(result.Succeeded)), zap.Int("failed", len(result.Failed)))
	return result, nil
}

// DeleteGroup removes every member record.
func (e *DefaultBookingEngine) DeleteGroup(ctx context.Context, recordIDs []string) (*GroupResult, error) {
	if len(recordIDs) == 0 {
		return nil, NewValidationError("at least one record id is required")
	}
	result := e.applyToGroup(recordIDs, func(id string) error {
		return e.Repo.Delete(ctx, id)
	})
	e.Logger.Info("group delete",
		zap.Int("succeeded", len(result.Succeeded)), zap.Int("failed", len(result.Failed)))
	return result, nil
}

// UpdateRecord edits a single record in place. Moving it to another slot is
// conflict-checked with the record itself excluded, so rewriting the same
// slot never self-conflicts.
func (e *DefaultBookingEngine) UpdateRecord(ctx context.Context, recordID string, upd RecordUpdate) (*models.BookingRecord, error) {
	rec, err := e.Repo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError(recordID)
		}
		return nil, fmt.Errorf("failed to fetch record %s: %w", recordID, err)
	}

	fields := map[string]any{}

	day := rec.Date
	if upd.Date != nil {
		day, err = NormalizeDate(*upd.Date)
		if err != nil {
			return nil, NewValidationError("%v", err)
		}
	}
	timeOfDay := rec.TimeOfDay
	if upd.TimeOfDay != nil {
		timeOfDay = *upd.TimeOfDay
	}

	if day != rec.Date || timeOfDay != rec.TimeOfDay {
		cfg, err := e.Schedule.GetConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load schedule config: %w", err)
		}
		if _, ok := slotIndex(cfg)[timeOfDay]; !ok {
			return nil, NewValidationError("time %s is not on the slot grid", timeOfDay)
		}
		taken, err := HasConflict(ctx, e.Repo, day, timeOfDay, recordID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, NewConflictError(day, []string{timeOfDay})
		}
		fields["date"] = day
		fields["timeOfDay"] = timeOfDay
	}

	if upd.Notes != nil {
		fields["notes"] = *upd.Notes
	}
	if len(fields) == 0 {
		return rec, nil
	}
	fields["updatedAt"] = time.Now()

	if err := e.Repo.UpdateFields(ctx, recordID, fields); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError(recordID)
		}
		return nil, fmt.Errorf("failed to update record %s: %w", recordID, err)
	}

	updated, err := e.Repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch record %s: %w", recordID, err)
	}
	return updated, nil
}

// GetDayGrid renders the full slot catalog for one day with per-slot
// availability, for the booking grid the UI shows.
func (e *DefaultBookingEngine) GetDayGrid(ctx context.Context, date string) ([]models.SlotAvailability, error) {
	day, err := NormalizeDate(date)
	if err != nil {
		return nil, NewValidationError("%v", err)
	}
	cfg, err := e.Schedule.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule config: %w", err)
	}
	records, err := e.Repo.GetByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for %s: %w", day, err)
	}

	held := make(map[string]string, len(records))
	for i := range records {
		if records[i].IsActive() {
			held[records[i].TimeOfDay] = records[i].ID
		}
	}

	catalog := GenerateSlots(cfg)
	grid := make([]models.SlotAvailability, len(catalog))
	for i, timeOfDay := range catalog {
		id, booked := held[timeOfDay]
		grid[i] = models.SlotAvailability{TimeOfDay: timeOfDay, Booked: booked, RecordID: id}
	}
	return grid, nil
}

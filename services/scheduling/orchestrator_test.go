package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"slotbook/models"
)

// fakeRepo is an in-memory BookingRepository with injectable failures.
type fakeRepo struct {
	records    map[string]models.BookingRecord
	seq        int
	failCreate map[string]error // keyed by time of day
	failUpdate map[string]error // keyed by record id
	failDelete map[string]error // keyed by record id
}

func newFakeRepo(seed ...models.BookingRecord) *fakeRepo {
	r := &fakeRepo{
		records:    make(map[string]models.BookingRecord),
		failCreate: make(map[string]error),
		failUpdate: make(map[string]error),
		failDelete: make(map[string]error),
	}
	for _, rec := range seed {
		r.records[rec.ID] = rec
	}
	return r
}

func (r *fakeRepo) all() []models.BookingRecord {
	out := make([]models.BookingRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeOfDay < out[j].TimeOfDay
	})
	return out
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.BookingRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &rec, nil
}

func (r *fakeRepo) GetByDate(_ context.Context, date string) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for _, rec := range r.all() {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByDateRange(_ context.Context, from, to string) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for _, rec := range r.all() {
		if rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByDateAndTime(_ context.Context, date, timeOfDay string) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for _, rec := range r.all() {
		if rec.Date == date && rec.TimeOfDay == timeOfDay {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByClient(_ context.Context, clientID string) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for _, rec := range r.all() {
		if rec.ClientID == clientID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, rec *models.BookingRecord) (string, error) {
	if err := r.failCreate[rec.TimeOfDay]; err != nil {
		return "", err
	}
	if rec.ID == "" {
		r.seq++
		rec.ID = fmt.Sprintf("id-%d", r.seq)
	}
	r.records[rec.ID] = *rec
	return rec.ID, nil
}

func (r *fakeRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	if err := r.failUpdate[id]; err != nil {
		return err
	}
	rec, ok := r.records[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for k, v := range fields {
		switch k {
		case "status":
			rec.Status = v.(string)
		case "paymentMethod":
			rec.PaymentMethod = v.(string)
		case "notes":
			rec.Notes = v.(string)
		case "date":
			rec.Date = v.(string)
		case "timeOfDay":
			rec.TimeOfDay = v.(string)
		}
	}
	r.records[id] = rec
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if err := r.failDelete[id]; err != nil {
		return err
	}
	if _, ok := r.records[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.records, id)
	return nil
}

// fakeSchedule serves a fixed config.
type fakeSchedule struct {
	cfg models.ScheduleConfig
}

func (s *fakeSchedule) GetConfig(_ context.Context) (models.ScheduleConfig, error) {
	return s.cfg, nil
}

func newTestEngine(repo *fakeRepo) *DefaultBookingEngine {
	return NewBookingEngine(
		repo,
		&fakeSchedule{cfg: models.ScheduleConfig{OpeningTime: "06:00", ClosingTime: "23:00", IntervalMinutes: 30}},
		zap.NewNop(),
	)
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes One Record Per Slot", func(t *testing.T) {
		repo := newFakeRepo()
		engine := newTestEngine(repo)

		result, err := engine.CreateAppointment(ctx, CreateAppointmentRequest{
			ClientID:   "alice",
			ServiceID:  "massage",
			Date:       "2024-06-01",
			TimesOfDay: []string{"09:30", "09:00", "10:00"},
		})
		assert.NoError(t, err)
		assert.Len(t, result.RecordIDs, 3)
		assert.Empty(t, result.FailedSlots)

		stored, _ := repo.GetByDate(ctx, "2024-06-01")
		assert.Len(t, stored, 3)
		for _, rec := range stored {
			assert.Equal(t, models.StatusScheduled, rec.Status)
			assert.Equal(t, "alice", rec.ClientID)
		}
		// Records were written in ascending slot order.
		assert.Equal(t, "09:00", stored[0].TimeOfDay)
		assert.Equal(t, "10:00", stored[2].TimeOfDay)
	})

	t.Run("Conflicting Slot Rejects Whole Request", func(t *testing.T) {
		repo := newFakeRepo(rec("taken", "bob", "haircut", "2024-06-01", "14:30", models.StatusScheduled))
		engine := newTestEngine(repo)

		_, err := engine.CreateAppointment(ctx, CreateAppointmentRequest{
			ClientID:   "alice",
			ServiceID:  "massage",
			Date:       "2024-06-01",
			TimesOfDay: []string{"14:00", "14:30"},
		})
		var cerr *ConflictError
		assert.ErrorAs(t, err, &cerr)
		assert.Equal(t, []string{"14:30"}, cerr.Slots)

		// Nothing was written, not even the free 14:00 slot.
		stored, _ := repo.GetByDate(ctx, "2024-06-01")
		assert.Len(t, stored, 1)
	})

	t.Run("Canceled Record Does Not Block The Slot", func(t *testing.T) {
		repo := newFakeRepo(rec("old", "bob", "haircut", "2024-06-01", "14:30", models.StatusCanceled))
		engine := newTestEngine(repo)

		result, err := engine.CreateAppointment(ctx, CreateAppointmentRequest{
			ClientID:   "alice",
			ServiceID:  "massage",
			Date:       "2024-06-01",
			TimesOfDay: []string{"14:30"},
		})
		assert.NoError(t, err)
		assert.Len(t, result.RecordIDs, 1)
	})

	t.Run("Empty Slot List Rejected", func(t *testing.T) {
		engine := newTestEngine(newFakeRepo())
		_, err := engine.CreateAppointment(ctx, CreateAppointmentRequest{
			ClientID: "alice", ServiceID: "massage", Date: "2024-06-01",
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Off Grid Slot Rejected", func(t *testing.T) {
		engine := newTestEngine(newFakeRepo())
		_, err := engine.CreateAppointment(ctx, CreateAppointmentRequest{
			ClientID: "alice", ServiceID: "massage", Date: "2024-06-01",
			TimesOfDay: []string{"09:10"},
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Malformed Date Rejected Before Any IO", func(t *testing.T) {
		engine := newTestEngine(newFakeRepo())
		_, err := engine.CreateAppointment(ctx, CreateAppointmentRequest{
			ClientID: "alice", ServiceID: "massage", Date: "someday",
			TimesOfDay: []string{"09:00"},
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Timestamp Date Normalizes To Its Day", func(t *testing.T) {
		repo := newFakeRepo()
		engine := newTestEngine(repo)
		result, err := engine.CreateAppointment(ctx, CreateAppointmentRequest{
			ClientID: "alice", ServiceID: "massage", Date: "2024-06-01T08:00:00Z",
			TimesOfDay: []string{"09:00"},
		})
		assert.NoError(t, err)

		stored, _ := repo.GetByID(ctx, result.RecordIDs[0])
		assert.Equal(t, "2024-06-01", stored.Date)
	})

	t.Run("Mid Sequence Write Failure Keeps Earlier Records", func(t *testing.T) {
		repo := newFakeRepo()
		repo.failCreate["09:30"] = errors.New("store offline")
		engine := newTestEngine(repo)

		result, err := engine.CreateAppointment(ctx, CreateAppointmentRequest{
			ClientID: "alice", ServiceID: "massage", Date: "2024-06-01",
			TimesOfDay: []string{"09:00", "09:30", "10:00"},
		})
		assert.NoError(t, err)
		assert.True(t, result.Partial())
		assert.Len(t, result.RecordIDs, 2)
		assert.Len(t, result.FailedSlots, 1)
		assert.Equal(t, "09:30", result.FailedSlots[0].TimeOfDay)

		// No rollback: the two successful writes stay.
		stored, _ := repo.GetByDate(ctx, "2024-06-01")
		assert.Len(t, stored, 2)
	})
}

func TestGroupMutations(t *testing.T) {
	ctx := context.Background()
	seed := func() *fakeRepo {
		return newFakeRepo(
			rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled),
			rec("r2", "alice", "massage", "2024-06-01", "09:30", models.StatusScheduled),
			rec("r3", "alice", "massage", "2024-06-01", "10:00", models.StatusScheduled),
		)
	}

	t.Run("Status Change Covers Whole Group", func(t *testing.T) {
		repo := seed()
		engine := newTestEngine(repo)

		result, err := engine.SetGroupStatus(ctx, []string{"r1", "r2", "r3"}, models.StatusCompleted)
		assert.NoError(t, err)
		assert.Len(t, result.Succeeded, 3)
		assert.Empty(t, result.Failed)

		for _, rec := range repo.all() {
			assert.Equal(t, models.StatusCompleted, rec.Status)
		}
	})

	t.Run("Unknown Status Rejected", func(t *testing.T) {
		engine := newTestEngine(seed())
		_, err := engine.SetGroupStatus(ctx, []string{"r1"}, "archived")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Any Transition Is Allowed", func(t *testing.T) {
		repo := seed()
		engine := newTestEngine(repo)

		for _, status := range []string{models.StatusCompleted, models.StatusScheduled, models.StatusCanceled, models.StatusScheduled} {
			result, err := engine.SetGroupStatus(ctx, []string{"r1"}, status)
			assert.NoError(t, err)
			assert.Equal(t, []string{"r1"}, result.Succeeded)
		}
	})

	t.Run("Payment Method Set Across Group", func(t *testing.T) {
		repo := seed()
		engine := newTestEngine(repo)

		_, err := engine.SetGroupStatus(ctx, []string{"r1", "r2", "r3"}, models.StatusCompleted)
		assert.NoError(t, err)

		result, err := engine.SetGroupPaymentMethod(ctx, []string{"r1", "r2", "r3"}, "card")
		assert.NoError(t, err)
		assert.Len(t, result.Succeeded, 3)

		for _, rec := range repo.all() {
			assert.Equal(t, "card", rec.PaymentMethod)
		}
	})

	t.Run("Partial Delete Reports Both Sides", func(t *testing.T) {
		repo := seed()
		repo.failDelete["r2"] = errors.New("store offline")
		engine := newTestEngine(repo)

		result, err := engine.DeleteGroup(ctx, []string{"r1", "r2", "r3"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"r1", "r3"}, result.Succeeded)
		assert.Len(t, result.Failed, 1)
		assert.Equal(t, "r2", result.Failed[0].RecordID)

		// The two successful deletes are gone from subsequent lookups.
		stored, _ := repo.GetByDate(ctx, "2024-06-01")
		assert.Len(t, stored, 1)
		assert.Equal(t, "r2", stored[0].ID)
	})

	t.Run("Missing Record Surfaces As Failure Not Error", func(t *testing.T) {
		repo := seed()
		engine := newTestEngine(repo)

		result, err := engine.SetGroupStatus(ctx, []string{"r1", "ghost"}, models.StatusCanceled)
		assert.NoError(t, err)
		assert.Equal(t, []string{"r1"}, result.Succeeded)
		assert.Len(t, result.Failed, 1)
		assert.Equal(t, "ghost", result.Failed[0].RecordID)
	})

	t.Run("Empty Id List Rejected", func(t *testing.T) {
		engine := newTestEngine(seed())
		_, err := engine.DeleteGroup(ctx, nil)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestUpdateRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("Reschedule Does Not Self Conflict", func(t *testing.T) {
		repo := newFakeRepo(rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled))
		engine := newTestEngine(repo)

		notes := "running late"
		updated, err := engine.UpdateRecord(ctx, "r1", RecordUpdate{TimeOfDay: strptr("09:00"), Notes: &notes})
		assert.NoError(t, err)
		assert.Equal(t, "running late", updated.Notes)
	})

	t.Run("Reschedule Into Taken Slot Conflicts", func(t *testing.T) {
		repo := newFakeRepo(
			rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled),
			rec("r2", "bob", "haircut", "2024-06-01", "09:30", models.StatusScheduled),
		)
		engine := newTestEngine(repo)

		_, err := engine.UpdateRecord(ctx, "r1", RecordUpdate{TimeOfDay: strptr("09:30")})
		var cerr *ConflictError
		assert.ErrorAs(t, err, &cerr)
	})

	t.Run("Reschedule Into Free Slot Moves The Record", func(t *testing.T) {
		repo := newFakeRepo(rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled))
		engine := newTestEngine(repo)

		updated, err := engine.UpdateRecord(ctx, "r1", RecordUpdate{Date: strptr("2024-06-02"), TimeOfDay: strptr("11:00")})
		assert.NoError(t, err)
		assert.Equal(t, "2024-06-02", updated.Date)
		assert.Equal(t, "11:00", updated.TimeOfDay)
	})

	t.Run("Unknown Record Is Not Found", func(t *testing.T) {
		engine := newTestEngine(newFakeRepo())
		_, err := engine.UpdateRecord(ctx, "ghost", RecordUpdate{})
		var nerr *NotFoundError
		assert.ErrorAs(t, err, &nerr)
	})
}

func TestReads(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(
		rec("r1", "alice", "massage", "2024-06-01", "09:00", models.StatusScheduled),
		rec("r2", "alice", "massage", "2024-06-01", "09:30", models.StatusScheduled),
		rec("r3", "bob", "haircut", "2024-06-01", "11:00", models.StatusScheduled),
		rec("r4", "alice", "massage", "2024-06-03", "09:00", models.StatusScheduled),
	)
	engine := newTestEngine(repo)

	t.Run("Day Sheet Groups Contiguous Records", func(t *testing.T) {
		appointments, err := engine.GetDayAppointments(ctx, "2024-06-01")
		assert.NoError(t, err)
		assert.Len(t, appointments, 2)
		assert.Equal(t, []string{"r1", "r2"}, appointments[0].RecordIDs)
	})

	t.Run("Range Spans Days", func(t *testing.T) {
		appointments, err := engine.GetRangeAppointments(ctx, "2024-06-01", "2024-06-03")
		assert.NoError(t, err)
		assert.Len(t, appointments, 3)
	})

	t.Run("Inverted Range Rejected", func(t *testing.T) {
		_, err := engine.GetRangeAppointments(ctx, "2024-06-03", "2024-06-01")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Client History Grouped", func(t *testing.T) {
		appointments, err := engine.GetClientAppointments(ctx, "alice")
		assert.NoError(t, err)
		assert.Len(t, appointments, 2)
	})

	t.Run("Record Lookup Expands Its Group", func(t *testing.T) {
		appt, err := engine.GetAppointmentByRecord(ctx, "r2")
		assert.NoError(t, err)
		assert.Equal(t, []string{"r1", "r2"}, appt.RecordIDs)
	})

	t.Run("Record Lookup Misses Are Not Found", func(t *testing.T) {
		_, err := engine.GetAppointmentByRecord(ctx, "ghost")
		var nerr *NotFoundError
		assert.ErrorAs(t, err, &nerr)
	})

	t.Run("Day Grid Marks Held Slots", func(t *testing.T) {
		grid, err := engine.GetDayGrid(ctx, "2024-06-01")
		assert.NoError(t, err)
		assert.Len(t, grid, 35) // 06:00..23:00 every 30 minutes, both ends included

		byTime := make(map[string]models.SlotAvailability, len(grid))
		for _, cell := range grid {
			byTime[cell.TimeOfDay] = cell
		}
		assert.True(t, byTime["09:00"].Booked)
		assert.Equal(t, "r1", byTime["09:00"].RecordID)
		assert.False(t, byTime["08:00"].Booked)
	})
}

func strptr(s string) *string { return &s }

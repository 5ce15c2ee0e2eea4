package scheduling

import (
	"sort"

	"slotbook/models"
)

// sortableRecord pairs a record with its parsed time of day so the chain walk
// compares minutes instead of re-parsing strings.
type sortableRecord struct {
	rec     models.BookingRecord
	minutes int
}

// sortByTime drops records whose time of day does not parse and returns the
// rest ordered ascending by time of day.
func sortByTime(records []models.BookingRecord) []sortableRecord {
	sorted := make([]sortableRecord, 0, len(records))
	for i := range records {
		minutes, err := timeToMinutes(records[i].TimeOfDay)
		if err != nil {
			continue
		}
		sorted = append(sorted, sortableRecord{rec: records[i], minutes: minutes})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].rec.Date != sorted[j].rec.Date {
			return sorted[i].rec.Date < sorted[j].rec.Date
		}
		return sorted[i].minutes < sorted[j].minutes
	})
	return sorted
}

// sameVisit reports whether b can extend a group ending in a: same client,
// service and date, and exactly one interval later. Any other gap, including
// a duplicate time, breaks the chain. Status is deliberately ignored: the
// grouping key is the identity of the visit, not its current state, so a
// scheduled and a canceled member stay grouped.
func sameVisit(a, b sortableRecord, intervalMinutes int) bool {
	return a.rec.ClientID == b.rec.ClientID &&
		a.rec.ServiceID == b.rec.ServiceID &&
		a.rec.Date == b.rec.Date &&
		b.minutes-a.minutes == intervalMinutes
}

// toAppointment folds one chain of records into the derived view. Status,
// payment method and notes come from the first member; members can disagree
// after a partial group mutation and the view does not hide that (callers
// needing per-member state read the records).
func toAppointment(group []sortableRecord) models.LogicalAppointment {
	appt := models.LogicalAppointment{
		RecordIDs:     make([]string, 0, len(group)),
		TimesOfDay:    make([]string, 0, len(group)),
		ClientID:      group[0].rec.ClientID,
		ServiceID:     group[0].rec.ServiceID,
		Date:          group[0].rec.Date,
		Status:        group[0].rec.Status,
		PaymentMethod: group[0].rec.PaymentMethod,
		Notes:         group[0].rec.Notes,
	}
	for _, m := range group {
		appt.RecordIDs = append(appt.RecordIDs, m.rec.ID)
		appt.TimesOfDay = append(appt.TimesOfDay, m.rec.TimeOfDay)
	}
	return appt
}

// GroupConsecutive partitions a flat set of booking records into logical
// appointments: records sharing client, service and date whose times of day
// form an unbroken chain stepped by exactly intervalMinutes merge into one
// appointment. Records lacking a parseable time of day are discarded.
func GroupConsecutive(records []models.BookingRecord, intervalMinutes int) []models.LogicalAppointment {
	sorted := sortByTime(records)
	if len(sorted) == 0 {
		return []models.LogicalAppointment{}
	}

	appointments := make([]models.LogicalAppointment, 0, len(sorted))
	group := []sortableRecord{sorted[0]}
	for _, cur := range sorted[1:] {
		if sameVisit(group[len(group)-1], cur, intervalMinutes) {
			group = append(group, cur)
			continue
		}
		appointments = append(appointments, toAppointment(group))
		group = []sortableRecord{cur}
	}
	return append(appointments, toAppointment(group))
}

// GroupAround reconstructs the single logical appointment the record with
// recordID belongs to. It locates the record in the time-sorted sequence and
// expands left and right independently, each direction stopping at the first
// non-exact-interval gap; the result equals the group full partitioning would
// produce, computed incrementally. Returns nil when the record is absent from
// records or has no parseable time of day.
func GroupAround(records []models.BookingRecord, recordID string, intervalMinutes int) *models.LogicalAppointment {
	sorted := sortByTime(records)

	at := -1
	for i := range sorted {
		if sorted[i].rec.ID == recordID {
			at = i
			break
		}
	}
	if at < 0 {
		return nil
	}

	lo := at
	for lo > 0 && sameVisit(sorted[lo-1], sorted[lo], intervalMinutes) {
		lo--
	}
	hi := at
	for hi < len(sorted)-1 && sameVisit(sorted[hi], sorted[hi+1], intervalMinutes) {
		hi++
	}

	appt := toAppointment(sorted[lo : hi+1])
	return &appt
}

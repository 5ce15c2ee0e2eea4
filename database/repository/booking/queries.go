// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotbook/models"
)

// GetByID retrieves one record by its unique id.
func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.BookingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.BookingRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByDate retrieves all records for one calendar day, ordered by time of
// day.
func (r *mongoBookingRepo) GetByDate(ctx context.Context, date string) ([]models.BookingRecord, error) {
	return r.find(ctx, bson.M{"date": date})
}

// GetByDateRange retrieves all records in the inclusive [from, to] day range.
// The "YYYY-MM-DD" encoding orders lexicographically, so a plain string range
// filter is a correct day-range query.
func (r *mongoBookingRepo) GetByDateRange(ctx context.Context, from, to string) ([]models.BookingRecord, error) {
	return r.find(ctx, bson.M{"date": bson.M{"$gte": from, "$lte": to}})
}

// GetByDateAndTime retrieves the records occupying one exact slot.
func (r *mongoBookingRepo) GetByDateAndTime(ctx context.Context, date, timeOfDay string) ([]models.BookingRecord, error) {
	return r.find(ctx, bson.M{"date": date, "timeOfDay": timeOfDay})
}

// GetByClient retrieves a client's full booking history.
func (r *mongoBookingRepo) GetByClient(ctx context.Context, clientID string) ([]models.BookingRecord, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

func (r *mongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.BookingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "timeOfDay", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("booking query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.BookingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode booking records: %w", err)
	}
	if records == nil {
		records = []models.BookingRecord{}
	}
	return records, nil
}

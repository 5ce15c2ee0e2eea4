// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"slotbook/database"
	"slotbook/models"
	"slotbook/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BookingRecordRepository is the MongoDB-backed record store for booking
// records: key/range lookups and single-record writes. Lookup misses surface
// as mongo.ErrNoDocuments.
type BookingRecordRepository interface {
	GetByID(ctx context.Context, id string) (*models.BookingRecord, error)
	GetByDate(ctx context.Context, date string) ([]models.BookingRecord, error)
	GetByDateRange(ctx context.Context, from, to string) ([]models.BookingRecord, error)
	GetByDateAndTime(ctx context.Context, date, timeOfDay string) ([]models.BookingRecord, error)
	GetByClient(ctx context.Context, clientID string) ([]models.BookingRecord, error)
	Create(ctx context.Context, rec *models.BookingRecord) (string, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRecordRepository.
func NewMongoBookingRepo() BookingRecordRepository {
	db := database.MongoClient.Database("slotbook")
	repo := &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

// File: database/repository/schedule/schedule_mongo.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotbook/database"
	"slotbook/models"
)

// The business runs one calendar, so the schedule collection holds a single
// config document under this key.
const configKey = "default"

// ScheduleRepository stores the business schedule config.
type ScheduleRepository interface {
	GetConfig(ctx context.Context) (models.ScheduleConfig, error)
	UpdateConfig(ctx context.Context, cfg models.ScheduleConfig) error
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.MongoClient.Database("slotbook")
	return &mongoScheduleRepo{
		coll: db.Collection("schedule"),
	}
}

type configDoc struct {
	ID     string                `bson:"id"`
	Config models.ScheduleConfig `bson:"config"`
}

// GetConfig returns the stored schedule config, falling back to the
// documented defaults (06:00, 23:00, 30) when none has been saved yet.
func (r *mongoScheduleRepo) GetConfig(ctx context.Context) (models.ScheduleConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc configDoc
	err := r.coll.FindOne(ctx, bson.M{"id": configKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultScheduleConfig(), nil
	}
	if err != nil {
		return models.ScheduleConfig{}, fmt.Errorf("failed to fetch schedule config: %w", err)
	}
	return doc.Config, nil
}

// UpdateConfig replaces the stored schedule config.
func (r *mongoScheduleRepo) UpdateConfig(ctx context.Context, cfg models.ScheduleConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"id": configKey},
		configDoc{ID: configKey, Config: cfg},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule config: %w", err)
	}
	return nil
}

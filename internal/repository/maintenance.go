package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flota-backend/internal/models"
)

var ErrMaintenanceNotFound = errors.New("maintenance record not found")

type MaintenanceRepository struct {
	collection *mongo.Collection
}

func NewMaintenanceRepository(db *mongo.Database) *MaintenanceRepository {
	return &MaintenanceRepository{
		collection: db.Collection("maintenance_records"),
	}
}

func (r *MaintenanceRepository) Create(record *models.MaintenanceRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	if record.FechaRegistro.IsZero() {
		record.FechaRegistro = record.CreatedAt
	}

	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *MaintenanceRepository) FindByID(id string) (*models.MaintenanceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid maintenance record ID")
	}

	var record models.MaintenanceRecord
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMaintenanceNotFound
		}
		return nil, err
	}

	return &record, nil
}

func (r *MaintenanceRepository) FindByPlate(plate string) ([]models.MaintenanceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"vehicle_plate": plate}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.MaintenanceRecord{}
	for cursor.Next(ctx) {
		var record models.MaintenanceRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, cursor.Err()
}

func (r *MaintenanceRepository) FindAll(limit, offset int) ([]models.MaintenanceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.MaintenanceRecord{}
	for cursor.Next(ctx) {
		var record models.MaintenanceRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, cursor.Err()
}

func (r *MaintenanceRepository) FindByDateRange(from, to time.Time) ([]models.MaintenanceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"fecha": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.MaintenanceRecord{}
	for cursor.Next(ctx) {
		var record models.MaintenanceRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, cursor.Err()
}

// LastByPlate returns the most recent record for the plate, or
// ErrMaintenanceNotFound when the vehicle has no history.
func (r *MaintenanceRepository) LastByPlate(plate string) (*models.MaintenanceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "kilometraje", Value: -1}})

	var record models.MaintenanceRecord
	err := r.collection.FindOne(ctx, bson.M{"vehicle_plate": plate}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMaintenanceNotFound
		}
		return nil, err
	}

	return &record, nil
}

func (r *MaintenanceRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid maintenance record ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrMaintenanceNotFound
	}

	return nil
}

// CreateIndexes creates necessary indexes for the maintenance collection
func (r *MaintenanceRepository) CreateIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "vehicle_plate", Value: 1},
				{Key: "fecha", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "tipo", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "fecha", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

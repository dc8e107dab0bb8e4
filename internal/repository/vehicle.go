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

var ErrVehicleNotFound = errors.New("vehicle not found")

type VehicleRepository struct {
	collection *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{
		collection: db.Collection("vehicles"),
	}
}

func (r *VehicleRepository) Create(vehicle *models.Vehicle) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt

	result, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.New("plate already registered")
		}
		return nil, err
	}

	vehicle.ID = result.InsertedID.(primitive.ObjectID)
	return vehicle, nil
}

func (r *VehicleRepository) FindByPlate(plate string) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"plate": plate}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	return &vehicle, nil
}

func (r *VehicleRepository) FindAll() ([]models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "plate", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vehicles := []models.Vehicle{}
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, cursor.Err()
}

func (r *VehicleRepository) FindByStatus(status string) ([]models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "plate", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vehicles := []models.Vehicle{}
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, cursor.Err()
}

func (r *VehicleRepository) FindByCostCenter(costCenter string) ([]models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "plate", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"cost_center": costCenter}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vehicles := []models.Vehicle{}
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, cursor.Err()
}

func (r *VehicleRepository) Update(plate string, vehicle *models.Vehicle) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vehicle.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"plate": plate},
		bson.M{"$set": vehicle},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Vehicle
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	return &updated, nil
}

// UpdateKilometraje records a new odometer reading without touching the rest
// of the vehicle document.
func (r *VehicleRepository) UpdateKilometraje(plate string, currentKm int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"current_km": currentKm,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"plate": plate}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrVehicleNotFound
	}

	return nil
}

// UpdateServiceMilestone sets the last/next service kilometre marks after a
// maintenance record is registered.
func (r *VehicleRepository) UpdateServiceMilestone(plate string, lastServiceKm, nextServiceKm int, serviceDate time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"last_service_km":   lastServiceKm,
			"last_service_date": serviceDate,
			"next_service_km":   nextServiceKm,
			"updated_at":        time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"plate": plate}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrVehicleNotFound
	}

	return nil
}

func (r *VehicleRepository) SetDocuments(plate string, documents []models.Document) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"documents":  documents,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"plate": plate}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrVehicleNotFound
	}

	return nil
}

func (r *VehicleRepository) Delete(plate string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"plate": plate})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrVehicleNotFound
	}

	return nil
}

func (r *VehicleRepository) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{})
}

// CreateIndexes creates necessary indexes for the vehicles collection
func (r *VehicleRepository) CreateIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "plate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "cost_center", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "next_service_km", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

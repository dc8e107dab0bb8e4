package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle status values
const (
	VehicleStatusActive      = "ACTIVE"
	VehicleStatusMaintenance = "MAINTENANCE"
	VehicleStatusInactive    = "INACTIVE"
)

// Ownership types
const (
	OwnershipOwned   = "OWNED"
	OwnershipRented  = "RENTED"
	OwnershipLeasing = "LEASING"
)

// DefaultServiceIntervalKm is applied whenever a vehicle carries no usable
// service interval (zero or negative values are treated as unset).
const DefaultServiceIntervalKm = 10000

type Vehicle struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Plate             string             `bson:"plate" json:"plate" validate:"required"`
	Make              string             `bson:"make" json:"make" validate:"required"`
	Model             string             `bson:"model" json:"model" validate:"required"`
	Year              int                `bson:"year" json:"year"`
	VIN               string             `bson:"vin,omitempty" json:"vin,omitempty"`
	Type              string             `bson:"type" json:"type"`
	Ownership         string             `bson:"ownership" json:"ownership"`
	Status            string             `bson:"status" json:"status" validate:"omitempty,oneof=ACTIVE MAINTENANCE INACTIVE"`
	CurrentKm         int                `bson:"current_km" json:"currentKm"`
	LastServiceKm     int                `bson:"last_service_km" json:"lastServiceKm"`
	LastServiceDate   *time.Time         `bson:"last_service_date,omitempty" json:"lastServiceDate,omitempty"`
	ServiceIntervalKm int                `bson:"service_interval_km" json:"serviceIntervalKm"`
	NextServiceKm     int                `bson:"next_service_km" json:"nextServiceKm"`
	CostCenter        string             `bson:"cost_center,omitempty" json:"costCenter,omitempty"`
	Province          string             `bson:"province,omitempty" json:"province,omitempty"`
	AssignedUser      string             `bson:"assigned_user,omitempty" json:"assignedUser,omitempty"`
	Documents         []Document         `bson:"documents" json:"documents"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
}

// EffectiveServiceIntervalKm returns the configured interval, falling back to
// the fleet default when the stored value is unusable.
func (v *Vehicle) EffectiveServiceIntervalKm() int {
	if v.ServiceIntervalKm <= 0 {
		return DefaultServiceIntervalKm
	}
	return v.ServiceIntervalKm
}

// Document is a legal document attached to a vehicle (insurance, VTV, title).
// Multiple documents of the same type are allowed; uniqueness is not enforced.
type Document struct {
	ID             string    `bson:"id" json:"id"`
	Type           string    `bson:"type" json:"type" validate:"required"`
	Name           string    `bson:"name" json:"name"`
	ExpirationDate string    `bson:"expiration_date,omitempty" json:"expirationDate,omitempty"`
	Issuer         string    `bson:"issuer,omitempty" json:"issuer,omitempty"`
	UploadedAt     time.Time `bson:"uploaded_at" json:"uploadedAt"`
}

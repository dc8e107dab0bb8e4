package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Maintenance record categories (free text in the source data; these are the
// common values used for cost aggregation)
const (
	MaintenanceTipoService   = "SERVICE"
	MaintenanceTipoRepair    = "REPAIR"
	MaintenanceTipoChecklist = "CHECKLIST"
	MaintenanceTipoRentalFee = "RENTAL_FEE"
)

// MaintenanceRecord is an append-only log entry of a service event performed
// on a vehicle. Kilometraje should be monotonic per plate but historical data
// may drift, so it is tolerated rather than enforced.
type MaintenanceRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehiclePlate  string             `bson:"vehicle_plate" json:"vehiclePlate" validate:"required"`
	Fecha         time.Time          `bson:"fecha" json:"fecha"`
	FechaRegistro time.Time          `bson:"fecha_registro" json:"fechaRegistro"`
	Kilometraje   int                `bson:"kilometraje" json:"kilometraje" validate:"min=0"`
	Costo         float64            `bson:"costo" json:"costo" validate:"min=0"`
	Tipo          string             `bson:"tipo" json:"tipo"`
	Descripcion   string             `bson:"descripcion" json:"descripcion"`
	Proveedor     string             `bson:"proveedor,omitempty" json:"proveedor,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CostReport aggregates maintenance spending across the fleet.
type CostReport struct {
	Total         float64            `json:"total"`
	AvgPerVehicle float64            `json:"avgPerVehicle"`
	ByPlate       map[string]float64 `json:"byPlate"`
	ByTipo        map[string]float64 `json:"byTipo"`
	TopSpenders   []PlateCost        `json:"topSpenders"`
}

// PlateCost is one row of the top-spenders ranking.
type PlateCost struct {
	Plate string  `json:"plate"`
	Cost  float64 `json:"cost"`
}

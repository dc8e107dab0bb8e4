package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles, from highest to lowest access level. GUEST is the landing role
// for self-registered accounts until an admin approves them.
const (
	RoleAdmin   = "ADMIN"
	RoleAdminL2 = "ADMIN_L2"
	RoleManager = "MANAGER"
	RoleDriver  = "DRIVER"
	RoleGuest   = "GUEST"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email" validate:"required,email"`
	Name          string             `bson:"name" json:"name" validate:"required"`
	Password      string             `bson:"password" json:"-"`
	Role          string             `bson:"role" json:"role" validate:"required,oneof=ADMIN ADMIN_L2 MANAGER DRIVER GUEST"`
	Approved      bool               `bson:"approved" json:"approved"`
	CostCenter    string             `bson:"cost_center,omitempty" json:"costCenter,omitempty"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ReceiveAlerts bool               `bson:"receive_alerts" json:"receiveAlerts"`
	LastLogin     *time.Time         `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CanDelete reports whether the role may perform hard deletes. ADMIN_L2 has
// full access except deletion.
func CanDelete(role string) bool {
	return role == RoleAdmin
}

// IsAdmin reports whether the role grants user-administration access.
func IsAdmin(role string) bool {
	return role == RoleAdmin || role == RoleAdminL2
}

// AuthUser is the sanitized user shape returned to authenticated clients.
type AuthUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Approved      bool   `json:"approved"`
	CostCenter    string `json:"costCenter,omitempty"`
	ReceiveAlerts bool   `json:"receiveAlerts"`
}

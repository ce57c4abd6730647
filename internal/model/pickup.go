package model

import "time"

// PickupStatus is the state of a pickup request. Only pending is ever set.
type PickupStatus string

const (
	PickupPending   PickupStatus = "pending"
	PickupAssigned  PickupStatus = "assigned"
	PickupCompleted PickupStatus = "completed"
	PickupCancelled PickupStatus = "cancelled"
)

// WasteTypes are the accepted waste types for pickups
var WasteTypes = []string{"organic", "recyclable", "hazardous"}

// MinPickupQuantityKg is the smallest bulk pickup accepted
const MinPickupQuantityKg = 200

// PickupRequest is a request for a bulk waste collection
type PickupRequest struct {
	ID                uint         `json:"id" gorm:"primaryKey"`
	UserID            uint         `json:"user_id" gorm:"index;not null"`
	Address           string       `json:"address" gorm:"type:varchar(255);not null"`
	WasteType         string       `json:"waste_type" gorm:"type:varchar(20);not null"`
	EstimatedQuantity float64      `json:"estimated_quantity" gorm:"not null"`
	PreferredDate     time.Time    `json:"preferred_date" gorm:"type:date;not null"`
	Notes             string       `json:"notes" gorm:"type:text"`
	Status            PickupStatus `json:"status" gorm:"type:varchar(20);index;not null;default:'pending'"`
	CreatedAt         time.Time    `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time    `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

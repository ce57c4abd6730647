package model

import (
	"time"

	"github.com/lib/pq"
)

// DefaultPickupTime is used when a route is created without a time
const DefaultPickupTime = "08:00"

// Weekdays in canonical order
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Route is the collection schedule of one ward
type Route struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	WardNumber int            `json:"ward_number" gorm:"uniqueIndex;not null"`
	PickupDays pq.StringArray `json:"pickup_days" gorm:"type:text[];not null"`
	PickupTime string         `json:"pickup_time" gorm:"type:varchar(5);not null;default:'08:00'"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Trucks []Truck `json:"trucks,omitempty" gorm:"foreignKey:RouteID;constraint:OnDelete:SET NULL"`
}

// Truck is a collection vehicle and its driver
type Truck struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	DriverName  string    `json:"driver_name" gorm:"type:varchar(100);not null"`
	DriverPhone string    `json:"driver_phone" gorm:"type:varchar(10);uniqueIndex;not null"`
	RouteID     *uint     `json:"route_id,omitempty" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Route *Route `json:"route,omitempty" gorm:"foreignKey:RouteID"`
}

package model

import (
	"time"
)

// Role is the fixed role a user is created with
type Role string

const (
	RoleUser     Role = "user"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleBusiness, RoleAdmin:
		return true
	}
	return false
}

// User represents the user model stored in the database
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	Email      string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"type:varchar(255);not null"`
	Role       Role      `json:"role" gorm:"type:varchar(20);index;not null;default:'user'"`
	Address    string    `json:"address" gorm:"type:varchar(255)"`
	Phone      string    `json:"phone" gorm:"type:varchar(20)"`
	WardNumber *int      `json:"ward_number,omitempty" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserSummary is the public projection of a user embedded in other resources
type UserSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	WardNumber *int   `json:"ward_number,omitempty"`
}

// Summary returns the public projection of u
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, WardNumber: u.WardNumber}
}

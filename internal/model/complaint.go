package model

import "time"

// ComplaintStatus is the review state of a complaint
type ComplaintStatus string

const (
	ComplaintPending  ComplaintStatus = "pending"
	ComplaintVerified ComplaintStatus = "verified"
	ComplaintResolved ComplaintStatus = "resolved"
)

// rank orders statuses so only forward moves are accepted
func (s ComplaintStatus) rank() int {
	switch s {
	case ComplaintPending:
		return 0
	case ComplaintVerified:
		return 1
	case ComplaintResolved:
		return 2
	}
	return -1
}

// Valid reports whether s is a known complaint status
func (s ComplaintStatus) Valid() bool {
	return s.rank() >= 0
}

// IsBackwardsFrom reports whether moving from current to s would go back in the lifecycle
func (s ComplaintStatus) IsBackwardsFrom(current ComplaintStatus) bool {
	return s.rank() < current.rank()
}

// ComplaintCategories are the fixed complaint categories
var ComplaintCategories = []string{
	"garbage_overflow",
	"illegal_dumping",
	"missed_pickup",
	"drainage_blockage",
	"other",
}

// Complaint is a citizen-submitted report
type Complaint struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"index;not null"`
	Title       string          `json:"title" gorm:"type:varchar(200);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Location    string          `json:"location" gorm:"type:varchar(255);not null"`
	Category    string          `json:"category" gorm:"type:varchar(50);not null"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"type:varchar(500)"`
	Status      ComplaintStatus `json:"status" gorm:"type:varchar(20);index;not null;default:'pending'"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

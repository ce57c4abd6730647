package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ListingType tells whether a product is sold or given away
type ListingType string

const (
	ListingSale   ListingType = "sale"
	ListingDonate ListingType = "donate"
)

// ProductStatus is the availability of a listing
type ProductStatus string

const (
	ProductAvailable ProductStatus = "available"
	ProductSold      ProductStatus = "sold"
)

// MaxProductImages caps the number of images per listing
const MaxProductImages = 5

// MaxPrice is the largest value the numeric(12,2) price column holds
var MaxPrice = decimal.RequireFromString("9999999999.99")

// ProductConditions lists the accepted condition values
var ProductConditions = []string{"new", "like_new", "good", "fair", "poor"}

// Product represents a marketplace listing owned by one seller
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SellerID    uint            `json:"seller_id" gorm:"index;not null"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Category    string          `json:"category" gorm:"type:varchar(50);index;not null"`
	ListingType ListingType     `json:"listing_type" gorm:"type:varchar(10);index;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;default:0"`
	Images      pq.StringArray  `json:"images" gorm:"type:text[]"`
	Condition   string          `json:"condition" gorm:"type:varchar(20);index"`
	Quantity    int             `json:"quantity" gorm:"not null;default:1;check:quantity >= 0"`
	Location    string          `json:"location" gorm:"type:varchar(255)"`
	WardNumber  *int            `json:"ward_number,omitempty" gorm:"index"`
	Status      ProductStatus   `json:"status" gorm:"type:varchar(20);index;not null;default:'available'"`
	Views       int64           `json:"views" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Seller *User `json:"-" gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
}

// IsAvailable reports whether the product can be bought
func (p Product) IsAvailable() bool {
	return p.Status == ProductAvailable
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the forward-only lifecycle allows s -> next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case OrderConfirmed:
		return s == OrderPending
	case OrderCompleted:
		return s == OrderConfirmed
	case OrderCancelled:
		return s == OrderPending || s == OrderConfirmed
	}
	return false
}

// DefaultPaymentMethod is used when checkout does not name one
const DefaultPaymentMethod = "cash_on_delivery"

// Order is an immutable snapshot of a checkout
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	BuyerID         uint            `json:"buyer_id" gorm:"index;not null"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	Tax             decimal.Decimal `json:"tax" gorm:"type:numeric(12,2);not null"`
	Shipping        decimal.Decimal `json:"shipping" gorm:"type:numeric(12,2);not null"`
	EcoDiscount     decimal.Decimal `json:"eco_discount" gorm:"type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	DeliveryAddress string          `json:"delivery_address" gorm:"type:varchar(255);not null"`
	ContactNumber   string          `json:"contact_number" gorm:"type:varchar(20);not null"`
	Notes           string          `json:"notes" gorm:"type:text"`
	PaymentMethod   string          `json:"payment_method" gorm:"type:varchar(30);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);index;not null;default:'pending'"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Buyer *User `json:"-" gorm:"foreignKey:BuyerID"`
}

// HasSeller reports whether any line of the order belongs to sellerID
func (o Order) HasSeller(sellerID uint) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// OrderItem is a purchased line with the price captured at checkout
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"index;not null"`
	ProductID   uint            `json:"product_id" gorm:"index;not null"`
	SellerID    uint            `json:"seller_id" gorm:"index;not null"`
	ProductName string          `json:"product_name" gorm:"type:varchar(255);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Subtotal    decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
}

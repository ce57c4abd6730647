package repository

import (
	"context"
	"time"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderBuilder turns the captured cart lines, each with its locked product,
// into the order to insert. Returning an error aborts the checkout.
type OrderBuilder func(lines []model.CartItem) (*model.Order, error)

// OrderRepository stores orders and runs checkout
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an OrderRepository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateFromCart captures the buyer's selected cart lines, locks their
// products, inserts the order produced by build and deletes the captured
// lines, all in one transaction.
func (r *OrderRepository) CreateFromCart(ctx context.Context, buyerID uint, build OrderBuilder) (*model.Order, error) {
	defer prometheus.TrackDBOperation("checkout")(time.Now())

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, translate(tx.Error, "order")
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	var lines []model.CartItem
	if err := tx.Where("user_id = ? AND selected = ?", buyerID, true).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		tx.Rollback()
		return nil, translate(err, "cart item")
	}
	if len(lines) == 0 {
		tx.Rollback()
		return nil, apperror.ErrEmptyCart
	}

	productIDs := make([]uint, 0, len(lines))
	lineIDs := make([]uint, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
		lineIDs = append(lineIDs, line.ID)
	}

	var products []model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", productIDs).
		Find(&products).Error; err != nil {
		tx.Rollback()
		return nil, translate(err, "product")
	}

	byID := make(map[uint]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range lines {
		lines[i].Product = byID[lines[i].ProductID]
	}

	order, err := build(lines)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	order.BuyerID = buyerID

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		return nil, translate(err, "order")
	}

	if err := tx.Where("id IN ?", lineIDs).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, translate(err, "cart item")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, translate(err, "order")
	}
	return order, nil
}

// FindByID returns an order with its lines
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

// ListByBuyer returns the buyer's orders, newest first
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err, "order")
}

// ListBySeller returns orders holding at least one line of seller, newest first
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID uint) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	sold := r.db.Model(&model.OrderItem{}).Select("order_id").Where("seller_id = ?", sellerID)

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN (?)", sold).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err, "order")
}

// UpdateStatus moves an order from one status to another. A concurrent
// change that already moved the order away from from is an invalid transition.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, from, to model.OrderStatus) error {
	defer prometheus.TrackDBOperation("update_order")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return translate(result.Error, "order")
	}
	if result.RowsAffected == 0 {
		return apperror.ErrInvalidTransition
	}
	return nil
}

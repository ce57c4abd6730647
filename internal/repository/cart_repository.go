package repository

import (
	"context"
	"time"

	"waste-service/internal/model"
	"waste-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository stores per-user cart lines
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a CartRepository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ListByUser returns the user's cart lines with their products, oldest first
func (r *CartRepository) ListByUser(ctx context.Context, userID uint) ([]model.CartItem, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, translate(err, "cart item")
}

// AddItem inserts a line or sums into the existing one, capped at max
func (r *CartRepository) AddItem(ctx context.Context, userID, productID uint, quantity, max int) error {
	defer prometheus.TrackDBOperation("upsert_cart_item")(time.Now())

	item := model.CartItem{UserID: userID, ProductID: productID, Quantity: quantity, Selected: true}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("LEAST(cart_items.quantity + EXCLUDED.quantity, ?)", max),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	return translate(err, "cart item")
}

// UpdateItem sets the given quantity and selection flag of an existing line
func (r *CartRepository) UpdateItem(ctx context.Context, userID, productID uint, quantity *int, selected *bool) error {
	defer prometheus.TrackDBOperation("update_cart_item")(time.Now())

	updates := map[string]interface{}{}
	if quantity != nil {
		updates["quantity"] = *quantity
	}
	if selected != nil {
		updates["selected"] = *selected
	}

	result := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(updates)
	if result.Error != nil {
		return translate(result.Error, "cart item")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "cart item")
	}
	return nil
}

// RemoveItem deletes one line; removing a missing line is not an error
func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID uint) error {
	defer prometheus.TrackDBOperation("delete_cart_item")(time.Now())

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
	return translate(err, "cart item")
}

// Clear deletes every line of the user's cart
func (r *CartRepository) Clear(ctx context.Context, userID uint) error {
	defer prometheus.TrackDBOperation("delete_cart_item")(time.Now())

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
	return translate(err, "cart item")
}

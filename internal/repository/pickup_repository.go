package repository

import (
	"context"
	"time"

	"waste-service/internal/model"
	"waste-service/prometheus"

	"gorm.io/gorm"
)

// PickupRepository stores bulk pickup requests
type PickupRepository struct {
	db *gorm.DB
}

// NewPickupRepository creates a PickupRepository
func NewPickupRepository(db *gorm.DB) *PickupRepository {
	return &PickupRepository{db: db}
}

// Create inserts a pickup request
func (r *PickupRepository) Create(ctx context.Context, pickup *model.PickupRequest) error {
	defer prometheus.TrackDBOperation("create_pickup")(time.Now())
	return translate(r.db.WithContext(ctx).Create(pickup).Error, "pickup request")
}

// ListByUser returns the user's requests, newest first
func (r *PickupRepository) ListByUser(ctx context.Context, userID uint) ([]model.PickupRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var pickups []model.PickupRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pickups).Error
	return pickups, translate(err, "pickup request")
}

// ListAll returns every request, optionally of one status, with owners
func (r *PickupRepository) ListAll(ctx context.Context, status model.PickupStatus) ([]model.PickupRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Preload("User", ownerSummary)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var pickups []model.PickupRequest
	err := query.Order("created_at DESC").Find(&pickups).Error
	return pickups, translate(err, "pickup request")
}

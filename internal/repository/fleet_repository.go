package repository

import (
	"context"
	"time"

	"waste-service/internal/model"
	"waste-service/prometheus"

	"gorm.io/gorm"
)

// FleetRepository stores trucks and ward routes
type FleetRepository struct {
	db *gorm.DB
}

// NewFleetRepository creates a FleetRepository
func NewFleetRepository(db *gorm.DB) *FleetRepository {
	return &FleetRepository{db: db}
}

// CreateRoute inserts a route; a ward that already has one is a Conflict
func (r *FleetRepository) CreateRoute(ctx context.Context, route *model.Route) error {
	defer prometheus.TrackDBOperation("create_route")(time.Now())
	return translate(r.db.WithContext(ctx).Omit("Trucks").Create(route).Error, "route for this ward")
}

// FindRouteByWard returns the ward's route with its trucks
func (r *FleetRepository) FindRouteByWard(ctx context.Context, ward int) (*model.Route, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var route model.Route
	err := r.db.WithContext(ctx).
		Preload("Trucks", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("ward_number = ?", ward).
		First(&route).Error
	if err != nil {
		return nil, translate(err, "route")
	}
	return &route, nil
}

// ListRoutes returns every route with its trucks, by ward
func (r *FleetRepository) ListRoutes(ctx context.Context) ([]model.Route, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var routes []model.Route
	err := r.db.WithContext(ctx).
		Preload("Trucks", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("ward_number ASC").
		Find(&routes).Error
	return routes, translate(err, "route")
}

// CreateTruck inserts a truck; a driver phone already in use is a Conflict
func (r *FleetRepository) CreateTruck(ctx context.Context, truck *model.Truck) error {
	defer prometheus.TrackDBOperation("create_truck")(time.Now())
	return translate(r.db.WithContext(ctx).Omit("Route").Create(truck).Error, "truck with this driver phone")
}

// ListTrucks returns every truck with its route
func (r *FleetRepository) ListTrucks(ctx context.Context) ([]model.Truck, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var trucks []model.Truck
	err := r.db.WithContext(ctx).
		Preload("Route").
		Order("id ASC").
		Find(&trucks).Error
	return trucks, translate(err, "truck")
}

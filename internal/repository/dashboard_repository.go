package repository

import (
	"context"
	"time"

	"waste-service/internal/model"
	"waste-service/prometheus"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// WardUserCount is the number of registered users in one ward
type WardUserCount struct {
	Ward  int   `json:"ward"`
	Users int64 `json:"users"`
}

// WardCoverage is the collection schedule of one covered ward
type WardCoverage struct {
	Ward       int            `json:"ward"`
	PickupDays pq.StringArray `json:"pickup_days" gorm:"type:text[]"`
	PickupTime string         `json:"pickup_time"`
	Trucks     int64          `json:"trucks"`
}

// PickupCounts are the overall and pending pickup totals
type PickupCounts struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

// FleetCounts summarizes trucks and routes
type FleetCounts struct {
	Trucks       int64 `json:"trucks"`
	Routes       int64 `json:"routes"`
	WardsCovered int64 `json:"wards_covered"`
}

// DashboardRepository runs the grouped reads behind the admin dashboard
type DashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a DashboardRepository
func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// UserRoleCounts counts users per role
func (r *DashboardRepository) UserRoleCounts(ctx context.Context) (map[model.Role]int64, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	var rows []struct {
		Role  model.Role
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "user")
	}

	counts := make(map[model.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

// ComplaintStatusCounts counts complaints per status
func (r *DashboardRepository) ComplaintStatusCounts(ctx context.Context) (map[model.ComplaintStatus]int64, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	var rows []struct {
		Status model.ComplaintStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "complaint")
	}

	counts := make(map[model.ComplaintStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// FleetCounts counts trucks, routes and the distinct wards routes cover
func (r *DashboardRepository) FleetCounts(ctx context.Context) (FleetCounts, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	var counts FleetCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Truck{}).Count(&counts.Trucks).Error; err != nil {
		return FleetCounts{}, translate(err, "truck")
	}

	var routes struct {
		Routes       int64
		WardsCovered int64
	}
	err := db.Model(&model.Route{}).
		Select("COUNT(*) AS routes, COUNT(DISTINCT ward_number) AS wards_covered").
		Scan(&routes).Error
	if err != nil {
		return FleetCounts{}, translate(err, "route")
	}

	counts.Routes = routes.Routes
	counts.WardsCovered = routes.WardsCovered
	return counts, nil
}

// PickupCounts counts all and pending pickup requests
func (r *DashboardRepository) PickupCounts(ctx context.Context) (PickupCounts, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	var counts PickupCounts
	err := r.db.WithContext(ctx).Model(&model.PickupRequest{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE status = ?) AS pending", model.PickupPending).
		Scan(&counts).Error
	if err != nil {
		return PickupCounts{}, translate(err, "pickup request")
	}
	return counts, nil
}

// UsersPerWard counts users per ward in ascending ward order; users without a ward are skipped
func (r *DashboardRepository) UsersPerWard(ctx context.Context) ([]WardUserCount, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	var rows []WardUserCount
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("ward_number AS ward, COUNT(*) AS users").
		Where("ward_number IS NOT NULL").
		Group("ward_number").
		Order("ward_number ASC").
		Scan(&rows).Error
	return rows, translate(err, "user")
}

// RouteCoverage lists every ward that has a route with its schedule and truck count
func (r *DashboardRepository) RouteCoverage(ctx context.Context) ([]WardCoverage, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	var rows []WardCoverage
	err := r.db.WithContext(ctx).Table("routes").
		Select("routes.ward_number AS ward, routes.pickup_days, routes.pickup_time, COUNT(trucks.id) AS trucks").
		Joins("LEFT JOIN trucks ON trucks.route_id = routes.id").
		Group("routes.id").
		Order("routes.ward_number ASC").
		Scan(&rows).Error
	return rows, translate(err, "route")
}

// RecentComplaints returns the newest complaints with their submitters
func (r *DashboardRepository) RecentComplaints(ctx context.Context, limit int) ([]model.Complaint, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var complaints []model.Complaint
	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Order("created_at DESC").
		Limit(limit).
		Find(&complaints).Error
	return complaints, translate(err, "complaint")
}

// RecentUsers returns the newest non-admin users
func (r *DashboardRepository) RecentUsers(ctx context.Context, limit int) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role <> ?", model.RoleAdmin).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, translate(err, "user")
}

// RecentPickups returns the newest pickup requests with their owners
func (r *DashboardRepository) RecentPickups(ctx context.Context, limit int) ([]model.PickupRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var pickups []model.PickupRequest
	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Order("created_at DESC").
		Limit(limit).
		Find(&pickups).Error
	return pickups, translate(err, "pickup request")
}

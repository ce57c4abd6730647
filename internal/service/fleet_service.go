package service

import (
	"context"
	"regexp"
	"strings"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/pkg/logger"
	"waste-service/prometheus"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidPickupTime reports whether s is a 24-hour HH:MM time
func ValidPickupTime(s string) bool {
	return hhmmPattern.MatchString(s)
}

// RouteInput carries a new ward route
type RouteInput struct {
	WardNumber int
	PickupDays []string
	PickupTime string
}

// TruckInput carries a new truck; a ward links it to that ward's route
type TruckInput struct {
	DriverName  string
	DriverPhone string
	WardNumber  *int
}

// TruckSchedule is a truck serving a ward with the ward's collection schedule
type TruckSchedule struct {
	ID          uint     `json:"id"`
	DriverName  string   `json:"driver_name"`
	DriverPhone string   `json:"driver_phone"`
	PickupDays  []string `json:"pickup_days"`
	PickupTime  string   `json:"pickup_time"`
}

// WardSchedule is the route of a ward and every truck serving it
type WardSchedule struct {
	WardNumber int             `json:"ward_number"`
	PickupDays []string        `json:"pickup_days"`
	PickupTime string          `json:"pickup_time"`
	Trucks     []TruckSchedule `json:"trucks"`
}

// FleetService manages trucks and ward routes
type FleetService struct {
	fleet     FleetRepository
	dashboard Invalidator
}

// NewFleetService creates a FleetService
func NewFleetService(fleet FleetRepository, dashboard Invalidator) *FleetService {
	return &FleetService{fleet: fleet, dashboard: invalidatorOrNoop(dashboard)}
}

// CanonicalDays validates weekday names and returns them deduplicated in week order
func CanonicalDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return nil, apperror.Validation("at least one pickup day is required")
	}

	seen := make(map[string]bool, len(days))
	for _, day := range days {
		name := strings.TrimSpace(day)
		matched := false
		for _, weekday := range model.Weekdays {
			if strings.EqualFold(name, weekday) {
				seen[weekday] = true
				matched = true
				break
			}
		}
		if !matched {
			return nil, apperror.Validation("%q is not a day of the week", day)
		}
	}

	canonical := make([]string, 0, len(seen))
	for _, weekday := range model.Weekdays {
		if seen[weekday] {
			canonical = append(canonical, weekday)
		}
	}
	return canonical, nil
}

// AddRoute creates the collection route of a ward
func (s *FleetService) AddRoute(ctx context.Context, in RouteInput) (*model.Route, error) {
	if in.WardNumber <= 0 {
		return nil, apperror.Validation("ward number must be positive")
	}
	days, err := CanonicalDays(in.PickupDays)
	if err != nil {
		return nil, err
	}
	pickupTime := strings.TrimSpace(in.PickupTime)
	if pickupTime == "" {
		pickupTime = model.DefaultPickupTime
	}
	if !ValidPickupTime(pickupTime) {
		return nil, apperror.Validation("pickup time must be HH:MM")
	}

	route := &model.Route{
		WardNumber: in.WardNumber,
		PickupDays: pq.StringArray(days),
		PickupTime: pickupTime,
	}
	if err := s.fleet.CreateRoute(ctx, route); err != nil {
		return nil, err
	}

	s.dashboard.Invalidate(ctx)
	prometheus.RecordFleetOperation("add_route")
	logger.FromContext(ctx).Info("Route added",
		zap.Int("ward_number", route.WardNumber),
		zap.Strings("pickup_days", days),
		zap.String("pickup_time", pickupTime))
	return route, nil
}

// AddTruck registers a truck, linking it to a ward's route when a ward is given
func (s *FleetService) AddTruck(ctx context.Context, in TruckInput) (*model.Truck, error) {
	name := strings.TrimSpace(in.DriverName)
	phone := strings.TrimSpace(in.DriverPhone)
	if name == "" {
		return nil, apperror.Validation("driver name is required")
	}
	if !ValidMobile(phone) {
		return nil, apperror.Validation("driver phone must be a 10 digit mobile number starting with 97 or 98")
	}

	truck := &model.Truck{DriverName: name, DriverPhone: phone}
	if in.WardNumber != nil {
		route, err := s.fleet.FindRouteByWard(ctx, *in.WardNumber)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NotFound("route for this ward")
			}
			return nil, err
		}
		truck.RouteID = &route.ID
		truck.Route = route
		route.Trucks = nil
	}

	if err := s.fleet.CreateTruck(ctx, truck); err != nil {
		return nil, err
	}

	s.dashboard.Invalidate(ctx)
	prometheus.RecordFleetOperation("add_truck")
	logger.FromContext(ctx).Info("Truck added", zap.Uint("truck_id", truck.ID))
	return truck, nil
}

// ListTrucks returns every truck with its route
func (s *FleetService) ListTrucks(ctx context.Context) ([]model.Truck, error) {
	trucks, err := s.fleet.ListTrucks(ctx)
	if trucks == nil && err == nil {
		trucks = []model.Truck{}
	}
	return trucks, err
}

// ListRoutes returns every route with its trucks
func (s *FleetService) ListRoutes(ctx context.Context) ([]model.Route, error) {
	routes, err := s.fleet.ListRoutes(ctx)
	if routes == nil && err == nil {
		routes = []model.Route{}
	}
	return routes, err
}

// TrucksForWard returns the ward's schedule and the trucks serving it
func (s *FleetService) TrucksForWard(ctx context.Context, ward int) (*WardSchedule, error) {
	route, err := s.fleet.FindRouteByWard(ctx, ward)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NotFound("route for this ward")
		}
		return nil, err
	}

	days := []string(route.PickupDays)
	schedule := &WardSchedule{
		WardNumber: route.WardNumber,
		PickupDays: days,
		PickupTime: route.PickupTime,
		Trucks:     make([]TruckSchedule, 0, len(route.Trucks)),
	}
	for _, truck := range route.Trucks {
		schedule.Trucks = append(schedule.Trucks, TruckSchedule{
			ID:          truck.ID,
			DriverName:  truck.DriverName,
			DriverPhone: truck.DriverPhone,
			PickupDays:  days,
			PickupTime:  route.PickupTime,
		})
	}
	return schedule, nil
}

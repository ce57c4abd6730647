package handler

import (
	"net/http"
	"strconv"

	"waste-service/internal/apperror"
	"waste-service/internal/service"

	"github.com/labstack/echo/v4"
)

// RouteRequest defines the structure for new ward routes
type RouteRequest struct {
	WardNumber int      `json:"ward_number" validate:"required,gt=0"`
	PickupDays []string `json:"pickup_days" validate:"required,min=1"`
	PickupTime string   `json:"pickup_time" validate:"omitempty,hhmm"`
}

// TruckRequest defines the structure for new trucks
type TruckRequest struct {
	DriverName  string `json:"driver_name" validate:"required"`
	DriverPhone string `json:"driver_phone" validate:"required,npphone"`
	WardNumber  *int   `json:"ward_number" validate:"omitempty,gt=0"`
}

// FleetHandler serves truck and route endpoints
type FleetHandler struct {
	fleet FleetService
}

// NewFleetHandler creates a FleetHandler
func NewFleetHandler(fleet FleetService) *FleetHandler {
	return &FleetHandler{fleet: fleet}
}

// AddRoute creates a ward's collection route
func (h *FleetHandler) AddRoute(c echo.Context) error {
	var req RouteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	route, err := h.fleet.AddRoute(c.Request().Context(), service.RouteInput{
		WardNumber: req.WardNumber,
		PickupDays: req.PickupDays,
		PickupTime: req.PickupTime,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, echo.Map{
		"message": "route added successfully",
		"route":   route,
	})
}

// AddTruck registers a truck, optionally on a ward's route
func (h *FleetHandler) AddTruck(c echo.Context) error {
	var req TruckRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	truck, err := h.fleet.AddTruck(c.Request().Context(), service.TruckInput{
		DriverName:  req.DriverName,
		DriverPhone: req.DriverPhone,
		WardNumber:  req.WardNumber,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, echo.Map{
		"message": "truck added successfully",
		"truck":   truck,
	})
}

// ListTrucks returns every truck
func (h *FleetHandler) ListTrucks(c echo.Context) error {
	trucks, err := h.fleet.ListTrucks(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"trucks": trucks})
}

// ListRoutes returns every ward route
func (h *FleetHandler) ListRoutes(c echo.Context) error {
	routes, err := h.fleet.ListRoutes(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"routes": routes})
}

// TrucksForWard returns the schedule and trucks of one ward
func (h *FleetHandler) TrucksForWard(c echo.Context) error {
	ward, err := strconv.Atoi(c.Param("ward"))
	if err != nil || ward <= 0 {
		return apperror.Validation("invalid ward")
	}

	schedule, err := h.fleet.TrucksForWard(c.Request().Context(), ward)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"ward_number": schedule.WardNumber,
		"pickup_days": schedule.PickupDays,
		"pickup_time": schedule.PickupTime,
		"trucks":      schedule.Trucks,
	})
}

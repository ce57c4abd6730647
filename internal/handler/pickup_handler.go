package handler

import (
	"net/http"
	"time"

	"waste-service/internal/apperror"
	"waste-service/internal/service"

	"github.com/labstack/echo/v4"
)

// PickupRequest defines the structure for bulk pickup requests
type PickupRequest struct {
	Address           string  `json:"address" validate:"required"`
	WasteType         string  `json:"waste_type" validate:"required,oneof=organic recyclable hazardous"`
	EstimatedQuantity float64 `json:"estimated_quantity" validate:"required"`
	PreferredDate     string  `json:"preferred_date" validate:"required"`
	Notes             string  `json:"notes"`
}

// PickupHandler serves bulk pickup endpoints
type PickupHandler struct {
	pickups PickupService
}

// NewPickupHandler creates a PickupHandler
func NewPickupHandler(pickups PickupService) *PickupHandler {
	return &PickupHandler{pickups: pickups}
}

// Request records a pending pickup for the calling business
func (h *PickupHandler) Request(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req PickupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	date, err := parseDate(req.PreferredDate)
	if err != nil {
		return err
	}

	pickup, err := h.pickups.RequestPickup(c.Request().Context(), id.UserID, service.PickupInput{
		Address:           req.Address,
		WasteType:         req.WasteType,
		EstimatedQuantity: req.EstimatedQuantity,
		PreferredDate:     date,
		Notes:             req.Notes,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, echo.Map{
		"message": "pickup requested successfully",
		"pickup":  pickup,
	})
}

// ListMine returns the caller's pickup requests
func (h *PickupHandler) ListMine(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	pickups, err := h.pickups.ListMyPickups(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"pickups": pickups})
}

// ListAll returns every pickup request, optionally filtered by ?status=
func (h *PickupHandler) ListAll(c echo.Context) error {
	pickups, err := h.pickups.ListAllPickups(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"pickups": pickups})
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.Validation("preferred_date must be a date like 2006-01-02")
}

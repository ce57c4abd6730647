package handler

import (
	"net/http"

	"waste-service/internal/model"
	"waste-service/internal/service"

	"github.com/labstack/echo/v4"
)

// ComplaintRequest defines the form fields of a new complaint
type ComplaintRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Location    string `json:"location" form:"location" validate:"required"`
	Category    string `json:"category" form:"category" validate:"required"`
}

// StatusRequest carries a requested status change
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ComplaintHandler serves complaint endpoints
type ComplaintHandler struct {
	complaints ComplaintService
}

// NewComplaintHandler creates a ComplaintHandler
func NewComplaintHandler(complaints ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

// Create records a complaint with an optional image
func (h *ComplaintHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req ComplaintRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	image, release, err := optionalUpload(c, "image")
	if err != nil {
		return err
	}
	defer release()

	complaint, err := h.complaints.CreateComplaint(c.Request().Context(), id.UserID, service.ComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
	}, image)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, echo.Map{
		"message":   "complaint submitted successfully",
		"complaint": complaint,
	})
}

// ListMine returns the caller's complaints
func (h *ComplaintHandler) ListMine(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	complaints, err := h.complaints.ListMyComplaints(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"complaints": complaints})
}

// ListAll returns every complaint, optionally filtered by ?status=
func (h *ComplaintHandler) ListAll(c echo.Context) error {
	complaints, err := h.complaints.ListAllComplaints(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"complaints": complaints})
}

// UpdateStatus moves a complaint along its lifecycle
func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	complaintID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaints.UpdateComplaintStatus(c.Request().Context(), complaintID, model.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"message":   "complaint status updated",
		"complaint": complaint,
	})
}

package handler

import (
	"net/http"

	"waste-service/internal/service"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the administrator overview endpoints
type AdminHandler struct {
	dashboard DashboardService
	users     UserService
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(dashboard DashboardService, users UserService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, users: users}
}

// Dashboard returns the statistics snapshot
func (h *AdminHandler) Dashboard(c echo.Context) error {
	snapshot, err := h.dashboard.GetDashboardSnapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"data": snapshot})
}

// ListUsers returns one page of users filtered by role, ward and search
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ward, err := intQuery(c, "ward")
	if err != nil {
		return err
	}
	page, err := intQuery(c, "page")
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}

	result, err := h.users.ListUsers(c.Request().Context(), service.UserListParams{
		Role:   c.QueryParam("role"),
		Ward:   ward,
		Search: c.QueryParam("search"),
		Page:   intOrZero(page),
		Limit:  intOrZero(limit),
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, echo.Map{
		"users":       result.Users,
		"total":       result.Total,
		"page":        result.Page,
		"limit":       result.Limit,
		"total_pages": result.TotalPages,
	})
}

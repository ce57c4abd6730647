package handler

import (
	"net/http"

	"waste-service/internal/model"
	"waste-service/internal/service"

	"github.com/labstack/echo/v4"
)

// CheckoutRequest defines the delivery details of a checkout
type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required,min=5"`
	ContactNumber   string `json:"contact_number" validate:"required,npphone"`
	Notes           string `json:"notes"`
	PaymentMethod   string `json:"payment_method"`
}

// OrderHandler serves checkout and order tracking
type OrderHandler struct {
	orders OrderService
}

// NewOrderHandler creates an OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Checkout turns the selected cart lines into an order
func (h *OrderHandler) Checkout(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req CheckoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.orders.Checkout(c.Request().Context(), id.UserID, service.CheckoutInput{
		DeliveryAddress: req.DeliveryAddress,
		ContactNumber:   req.ContactNumber,
		Notes:           req.Notes,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, echo.Map{
		"message": "order placed successfully",
		"order":   order,
	})
}

// ListMine returns the caller's orders
func (h *OrderHandler) ListMine(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListMyOrders(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"orders": orders})
}

// ListSales returns orders containing the caller's products
func (h *OrderHandler) ListSales(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListSales(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"orders": orders})
}

// Get returns one order to a party of it
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.GetOrder(c.Request().Context(), actorOf(id), orderID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"order": order})
}

// UpdateStatus moves an order along its lifecycle
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.orders.UpdateOrderStatus(c.Request().Context(), actorOf(id), orderID, model.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"message": "order status updated",
		"order":   order,
	})
}

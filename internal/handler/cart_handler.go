package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AddToCartRequest defines the structure for adding a product to the cart
type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity"`
}

// UpdateCartRequest defines the structure for changing a cart line
type UpdateCartRequest struct {
	Quantity *int  `json:"quantity"`
	Selected *bool `json:"selected"`
}

// CartHandler serves the caller's cart
type CartHandler struct {
	carts CartService
}

// NewCartHandler creates a CartHandler
func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get returns the cart with its pricing preview
func (h *CartHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	cart, err := h.carts.GetCart(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"cart": cart})
}

// Add puts a product in the cart, one unit unless a quantity is given
func (h *CartHandler) Add(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req AddToCartRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.carts.AddToCart(c.Request().Context(), id.UserID, req.ProductID, quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"message": "product added to cart",
		"cart":    cart,
	})
}

// Update changes the quantity and/or selection of a line; quantity below one removes it
func (h *CartHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	productID, err := idParam(c, "productId")
	if err != nil {
		return err
	}

	var req UpdateCartRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cart, err := h.carts.UpdateCartItem(c.Request().Context(), id.UserID, productID, req.Quantity, req.Selected)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"cart": cart})
}

// Remove drops one line
func (h *CartHandler) Remove(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	productID, err := idParam(c, "productId")
	if err != nil {
		return err
	}

	cart, err := h.carts.RemoveFromCart(c.Request().Context(), id.UserID, productID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"message": "product removed from cart",
		"cart":    cart,
	})
}

// Clear empties the cart
func (h *CartHandler) Clear(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	cart, err := h.carts.ClearCart(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"message": "cart cleared",
		"cart":    cart,
	})
}

package service

import (
	"context"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/pkg/logger"
	"waste-service/prometheus"

	"go.uber.org/zap"
)

// CartSummary is the pricing preview over the selected lines
type CartSummary struct {
	ItemCount     int `json:"item_count"`
	SelectedCount int `json:"selected_count"`
	PriceSummary
}

// CartView is the cart as returned to its owner
type CartView struct {
	Items   []model.CartItem `json:"items"`
	Summary CartSummary      `json:"summary"`
}

// CartService manages per-user carts
type CartService struct {
	carts    CartRepository
	products ProductRepository
}

// NewCartService creates a CartService
func NewCartService(carts CartRepository, products ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart returns the user's lines with a pricing preview
func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CartItem{}
	}

	price, selected := priceCart(items)
	return &CartView{
		Items: items,
		Summary: CartSummary{
			ItemCount:     len(items),
			SelectedCount: selected,
			PriceSummary:  price,
		},
	}, nil
}

// AddToCart adds quantity of a product, summing into an existing line up to the cap
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint, quantity int) (*CartView, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity < model.MinCartQuantity || quantity > model.MaxCartQuantity {
		return nil, apperror.ErrInvalidQuantity
	}
	if !product.IsAvailable() {
		return nil, apperror.Validation("product %q is not available", product.Name)
	}

	if err := s.carts.AddItem(ctx, userID, productID, quantity, model.MaxCartQuantity); err != nil {
		return nil, err
	}

	prometheus.RecordCartOperation("add")
	logger.FromContext(ctx).Info("Product added to cart",
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity))
	return s.GetCart(ctx, userID)
}

// UpdateCartItem changes the quantity and/or selection of a line; a quantity below one removes it
func (s *CartService) UpdateCartItem(ctx context.Context, userID, productID uint, quantity *int, selected *bool) (*CartView, error) {
	if quantity == nil && selected == nil {
		return nil, apperror.Validation("quantity or selected is required")
	}
	if quantity != nil {
		if *quantity < model.MinCartQuantity {
			return s.RemoveFromCart(ctx, userID, productID)
		}
		if *quantity > model.MaxCartQuantity {
			return nil, apperror.ErrInvalidQuantity
		}
	}

	if err := s.carts.UpdateItem(ctx, userID, productID, quantity, selected); err != nil {
		return nil, err
	}

	prometheus.RecordCartOperation("update")
	return s.GetCart(ctx, userID)
}

// RemoveFromCart drops one line; a missing line is not an error
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) (*CartView, error) {
	if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	prometheus.RecordCartOperation("remove")
	return s.GetCart(ctx, userID)
}

// ClearCart drops every line
func (s *CartService) ClearCart(ctx context.Context, userID uint) (*CartView, error) {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return nil, err
	}

	prometheus.RecordCartOperation("clear")
	return s.GetCart(ctx, userID)
}

package service

import (
	"context"
	"strings"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/pkg/logger"
	"waste-service/prometheus"

	"go.uber.org/zap"
)

// MinAddressLength is the shortest accepted delivery address
const MinAddressLength = 5

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uint
	Role   model.Role
}

// IsAdmin reports whether the actor is an administrator
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CheckoutInput carries the delivery details of a checkout
type CheckoutInput struct {
	DeliveryAddress string
	ContactNumber   string
	Notes           string
	PaymentMethod   string
}

// OrderService places and tracks orders
type OrderService struct {
	orders OrderRepository
}

// NewOrderService creates an OrderService
func NewOrderService(orders OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// Checkout turns the buyer's selected cart lines into one order
func (s *OrderService) Checkout(ctx context.Context, buyerID uint, in CheckoutInput) (*model.Order, error) {
	address := strings.TrimSpace(in.DeliveryAddress)
	if len(address) < MinAddressLength {
		return nil, apperror.Validation("delivery address must be at least %d characters", MinAddressLength)
	}
	contact := strings.TrimSpace(in.ContactNumber)
	if !ValidMobile(contact) {
		return nil, apperror.Validation("contact number must be a 10 digit mobile number starting with 97 or 98")
	}
	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = model.DefaultPaymentMethod
	}

	order, err := s.orders.CreateFromCart(ctx, buyerID, func(lines []model.CartItem) (*model.Order, error) {
		items := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			product := line.Product
			if product == nil {
				return nil, apperror.Validation("a product in your cart no longer exists")
			}
			if !product.IsAvailable() {
				return nil, apperror.Validation("product %q is no longer available", product.Name)
			}

			items = append(items, model.OrderItem{
				ProductID:   product.ID,
				SellerID:    product.SellerID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
				Subtotal:    lineSubtotal(product.Price, line.Quantity),
			})
		}

		price, _ := priceCart(lines)
		return &model.Order{
			Items:           items,
			Subtotal:        price.Subtotal,
			Tax:             price.Tax,
			Shipping:        price.Shipping,
			EcoDiscount:     price.EcoDiscount,
			TotalAmount:     price.Total,
			DeliveryAddress: address,
			ContactNumber:   contact,
			Notes:           strings.TrimSpace(in.Notes),
			PaymentMethod:   payment,
			Status:          model.OrderPending,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordOrderOperation("checkout")
	prometheus.ObserveCheckout(order.TotalAmount.InexactFloat64())
	logger.FromContext(ctx).Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	return order, nil
}

// ListMyOrders returns the buyer's orders
func (s *OrderService) ListMyOrders(ctx context.Context, buyerID uint) ([]model.Order, error) {
	orders, err := s.orders.ListByBuyer(ctx, buyerID)
	if orders == nil && err == nil {
		orders = []model.Order{}
	}
	return orders, err
}

// ListSales returns orders that contain the seller's products
func (s *OrderService) ListSales(ctx context.Context, sellerID uint) ([]model.Order, error) {
	orders, err := s.orders.ListBySeller(ctx, sellerID)
	if orders == nil && err == nil {
		orders = []model.Order{}
	}
	return orders, err
}

// GetOrder returns an order to its buyer, its sellers or an admin
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, id uint) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.UserID && !order.HasSeller(actor.UserID) && !actor.IsAdmin() {
		return nil, apperror.Forbidden("not authorized to view this order")
	}
	return order, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Buyers may only
// cancel; sellers in the order and admins may make any allowed move.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actor Actor, id uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, apperror.Validation("unknown order status %q", status)
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isBuyer := order.BuyerID == actor.UserID
	canManage := order.HasSeller(actor.UserID) || actor.IsAdmin()
	switch {
	case !isBuyer && !canManage:
		return nil, apperror.Forbidden("not authorized to update this order")
	case !canManage && status != model.OrderCancelled:
		return nil, apperror.Forbidden("buyers can only cancel an order")
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, apperror.ErrInvalidTransition.WithMessage("cannot move order from %s to %s", order.Status, status)
	}

	if err := s.orders.UpdateStatus(ctx, id, order.Status, status); err != nil {
		return nil, err
	}

	prometheus.RecordOrderOperation("status_" + string(status))
	logger.FromContext(ctx).Info("Order status updated",
		zap.Uint("order_id", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)))

	order.Status = status
	return order, nil
}

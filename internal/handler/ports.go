package handler

import (
	"context"

	"waste-service/internal/model"
	"waste-service/internal/service"
	"waste-service/pkg/media"
)

type UserService interface {
	Signup(ctx context.Context, in service.SignupInput) (*model.User, string, error)
	Signin(ctx context.Context, email, password string) (*model.User, string, error)
	GetMe(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, in service.ProfileInput) (*model.User, error)
	ListUsers(ctx context.Context, p service.UserListParams) (*service.UserPage, error)
}

type ProductService interface {
	ListProducts(ctx context.Context, p service.ProductListParams) (*service.ProductPage, error)
	GetProduct(ctx context.Context, id uint) (*service.ProductListing, error)
	CreateProduct(ctx context.Context, sellerID uint, in service.ProductInput, images []media.File) (*model.Product, error)
	UpdateProduct(ctx context.Context, sellerID, id uint, in service.ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, sellerID, id uint) error
	ListMyListings(ctx context.Context, sellerID uint) ([]model.Product, error)
}

type CartService interface {
	GetCart(ctx context.Context, userID uint) (*service.CartView, error)
	AddToCart(ctx context.Context, userID, productID uint, quantity int) (*service.CartView, error)
	UpdateCartItem(ctx context.Context, userID, productID uint, quantity *int, selected *bool) (*service.CartView, error)
	RemoveFromCart(ctx context.Context, userID, productID uint) (*service.CartView, error)
	ClearCart(ctx context.Context, userID uint) (*service.CartView, error)
}

type OrderService interface {
	Checkout(ctx context.Context, buyerID uint, in service.CheckoutInput) (*model.Order, error)
	ListMyOrders(ctx context.Context, buyerID uint) ([]model.Order, error)
	ListSales(ctx context.Context, sellerID uint) ([]model.Order, error)
	GetOrder(ctx context.Context, actor service.Actor, id uint) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, actor service.Actor, id uint, status model.OrderStatus) (*model.Order, error)
}

type ComplaintService interface {
	CreateComplaint(ctx context.Context, userID uint, in service.ComplaintInput, image *media.File) (*model.Complaint, error)
	ListMyComplaints(ctx context.Context, userID uint) ([]model.Complaint, error)
	ListAllComplaints(ctx context.Context, status string) ([]model.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id uint, status model.ComplaintStatus) (*model.Complaint, error)
}

type PickupService interface {
	RequestPickup(ctx context.Context, userID uint, in service.PickupInput) (*model.PickupRequest, error)
	ListMyPickups(ctx context.Context, userID uint) ([]model.PickupRequest, error)
	ListAllPickups(ctx context.Context, status string) ([]model.PickupRequest, error)
}

type FleetService interface {
	AddRoute(ctx context.Context, in service.RouteInput) (*model.Route, error)
	AddTruck(ctx context.Context, in service.TruckInput) (*model.Truck, error)
	ListTrucks(ctx context.Context) ([]model.Truck, error)
	ListRoutes(ctx context.Context) ([]model.Route, error)
	TrucksForWard(ctx context.Context, ward int) (*service.WardSchedule, error)
}

type DashboardService interface {
	GetDashboardSnapshot(ctx context.Context) (*service.DashboardSnapshot, error)
}

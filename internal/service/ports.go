package service

import (
	"context"

	"waste-service/internal/model"
	"waste-service/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	List(ctx context.Context, q repository.UserQuery) ([]model.User, int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	IncrementViews(ctx context.Context, id uint) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	ListBySeller(ctx context.Context, sellerID uint) ([]model.Product, error)
	List(ctx context.Context, q repository.ProductQuery) ([]model.Product, int64, error)
}

type CartRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.CartItem, error)
	AddItem(ctx context.Context, userID, productID uint, quantity, max int) error
	UpdateItem(ctx context.Context, userID, productID uint, quantity *int, selected *bool) error
	RemoveItem(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
}

type OrderRepository interface {
	CreateFromCart(ctx context.Context, buyerID uint, build repository.OrderBuilder) (*model.Order, error)
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID uint) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint, from, to model.OrderStatus) error
}

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	FindByID(ctx context.Context, id uint) (*model.Complaint, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Complaint, error)
	ListAll(ctx context.Context, status model.ComplaintStatus) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id uint, from, to model.ComplaintStatus) error
}

type PickupRepository interface {
	Create(ctx context.Context, pickup *model.PickupRequest) error
	ListByUser(ctx context.Context, userID uint) ([]model.PickupRequest, error)
	ListAll(ctx context.Context, status model.PickupStatus) ([]model.PickupRequest, error)
}

type FleetRepository interface {
	CreateRoute(ctx context.Context, route *model.Route) error
	FindRouteByWard(ctx context.Context, ward int) (*model.Route, error)
	ListRoutes(ctx context.Context) ([]model.Route, error)
	CreateTruck(ctx context.Context, truck *model.Truck) error
	ListTrucks(ctx context.Context) ([]model.Truck, error)
}

type DashboardRepository interface {
	UserRoleCounts(ctx context.Context) (map[model.Role]int64, error)
	ComplaintStatusCounts(ctx context.Context) (map[model.ComplaintStatus]int64, error)
	FleetCounts(ctx context.Context) (repository.FleetCounts, error)
	PickupCounts(ctx context.Context) (repository.PickupCounts, error)
	UsersPerWard(ctx context.Context) ([]repository.WardUserCount, error)
	RouteCoverage(ctx context.Context) ([]repository.WardCoverage, error)
	RecentComplaints(ctx context.Context, limit int) ([]model.Complaint, error)
	RecentUsers(ctx context.Context, limit int) ([]model.User, error)
	RecentPickups(ctx context.Context, limit int) ([]model.PickupRequest, error)
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateToken(userID uint, email, role string) (string, error)
}

// Invalidator is told about writes that change dashboard figures
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

func invalidatorOrNoop(inv Invalidator) Invalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}

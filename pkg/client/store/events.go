package store

import (
	"waste-service/internal/model"
	"waste-service/internal/service"
	"waste-service/pkg/client"
)

// Event is anything Reduce understands
type Event interface {
	event()
}

type (
	AuthRequested struct{}
	SignedIn      struct{ User *model.User }
	AuthFailed    struct{ Err error }
	SignedOut     struct{}

	CartRequested struct{}
	CartLoaded    struct{ Cart *service.CartView }
	CartFailed    struct{ Err error }
	OrderPlaced   struct{ Order *model.Order }

	ComplaintsRequested struct{}
	ComplaintsLoaded    struct{ Complaints []model.Complaint }
	ComplaintCreated    struct{ Complaint model.Complaint }
	ComplaintsFailed    struct{ Err error }

	PickupsRequested struct{}
	PickupsLoaded    struct{ Pickups []model.PickupRequest }
	PickupRequested  struct{ Pickup model.PickupRequest }
	PickupsFailed    struct{ Err error }

	DashboardRequested struct{}
	DashboardLoaded    struct{ Snapshot *service.DashboardSnapshot }
	DashboardFailed    struct{ Err error }

	ProductsRequested struct{ Query client.ProductQuery }
	ProductsLoaded    struct {
		Products   []service.ProductListing
		Pagination client.Pagination
	}
	ProductListed  struct{ Product model.Product }
	ProductsFailed struct{ Err error }
)

func (AuthRequested) event() {}
func (SignedIn) event()      {}
func (AuthFailed) event()    {}
func (SignedOut) event()     {}

func (CartRequested) event() {}
func (CartLoaded) event()    {}
func (CartFailed) event()    {}
func (OrderPlaced) event()   {}

func (ComplaintsRequested) event() {}
func (ComplaintsLoaded) event()    {}
func (ComplaintCreated) event()    {}
func (ComplaintsFailed) event()    {}

func (PickupsRequested) event() {}
func (PickupsLoaded) event()    {}
func (PickupRequested) event()  {}
func (PickupsFailed) event()    {}

func (DashboardRequested) event() {}
func (DashboardLoaded) event()    {}
func (DashboardFailed) event()    {}

func (ProductsRequested) event() {}
func (ProductsLoaded) event()    {}
func (ProductListed) event()     {}
func (ProductsFailed) event()    {}

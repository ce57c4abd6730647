// Package store holds the client-side view of the API as typed state slices.
// Reduce is pure: it never mutates the state it is given, and callers own
// the State value.
package store

import (
	"waste-service/internal/model"
	"waste-service/internal/service"
	"waste-service/pkg/client"
)

// Status is the lifecycle of the last request a slice made
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Request tracks one slice's in-flight call
type Request struct {
	Status Status
	Error  string
}

func loading() Request { return Request{Status: StatusLoading} }

func succeeded() Request { return Request{Status: StatusSucceeded} }

func failed(err error) Request {
	r := Request{Status: StatusFailed}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Loading reports whether a call is in flight
func (r Request) Loading() bool { return r.Status == StatusLoading }

type AuthState struct {
	Request
	User *model.User
}

// SignedIn reports whether a session is open
func (s AuthState) SignedIn() bool { return s.User != nil }

// IsAdmin reports whether the signed-in user is an administrator
func (s AuthState) IsAdmin() bool { return s.User != nil && s.User.Role == model.RoleAdmin }

type CartState struct {
	Request
	Cart      *service.CartView
	LastOrder *model.Order
}

// Count is the number of lines in the cart
func (s CartState) Count() int {
	if s.Cart == nil {
		return 0
	}
	return len(s.Cart.Items)
}

type ComplaintsState struct {
	Request
	Items []model.Complaint
}

type PickupsState struct {
	Request
	Items []model.PickupRequest
}

type AdminState struct {
	Request
	Dashboard *service.DashboardSnapshot
}

type ProductsState struct {
	Request
	Query      client.ProductQuery
	Items      []service.ProductListing
	Pagination client.Pagination
	Mine       []model.Product
}

// State is the whole client view
type State struct {
	Auth       AuthState
	Cart       CartState
	Complaints ComplaintsState
	Pickups    PickupsState
	Admin      AdminState
	Products   ProductsState
}

// New returns the initial state
func New() State {
	idle := Request{Status: StatusIdle}
	return State{
		Auth:       AuthState{Request: idle},
		Cart:       CartState{Request: idle},
		Complaints: ComplaintsState{Request: idle},
		Pickups:    PickupsState{Request: idle},
		Admin:      AdminState{Request: idle},
		Products:   ProductsState{Request: idle},
	}
}

// Reduce returns the state after e
func Reduce(s State, e Event) State {
	if _, ok := e.(SignedOut); ok {
		// Drop everything tied to the old session but keep the public catalog
		next := New()
		next.Products = s.Products
		next.Products.Mine = nil
		return next
	}

	s.Auth = reduceAuth(s.Auth, e)
	s.Cart = reduceCart(s.Cart, e)
	s.Complaints = reduceComplaints(s.Complaints, e)
	s.Pickups = reducePickups(s.Pickups, e)
	s.Admin = reduceAdmin(s.Admin, e)
	s.Products = reduceProducts(s.Products, e)
	return s
}

func reduceAuth(s AuthState, e Event) AuthState {
	switch e := e.(type) {
	case AuthRequested:
		s.Request = loading()
	case SignedIn:
		s.Request = succeeded()
		s.User = e.User
	case AuthFailed:
		s.Request = failed(e.Err)
		s.User = nil
	}
	return s
}

func reduceCart(s CartState, e Event) CartState {
	switch e := e.(type) {
	case CartRequested:
		s.Request = loading()
	case CartLoaded:
		s.Request = succeeded()
		s.Cart = e.Cart
	case CartFailed:
		s.Request = failed(e.Err)
	case OrderPlaced:
		s.Request = succeeded()
		s.LastOrder = e.Order
		s.Cart = withoutSelected(s.Cart)
	}
	return s
}

// withoutSelected drops the lines checkout consumed; the summary is refreshed by the next CartLoaded
func withoutSelected(cart *service.CartView) *service.CartView {
	if cart == nil {
		return nil
	}
	next := &service.CartView{Items: make([]model.CartItem, 0, len(cart.Items))}
	for _, item := range cart.Items {
		if !item.Selected {
			next.Items = append(next.Items, item)
		}
	}
	next.Summary.ItemCount = len(next.Items)
	return next
}

func reduceComplaints(s ComplaintsState, e Event) ComplaintsState {
	switch e := e.(type) {
	case ComplaintsRequested:
		s.Request = loading()
	case ComplaintsLoaded:
		s.Request = succeeded()
		s.Items = append([]model.Complaint(nil), e.Complaints...)
	case ComplaintCreated:
		s.Request = succeeded()
		s.Items = append([]model.Complaint{e.Complaint}, s.Items...)
	case ComplaintsFailed:
		s.Request = failed(e.Err)
	}
	return s
}

func reducePickups(s PickupsState, e Event) PickupsState {
	switch e := e.(type) {
	case PickupsRequested:
		s.Request = loading()
	case PickupsLoaded:
		s.Request = succeeded()
		s.Items = append([]model.PickupRequest(nil), e.Pickups...)
	case PickupRequested:
		s.Request = succeeded()
		s.Items = append([]model.PickupRequest{e.Pickup}, s.Items...)
	case PickupsFailed:
		s.Request = failed(e.Err)
	}
	return s
}

func reduceAdmin(s AdminState, e Event) AdminState {
	switch e := e.(type) {
	case DashboardRequested:
		s.Request = loading()
	case DashboardLoaded:
		s.Request = succeeded()
		s.Dashboard = e.Snapshot
	case DashboardFailed:
		s.Request = failed(e.Err)
	}
	return s
}

func reduceProducts(s ProductsState, e Event) ProductsState {
	switch e := e.(type) {
	case ProductsRequested:
		s.Request = loading()
		s.Query = e.Query
	case ProductsLoaded:
		s.Request = succeeded()
		s.Items = append([]service.ProductListing(nil), e.Products...)
		s.Pagination = e.Pagination
	case ProductListed:
		s.Request = succeeded()
		s.Mine = append([]model.Product{e.Product}, s.Mine...)
	case ProductsFailed:
		s.Request = failed(e.Err)
	}
	return s
}

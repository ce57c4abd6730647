package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/internal/repository"
	"waste-service/pkg/media"
)

var errStore = errors.New("store unavailable")

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uint]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return apperror.Conflict("user already exists")
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user")
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[user.ID]
	if !ok {
		return apperror.NotFound("user")
	}
	u.Name, u.Address, u.Phone, u.WardNumber = user.Name, user.Address, user.Phone, user.WardNumber
	return nil
}

func (f *fakeUsers) List(_ context.Context, q repository.UserQuery) ([]model.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.User
	for _, u := range f.byID {
		if q.Role != "" && u.Role != q.Role {
			continue
		}
		if q.Search != "" && !strings.Contains(u.Name+u.Email, q.Search) {
			continue
		}
		matched = append(matched, *u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	start := (q.Page - 1) * q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

type fakeTokens struct{ err error }

func (f fakeTokens) GenerateToken(userID uint, email, role string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + email + "-" + role, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type fakeProducts struct {
	mu       sync.Mutex
	nextID   uint
	byID     map[uint]*model.Product
	lastList repository.ProductQuery
}

func newFakeProducts(products ...model.Product) *fakeProducts {
	f := &fakeProducts{byID: map[uint]*model.Product{}}
	for i := range products {
		p := products[i]
		if p.ID > f.nextID {
			f.nextID = p.ID
		}
		f.byID[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	product.ID = f.nextID
	copied := *product
	f.byID[product.ID] = &copied
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id uint) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("product")
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProducts) IncrementViews(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return apperror.NotFound("product")
	}
	p.Views++
	return nil
}

func (f *fakeProducts) Update(_ context.Context, product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *product
	f.byID[product.ID] = &copied
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("product")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProducts) ListBySeller(_ context.Context, sellerID uint) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Product
	for _, p := range f.byID {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) List(_ context.Context, q repository.ProductQuery) ([]model.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = q
	var out []model.Product
	for _, p := range f.byID {
		if p.IsAvailable() {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

type fakeCart struct {
	mu       sync.Mutex
	nextID   uint
	lines    []model.CartItem
	products *fakeProducts
}

func newFakeCart(products *fakeProducts) *fakeCart {
	return &fakeCart{products: products}
}

func (f *fakeCart) find(userID, productID uint) int {
	for i, line := range f.lines {
		if line.UserID == userID && line.ProductID == productID {
			return i
		}
	}
	return -1
}

func (f *fakeCart) ListByUser(ctx context.Context, userID uint) ([]model.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.CartItem
	for _, line := range f.lines {
		if line.UserID != userID {
			continue
		}
		if p, err := f.products.FindByID(ctx, line.ProductID); err == nil {
			line.Product = p
		}
		out = append(out, line)
	}
	return out, nil
}

func (f *fakeCart) AddItem(_ context.Context, userID, productID uint, quantity, max int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.find(userID, productID); i >= 0 {
		f.lines[i].Quantity += quantity
		if f.lines[i].Quantity > max {
			f.lines[i].Quantity = max
		}
		return nil
	}
	f.nextID++
	f.lines = append(f.lines, model.CartItem{ID: f.nextID, UserID: userID, ProductID: productID, Quantity: quantity, Selected: true})
	return nil
}

func (f *fakeCart) UpdateItem(_ context.Context, userID, productID uint, quantity *int, selected *bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(userID, productID)
	if i < 0 {
		return apperror.NotFound("cart item")
	}
	if quantity != nil {
		f.lines[i].Quantity = *quantity
	}
	if selected != nil {
		f.lines[i].Selected = *selected
	}
	return nil
}

func (f *fakeCart) RemoveItem(_ context.Context, userID, productID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.find(userID, productID); i >= 0 {
		f.lines = append(f.lines[:i], f.lines[i+1:]...)
	}
	return nil
}

func (f *fakeCart) Clear(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.UserID != userID {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	return nil
}

// fakeOrders runs checkout against fakeCart with all-or-nothing semantics
type fakeOrders struct {
	mu      sync.Mutex
	nextID  uint
	byID    map[uint]*model.Order
	cart    *fakeCart
	failing bool
}

func newFakeOrders(cart *fakeCart) *fakeOrders {
	return &fakeOrders{byID: map[uint]*model.Order{}, cart: cart}
}

func (f *fakeOrders) CreateFromCart(ctx context.Context, buyerID uint, build repository.OrderBuilder) (*model.Order, error) {
	lines, _ := f.cart.ListByUser(ctx, buyerID)
	var selected []model.CartItem
	for _, line := range lines {
		if line.Selected {
			selected = append(selected, line)
		}
	}
	if len(selected) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	order, err := build(selected)
	if err != nil {
		return nil, err
	}
	if f.failing {
		return nil, apperror.Upstream("database operation failed", errStore)
	}

	f.mu.Lock()
	f.nextID++
	order.ID = f.nextID
	order.BuyerID = buyerID
	copied := *order
	f.byID[order.ID] = &copied
	f.mu.Unlock()

	for _, line := range selected {
		_ = f.cart.RemoveItem(ctx, buyerID, line.ProductID)
	}
	return order, nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uint) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("order")
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrders) ListByBuyer(_ context.Context, buyerID uint) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.byID {
		if o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListBySeller(_ context.Context, sellerID uint) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.byID {
		if o.HasSeller(sellerID) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uint, from, to model.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return apperror.NotFound("order")
	}
	if o.Status != from {
		return apperror.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

type fakeComplaints struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*model.Complaint
	// concurrent, when set, is written by another admin just before the next status update
	concurrent model.ComplaintStatus
}

func newFakeComplaints() *fakeComplaints {
	return &fakeComplaints{byID: map[uint]*model.Complaint{}}
}

func (f *fakeComplaints) Create(_ context.Context, c *model.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	copied := *c
	f.byID[c.ID] = &copied
	return nil
}

func (f *fakeComplaints) FindByID(_ context.Context, id uint) (*model.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("complaint")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeComplaints) ListByUser(_ context.Context, userID uint) ([]model.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Complaint
	for _, c := range f.byID {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComplaints) ListAll(_ context.Context, status model.ComplaintStatus) ([]model.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Complaint
	for _, c := range f.byID {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComplaints) UpdateStatus(_ context.Context, id uint, from, to model.ComplaintStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return apperror.ErrInvalidTransition
	}
	if f.concurrent != "" {
		c.Status, f.concurrent = f.concurrent, ""
	}
	if c.Status != from {
		return apperror.ErrInvalidTransition
	}
	c.Status = to
	return nil
}

type fakePickups struct {
	mu      sync.Mutex
	pickups []model.PickupRequest
}

func (f *fakePickups) Create(_ context.Context, p *model.PickupRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uint(len(f.pickups) + 1)
	f.pickups = append(f.pickups, *p)
	return nil
}

func (f *fakePickups) ListByUser(_ context.Context, userID uint) ([]model.PickupRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PickupRequest
	for _, p := range f.pickups {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePickups) ListAll(_ context.Context, status model.PickupStatus) ([]model.PickupRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PickupRequest
	for _, p := range f.pickups {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeFleet struct {
	mu     sync.Mutex
	routes []model.Route
	trucks []model.Truck
}

func (f *fakeFleet) CreateRoute(_ context.Context, route *model.Route) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.routes {
		if r.WardNumber == route.WardNumber {
			return apperror.Conflict("route for this ward already exists")
		}
	}
	route.ID = uint(len(f.routes) + 1)
	f.routes = append(f.routes, *route)
	return nil
}

func (f *fakeFleet) FindRouteByWard(_ context.Context, ward int) (*model.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.routes {
		if r.WardNumber == ward {
			route := r
			for _, t := range f.trucks {
				if t.RouteID != nil && *t.RouteID == r.ID {
					route.Trucks = append(route.Trucks, t)
				}
			}
			return &route, nil
		}
	}
	return nil, apperror.NotFound("route")
}

func (f *fakeFleet) ListRoutes(_ context.Context) ([]model.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Route(nil), f.routes...), nil
}

func (f *fakeFleet) CreateTruck(_ context.Context, truck *model.Truck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.trucks {
		if t.DriverPhone == truck.DriverPhone {
			return apperror.Conflict("truck with this driver phone already exists")
		}
	}
	truck.ID = uint(len(f.trucks) + 1)
	stored := *truck
	stored.Route = nil
	f.trucks = append(f.trucks, stored)
	return nil
}

func (f *fakeFleet) ListTrucks(_ context.Context) ([]model.Truck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Truck(nil), f.trucks...), nil
}

// fakeUploader records uploads and returns predictable URLs
type fakeUploader struct {
	mu      sync.Mutex
	err     error
	folders []string
	bodies  []string
}

func (f *fakeUploader) Upload(_ context.Context, folder string, file media.File) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	body, _ := io.ReadAll(file.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders = append(f.folders, folder)
	f.bodies = append(f.bodies, string(body))
	return "https://cdn.example.com/" + folder + "/" + file.Name, nil
}

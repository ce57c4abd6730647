// Package client is a typed HTTP client for the waste service API.
// The session cookie set at signin is kept in the client's cookie jar.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"waste-service/internal/model"
	"waste-service/internal/service"
)

// Client talks to one waste service instance
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// APIError is a failed response decoded from the error envelope
type APIError struct {
	Status  int
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d %s - %s", e.Status, e.Code, e.Message)
}

// Upload is a file attached to a multipart request
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Pagination describes one page of the product catalog
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// ProductQuery filters the product catalog; zero values are omitted
type ProductQuery struct {
	Search      string
	Category    string
	ListingType string
	MinPrice    string
	MaxPrice    string
	Ward        int
	Condition   string
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	setInt := func(key string, value int) {
		if value > 0 {
			v.Set(key, strconv.Itoa(value))
		}
	}
	set("search", q.Search)
	set("category", q.Category)
	set("listing_type", q.ListingType)
	set("min_price", q.MinPrice)
	set("max_price", q.MaxPrice)
	set("condition", q.Condition)
	set("sort_by", q.SortBy)
	set("sort_order", q.SortOrder)
	setInt("ward", q.Ward)
	setInt("page", q.Page)
	setInt("page_size", q.PageSize)
	return v
}

// SignupRequest carries a new account
type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	WardNumber *int   `json:"ward_number,omitempty"`
}

// ProductForm carries a new listing
type ProductForm struct {
	Name        string
	Description string
	Category    string
	ListingType string
	Price       string
	Condition   string
	Quantity    int
	Location    string
	WardNumber  int
}

// CheckoutRequest carries the delivery details of an order
type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address"`
	ContactNumber   string `json:"contact_number"`
	Notes           string `json:"notes,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
}

// ComplaintForm carries a new complaint
type ComplaintForm struct {
	Title       string
	Description string
	Location    string
	Category    string
}

// PickupRequest carries a bulk pickup request
type PickupRequest struct {
	Address           string  `json:"address"`
	WasteType         string  `json:"waste_type"`
	EstimatedQuantity float64 `json:"estimated_quantity"`
	PreferredDate     string  `json:"preferred_date"`
	Notes             string  `json:"notes,omitempty"`
}

// New creates a client with its own cookie jar
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}, nil
}

// Signup registers an account and keeps its session
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", nil, req, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Signin opens a session
func (c *Client) Signin(ctx context.Context, email, password string) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signin", nil, body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout closes the session
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/getMe", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListProducts returns one catalog page
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]service.ProductListing, Pagination, error) {
	var out struct {
		Products   []service.ProductListing `json:"products"`
		Pagination Pagination               `json:"pagination"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/products", q.values(), nil, &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.Products, out.Pagination, nil
}

// GetProduct returns one product
func (c *Client) GetProduct(ctx context.Context, id uint) (*service.ProductListing, error) {
	var out struct {
		Product *service.ProductListing `json:"product"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// CreateProduct lists a product with its images
func (c *Client) CreateProduct(ctx context.Context, form ProductForm, images ...Upload) (*model.Product, error) {
	fields := map[string]string{
		"name":         form.Name,
		"description":  form.Description,
		"category":     form.Category,
		"listing_type": form.ListingType,
		"price":        form.Price,
		"condition":    form.Condition,
		"location":     form.Location,
	}
	if form.Quantity > 0 {
		fields["quantity"] = strconv.Itoa(form.Quantity)
	}
	if form.WardNumber > 0 {
		fields["ward_number"] = strconv.Itoa(form.WardNumber)
	}

	var out struct {
		Product *model.Product `json:"product"`
	}
	if err := c.doMultipart(ctx, "/products", fields, "images", images, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// Cart returns the caller's cart
func (c *Client) Cart(ctx context.Context) (*service.CartView, error) {
	return c.cartCall(ctx, http.MethodGet, "/products/cart", nil)
}

// AddToCart adds quantity units of a product
func (c *Client) AddToCart(ctx context.Context, productID uint, quantity int) (*service.CartView, error) {
	return c.cartCall(ctx, http.MethodPost, "/products/cart", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	})
}

// UpdateCartItem sets a line's quantity and selection; nil leaves either unchanged
func (c *Client) UpdateCartItem(ctx context.Context, productID uint, quantity *int, selected *bool) (*service.CartView, error) {
	body := map[string]interface{}{}
	if quantity != nil {
		body["quantity"] = *quantity
	}
	if selected != nil {
		body["selected"] = *selected
	}
	return c.cartCall(ctx, http.MethodPut, fmt.Sprintf("/products/cart/%d", productID), body)
}

// RemoveFromCart drops one line
func (c *Client) RemoveFromCart(ctx context.Context, productID uint) (*service.CartView, error) {
	return c.cartCall(ctx, http.MethodDelete, fmt.Sprintf("/products/cart/%d", productID), nil)
}

// ClearCart empties the cart
func (c *Client) ClearCart(ctx context.Context) (*service.CartView, error) {
	return c.cartCall(ctx, http.MethodDelete, "/products/cart", nil)
}

func (c *Client) cartCall(ctx context.Context, method, path string, body interface{}) (*service.CartView, error) {
	var out struct {
		Cart *service.CartView `json:"cart"`
	}
	if err := c.doJSON(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out.Cart, nil
}

// Checkout turns the selected cart lines into an order
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*model.Order, error) {
	var out struct {
		Order *model.Order `json:"order"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/products/orders/checkout", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

// MyOrders returns the caller's orders
func (c *Client) MyOrders(ctx context.Context) ([]model.Order, error) {
	var out struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/products/orders/my-orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// CreateComplaint files a complaint; image may be nil
func (c *Client) CreateComplaint(ctx context.Context, form ComplaintForm, image *Upload) (*model.Complaint, error) {
	fields := map[string]string{
		"title":       form.Title,
		"description": form.Description,
		"location":    form.Location,
		"category":    form.Category,
	}
	var images []Upload
	if image != nil {
		images = append(images, *image)
	}

	var out struct {
		Complaint *model.Complaint `json:"complaint"`
	}
	if err := c.doMultipart(ctx, "/complaint/create", fields, "image", images, &out); err != nil {
		return nil, err
	}
	return out.Complaint, nil
}

// MyComplaints returns the caller's complaints
func (c *Client) MyComplaints(ctx context.Context) ([]model.Complaint, error) {
	var out struct {
		Complaints []model.Complaint `json:"complaints"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/complaint/my-complaints", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Complaints, nil
}

// RequestPickup books a bulk pickup
func (c *Client) RequestPickup(ctx context.Context, req PickupRequest) (*model.PickupRequest, error) {
	var out struct {
		Pickup *model.PickupRequest `json:"pickup"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/business/request-pickup", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Pickup, nil
}

// MyPickups returns the caller's pickup requests
func (c *Client) MyPickups(ctx context.Context) ([]model.PickupRequest, error) {
	var out struct {
		Pickups []model.PickupRequest `json:"pickups"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/business/my-requests", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Pickups, nil
}

// Dashboard returns the admin dashboard snapshot
func (c *Client) Dashboard(ctx context.Context) (*service.DashboardSnapshot, error) {
	var out struct {
		Data *service.DashboardSnapshot `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/admin/dashboard-data", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, fileField string, files []Upload, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return err
		}
	}
	for _, file := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, file.Name))
		header.Set("Content-Type", file.ContentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, target, body)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductUpdateRequest defines the fields a seller may change; absent fields are kept
type ProductUpdateRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	ListingType *string      `json:"listing_type" validate:"omitempty,oneof=sale donate"`
	Price       *json.Number `json:"price"`
	Condition   *string      `json:"condition"`
	Quantity    *int         `json:"quantity" validate:"omitempty,min=0"`
	Location    *string      `json:"location"`
	WardNumber  *int         `json:"ward_number" validate:"omitempty,gt=0"`
}

// ProductHandler serves the marketplace catalog and listing endpoints
type ProductHandler struct {
	products ProductService
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns one page of available products matching the query string
func (h *ProductHandler) List(c echo.Context) error {
	params := service.ProductListParams{
		Search:      c.QueryParam("search"),
		Category:    c.QueryParam("category"),
		ListingType: c.QueryParam("listing_type"),
		Condition:   c.QueryParam("condition"),
		SortBy:      c.QueryParam("sort_by"),
		SortOrder:   c.QueryParam("sort_order"),
	}

	var err error
	if params.MinPrice, err = decimalQuery(c, "min_price"); err != nil {
		return err
	}
	if params.MaxPrice, err = decimalQuery(c, "max_price"); err != nil {
		return err
	}
	if params.Ward, err = intQuery(c, "ward"); err != nil {
		return err
	}
	page, err := intQuery(c, "page")
	if err != nil {
		return err
	}
	pageSize, err := intQuery(c, "page_size")
	if err != nil {
		return err
	}
	params.Page, params.PageSize = intOrZero(page), intOrZero(pageSize)

	result, err := h.products.ListProducts(c.Request().Context(), params)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, echo.Map{
		"products": result.Products,
		"pagination": echo.Map{
			"total":       result.Total,
			"page":        result.Page,
			"page_size":   result.PageSize,
			"total_pages": result.TotalPages,
			"has_more":    result.HasMore,
		},
	})
}

// Get returns one product and counts the view
func (h *ProductHandler) Get(c echo.Context) error {
	productID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.products.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"product": product})
}

// Create lists a product from a multipart form with up to five images
func (h *ProductHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	in, err := productInputFromForm(c)
	if err != nil {
		return err
	}

	headers, err := uploadsOf(c, "images")
	if err != nil {
		return err
	}
	if len(headers) > model.MaxProductImages {
		return apperror.Validation("a listing can have at most %d images", model.MaxProductImages)
	}
	images, release, err := openUploads(headers)
	if err != nil {
		return err
	}
	defer release()

	product, err := h.products.CreateProduct(c.Request().Context(), id.UserID, in, images)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, echo.Map{
		"message": "product listed successfully",
		"product": product,
	})
}

// Update applies the seller's changes to their own listing
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	productID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req ProductUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	update := service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Quantity:    req.Quantity,
		Location:    req.Location,
		WardNumber:  req.WardNumber,
	}
	if req.ListingType != nil {
		listing := model.ListingType(*req.ListingType)
		update.ListingType = &listing
	}
	if req.Price != nil {
		p, err := decimal.NewFromString(req.Price.String())
		if err != nil {
			return apperror.Validation("price must be a number")
		}
		update.Price = &p
	}

	product, err := h.products.UpdateProduct(c.Request().Context(), id.UserID, productID, update)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"message": "product updated successfully",
		"product": product,
	})
}

// Delete removes the seller's own listing
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	productID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.products.DeleteProduct(c.Request().Context(), id.UserID, productID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"message": "product deleted successfully"})
}

// ListMine returns every listing of the caller
func (h *ProductHandler) ListMine(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	products, err := h.products.ListMyListings(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"products": products})
}

func productInputFromForm(c echo.Context) (service.ProductInput, error) {
	in := service.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		ListingType: model.ListingType(strings.TrimSpace(c.FormValue("listing_type"))),
		Condition:   c.FormValue("condition"),
		Location:    c.FormValue("location"),
	}

	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return in, apperror.Validation("price must be a number")
		}
		in.Price = p
	}
	if raw := strings.TrimSpace(c.FormValue("quantity")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, apperror.Validation("quantity must be a whole number")
		}
		in.Quantity = &n
	}
	if raw := strings.TrimSpace(c.FormValue("ward_number")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, apperror.Validation("ward_number must be a number")
		}
		in.WardNumber = &n
	}
	return in, nil
}

func decimalQuery(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.Validation("%s must be a number", name)
	}
	return &d, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/internal/repository"
	"waste-service/pkg/logger"
	"waste-service/pkg/media"
	"waste-service/prometheus"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Catalog page sizes
const (
	DefaultProductPageSize = 12
	MaxProductPageSize     = 50
)

// ProductListParams is a raw catalog query
type ProductListParams struct {
	Search      string
	Category    string
	ListingType string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Ward        *int
	Condition   string
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

// ProductListing is a listing with its public seller summary
type ProductListing struct {
	model.Product
	Seller *model.UserSummary `json:"seller,omitempty"`
}

// ProductPage is one page of the catalog
type ProductPage struct {
	Products   []ProductListing `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	HasMore    bool             `json:"has_more"`
}

// ProductInput carries the fields of a new listing
type ProductInput struct {
	Name        string
	Description string
	Category    string
	ListingType model.ListingType
	Price       decimal.Decimal
	Condition   string
	Quantity    *int // nil lists a single unit
	Location    string
	WardNumber  *int
}

// ProductUpdate carries the fields a seller changes; nil leaves a field as is
type ProductUpdate struct {
	Name        *string
	Description *string
	Category    *string
	ListingType *model.ListingType
	Price       *decimal.Decimal
	Condition   *string
	Quantity    *int
	Location    *string
	WardNumber  *int
}

// ProductService manages marketplace listings
type ProductService struct {
	products ProductRepository
	uploader media.Uploader
}

// NewProductService creates a ProductService
func NewProductService(products ProductRepository, uploader media.Uploader) *ProductService {
	return &ProductService{products: products, uploader: uploader}
}

// ListProducts returns one page of available listings
func (s *ProductService) ListProducts(ctx context.Context, p ProductListParams) (*ProductPage, error) {
	q, err := normalizeProductQuery(p)
	if err != nil {
		return nil, err
	}

	products, total, err := s.products.List(ctx, q)
	if err != nil {
		return nil, err
	}

	listings := make([]ProductListing, 0, len(products))
	for _, product := range products {
		listings = append(listings, toListing(product))
	}

	return &ProductPage{
		Products:   listings,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
		HasMore:    int64(q.Page)*int64(q.PageSize) < total,
	}, nil
}

func normalizeProductQuery(p ProductListParams) (repository.ProductQuery, error) {
	q := repository.ProductQuery{
		Search:    strings.TrimSpace(p.Search),
		Category:  strings.TrimSpace(p.Category),
		Condition: strings.TrimSpace(p.Condition),
		MinPrice:  p.MinPrice,
		MaxPrice:  p.MaxPrice,
		Ward:      p.Ward,
		SortField: "createdAt",
		SortDesc:  true,
	}

	switch listing := model.ListingType(strings.TrimSpace(p.ListingType)); listing {
	case "", model.ListingSale, model.ListingDonate:
		q.ListingType = listing
	default:
		return q, apperror.Validation("listing type must be sale or donate")
	}

	if p.SortBy != "" {
		if _, ok := repository.ProductSortColumns[p.SortBy]; !ok {
			return q, apperror.Validation("cannot sort by %q", p.SortBy)
		}
		q.SortField = p.SortBy
	}
	switch strings.ToLower(p.SortOrder) {
	case "", "desc":
	case "asc":
		q.SortDesc = false
	default:
		return q, apperror.Validation("sort order must be asc or desc")
	}

	q.Page, q.PageSize = pageBounds(p.Page, p.PageSize, DefaultProductPageSize, MaxProductPageSize)
	return q, nil
}

func toListing(product model.Product) ProductListing {
	listing := ProductListing{Product: product}
	if product.Seller != nil {
		summary := product.Seller.Summary()
		listing.Seller = &summary
	}
	return listing
}

// GetProduct returns a listing and counts the view
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*ProductListing, error) {
	if err := s.products.IncrementViews(ctx, id); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prometheus.RecordProductView(product.Category)
	listing := toListing(*product)
	return &listing, nil
}

// CreateProduct uploads the images and then writes the listing
func (s *ProductService) CreateProduct(ctx context.Context, sellerID uint, in ProductInput, images []media.File) (*model.Product, error) {
	product := &model.Product{
		SellerID: sellerID,
		Status:   model.ProductAvailable,
		Images:   pq.StringArray{},
	}
	applyProductInput(product, in)
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if len(images) > model.MaxProductImages {
		return nil, apperror.Validation("a listing can have at most %d images", model.MaxProductImages)
	}

	for _, image := range images {
		if err := media.CheckImage(image); err != nil {
			return nil, apperror.Validation("%s: %v", image.Name, err)
		}
	}
	for _, image := range images {
		url, err := s.uploader.Upload(ctx, media.FolderProducts, image)
		if err != nil {
			return nil, uploadError(err)
		}
		product.Images = append(product.Images, url)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordProductOperation("create")
	logger.FromContext(ctx).Info("Product listed",
		zap.Uint("product_id", product.ID),
		zap.String("listing_type", string(product.ListingType)),
		zap.Int("images", len(product.Images)))
	return product, nil
}

// UpdateProduct applies a seller's changes to their own listing
func (s *ProductService) UpdateProduct(ctx context.Context, sellerID, id uint, in ProductUpdate) (*model.Product, error) {
	product, err := s.ownedProduct(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.ListingType != nil {
		product.ListingType = *in.ListingType
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Condition != nil {
		product.Condition = strings.TrimSpace(*in.Condition)
	}
	if in.Location != nil {
		product.Location = strings.TrimSpace(*in.Location)
	}
	if in.WardNumber != nil {
		product.WardNumber = in.WardNumber
	}
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
		if product.Quantity == 0 {
			product.Status = model.ProductSold
		} else if product.Quantity > 0 && product.Status == model.ProductSold {
			product.Status = model.ProductAvailable
		}
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordProductOperation("update")
	return product, nil
}

// DeleteProduct removes a seller's own listing
func (s *ProductService) DeleteProduct(ctx context.Context, sellerID, id uint) error {
	if _, err := s.ownedProduct(ctx, sellerID, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	prometheus.RecordProductOperation("delete")
	logger.FromContext(ctx).Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

// ListMyListings returns every listing of the seller
func (s *ProductService) ListMyListings(ctx context.Context, sellerID uint) ([]model.Product, error) {
	products, err := s.products.ListBySeller(ctx, sellerID)
	if products == nil && err == nil {
		products = []model.Product{}
	}
	return products, err
}

func (s *ProductService) ownedProduct(ctx context.Context, sellerID, id uint) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, apperror.Forbidden("not authorized to modify this product")
	}
	product.Seller = nil
	return product, nil
}

func applyProductInput(product *model.Product, in ProductInput) {
	product.Name = strings.TrimSpace(in.Name)
	product.Description = strings.TrimSpace(in.Description)
	product.Category = strings.TrimSpace(in.Category)
	product.ListingType = in.ListingType
	product.Price = in.Price
	product.Condition = strings.TrimSpace(in.Condition)
	product.Quantity = 1
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
	}
	product.Location = strings.TrimSpace(in.Location)
	product.WardNumber = in.WardNumber
}

// validateProduct checks a listing and forces donations to be free
func validateProduct(product *model.Product) error {
	if product.Name == "" {
		return apperror.Validation("name is required")
	}
	if product.Category == "" {
		return apperror.Validation("category is required")
	}

	// Prices are stored with two decimals, so the checks run on the stored value
	product.Price = product.Price.Round(2)
	switch product.ListingType {
	case model.ListingDonate:
		product.Price = decimal.Zero
	case model.ListingSale:
		if !product.Price.IsPositive() {
			return apperror.Validation("price must be greater than 0 for items for sale")
		}
		if product.Price.GreaterThan(model.MaxPrice) {
			return apperror.Validation("price cannot exceed %s", model.MaxPrice.StringFixed(2))
		}
	default:
		return apperror.Validation("listing type must be sale or donate")
	}

	if product.Condition != "" && !contains(model.ProductConditions, product.Condition) {
		return apperror.Validation("condition must be one of %s", strings.Join(model.ProductConditions, ", "))
	}
	if product.Quantity < 0 {
		return apperror.Validation("quantity cannot be negative")
	}
	if !validWard(product.WardNumber) {
		return apperror.Validation("ward number must be positive")
	}
	return nil
}

func uploadError(err error) error {
	if errors.Is(err, media.ErrNotImage) || errors.Is(err, media.ErrTooLarge) {
		return apperror.Validation("%v", err)
	}
	return apperror.Upstream("failed to upload image", err)
}

package repository

import (
	"context"
	"strings"
	"time"

	"waste-service/internal/model"
	"waste-service/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductSortColumns maps accepted sort fields onto columns
var ProductSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"views":     "views",
	"quantity":  "quantity",
}

// ProductQuery is a normalized catalog query
type ProductQuery struct {
	Search      string
	Category    string
	ListingType model.ListingType
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Ward        *int
	Condition   string
	SortField   string
	SortDesc    bool
	Page        int
	PageSize    int
}

// ProductRepository stores marketplace listings
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a ProductRepository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a listing
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("create_product")(time.Now())
	return translate(r.db.WithContext(ctx).Create(product).Error, "product")
}

// FindByID returns a listing with its seller summary
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Seller", ownerSummary).
		First(&product, id).Error
	if err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

// IncrementViews bumps the view counter in place
func (r *ProductRepository) IncrementViews(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("update_product")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return translate(result.Error, "product")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product")
	}
	return nil
}

// Update writes every editable column of product
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("update_product")(time.Now())

	err := r.db.WithContext(ctx).Model(product).
		Select("name", "description", "category", "listing_type", "price", "images",
			"condition", "quantity", "location", "ward_number", "status").
		Updates(product).Error
	return translate(err, "product")
}

// Delete removes a listing; cart lines cascade
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete_product")(time.Now())

	result := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return translate(result.Error, "product")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product")
	}
	return nil
}

// ListBySeller returns every listing of seller regardless of status
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID uint) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error
	return products, translate(err, "product")
}

// List returns one page of available listings matching q and the total match count
func (r *ProductRepository) List(ctx context.Context, q ProductQuery) ([]model.Product, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Product{}).Scopes(productFilters(q))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, translate(err, "product")
	}

	column, ok := ProductSortColumns[q.SortField]
	if !ok {
		column = "created_at"
	}

	var products []model.Product
	err := query().
		Preload("Seller", ownerSummary).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.SortDesc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.SortDesc}).
		Scopes(paginate(q.Page, q.PageSize)).
		Find(&products).Error
	if err != nil {
		return nil, 0, translate(err, "product")
	}
	return products, total, nil
}

func productFilters(q ProductQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", model.ProductAvailable)

		if search := strings.TrimSpace(q.Search); search != "" {
			like := "%" + search + "%"
			db = db.Where("(name ILIKE ? OR description ILIKE ?)", like, like)
		}
		if q.Category != "" {
			db = db.Where("category = ?", q.Category)
		}
		if q.ListingType != "" {
			db = db.Where("listing_type = ?", q.ListingType)
		}
		// Price bounds only make sense for priced listings
		if q.ListingType == "" || q.ListingType == model.ListingSale {
			if q.MinPrice != nil {
				db = db.Where("price >= ?", *q.MinPrice)
			}
			if q.MaxPrice != nil {
				db = db.Where("price <= ?", *q.MaxPrice)
			}
		}
		if q.Ward != nil {
			db = db.Where("ward_number = ?", *q.Ward)
		}
		if q.Condition != "" {
			db = db.Where("condition = ?", q.Condition)
		}
		return db
	}
}

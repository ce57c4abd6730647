package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/pkg/media"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFile(name string) media.File {
	return media.File{Name: name, ContentType: "image/png", Size: 4, Body: strings.NewReader("png!")}
}

func intPtr(n int) *int { return &n }

func saleInput() ProductInput {
	return ProductInput{
		Name:        "Glass jars",
		Category:    "glass",
		ListingType: model.ListingSale,
		Price:       price("45.505"),
		Condition:   "good",
	}
}

func TestNormalizeProductQuery(t *testing.T) {
	q, err := normalizeProductQuery(ProductListParams{})
	require.NoError(t, err)
	assert.Equal(t, "createdAt", q.SortField)
	assert.True(t, q.SortDesc)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultProductPageSize, q.PageSize)

	q, err = normalizeProductQuery(ProductListParams{SortBy: "price", SortOrder: "ASC", PageSize: 500, Page: 3, ListingType: "donate"})
	require.NoError(t, err)
	assert.Equal(t, "price", q.SortField)
	assert.False(t, q.SortDesc)
	assert.Equal(t, MaxProductPageSize, q.PageSize)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, model.ListingDonate, q.ListingType)

	for _, p := range []ProductListParams{
		{SortBy: "password"},
		{SortOrder: "sideways"},
		{ListingType: "rent"},
	} {
		_, err := normalizeProductQuery(p)
		assert.True(t, apperror.IsValidation(err), "%+v", p)
	}
}

func TestListProducts(t *testing.T) {
	products := newFakeProducts(
		model.Product{ID: 1, Name: "a", Status: model.ProductAvailable, Seller: &model.User{ID: 9, Name: "Shop", Password: "hash"}},
		model.Product{ID: 2, Name: "b", Status: model.ProductSold},
	)
	svc := NewProductService(products, &fakeUploader{})

	page, err := svc.ListProducts(context.Background(), ProductListParams{Search: "  jars ", PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, "jars", products.lastList.Search)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Shop", page.Products[0].Seller.Name)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasMore)
}

func TestGetProductCountsViews(t *testing.T) {
	products := newFakeProducts(model.Product{ID: 1, Name: "a", Category: "plastic", Status: model.ProductAvailable})
	svc := NewProductService(products, &fakeUploader{})
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	listing, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, listing.Views)

	_, err = svc.GetProduct(ctx, 77)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateProduct(t *testing.T) {
	uploader := &fakeUploader{}
	products := newFakeProducts()
	svc := NewProductService(products, uploader)

	product, err := svc.CreateProduct(context.Background(), 9, saleInput(), []media.File{pngFile("a.png"), pngFile("b.png")})
	require.NoError(t, err)
	assert.Equal(t, uint(9), product.SellerID)
	assert.Equal(t, model.ProductAvailable, product.Status)
	assert.Equal(t, 1, product.Quantity)
	assert.True(t, price("45.51").Equal(product.Price))
	assert.Equal(t, []string{"https://cdn.example.com/products/a.png", "https://cdn.example.com/products/b.png"}, []string(product.Images))
	assert.Equal(t, []string{media.FolderProducts, media.FolderProducts}, uploader.folders)
}

func TestCreateProductKeepsExplicitZeroQuantity(t *testing.T) {
	svc := NewProductService(newFakeProducts(), &fakeUploader{})
	in := saleInput()
	in.Quantity = intPtr(0)

	product, err := svc.CreateProduct(context.Background(), 9, in, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Quantity)
}

func TestCreateProductPriceAtColumnLimit(t *testing.T) {
	svc := NewProductService(newFakeProducts(), &fakeUploader{})
	in := saleInput()
	in.Price = price("9999999999.994")

	product, err := svc.CreateProduct(context.Background(), 9, in, nil)
	require.NoError(t, err)
	assert.True(t, model.MaxPrice.Equal(product.Price))
}

func TestCreateDonationIsFree(t *testing.T) {
	svc := NewProductService(newFakeProducts(), &fakeUploader{})
	in := saleInput()
	in.ListingType = model.ListingDonate
	in.Price = price("300")

	product, err := svc.CreateProduct(context.Background(), 9, in, nil)
	require.NoError(t, err)
	assert.True(t, product.Price.IsZero())
	assert.NotNil(t, product.Images)
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ProductInput)
	}{
		{"missing name", func(in *ProductInput) { in.Name = " " }},
		{"missing category", func(in *ProductInput) { in.Category = "" }},
		{"free sale", func(in *ProductInput) { in.Price = decimal.Zero }},
		{"unknown listing", func(in *ProductInput) { in.ListingType = "swap" }},
		{"unknown condition", func(in *ProductInput) { in.Condition = "broken" }},
		{"negative quantity", func(in *ProductInput) { in.Quantity = intPtr(-1) }},
		{"rounds to free", func(in *ProductInput) { in.Price = price("0.004") }},
		{"above column range", func(in *ProductInput) { in.Price = price("10000000000") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := &fakeUploader{}
			svc := NewProductService(newFakeProducts(), uploader)
			in := saleInput()
			tt.modify(&in)

			_, err := svc.CreateProduct(context.Background(), 9, in, []media.File{pngFile("a.png")})
			assert.True(t, apperror.IsValidation(err))
			assert.Empty(t, uploader.folders)
		})
	}
}

func TestCreateProductImageChecks(t *testing.T) {
	uploader := &fakeUploader{}
	products := newFakeProducts()
	svc := NewProductService(products, uploader)
	ctx := context.Background()

	tooMany := make([]media.File, model.MaxProductImages+1)
	for i := range tooMany {
		tooMany[i] = pngFile("x.png")
	}
	_, err := svc.CreateProduct(ctx, 9, saleInput(), tooMany)
	assert.True(t, apperror.IsValidation(err))

	notImage := media.File{Name: "doc.pdf", ContentType: "application/pdf", Size: 3, Body: strings.NewReader("pdf")}
	_, err = svc.CreateProduct(ctx, 9, saleInput(), []media.File{pngFile("a.png"), notImage})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, uploader.folders)

	uploader.err = errors.New("bucket unreachable")
	_, err = svc.CreateProduct(ctx, 9, saleInput(), []media.File{pngFile("a.png")})
	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))

	mine, err := svc.ListMyListings(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestUpdateProduct(t *testing.T) {
	products := newFakeProducts(model.Product{
		ID: 1, SellerID: 9, Name: "Jars", Category: "glass", ListingType: model.ListingSale,
		Price: price("10"), Quantity: 2, Status: model.ProductAvailable,
	})
	svc := NewProductService(products, &fakeUploader{})
	ctx := context.Background()

	_, err := svc.UpdateProduct(ctx, 4, 1, ProductUpdate{})
	assert.True(t, apperror.IsForbidden(err))

	zero := 0
	updated, err := svc.UpdateProduct(ctx, 9, 1, ProductUpdate{Quantity: &zero})
	require.NoError(t, err)
	assert.Equal(t, model.ProductSold, updated.Status)

	three := 3
	name := "Big jars"
	updated, err = svc.UpdateProduct(ctx, 9, 1, ProductUpdate{Quantity: &three, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, model.ProductAvailable, updated.Status)
	assert.Equal(t, "Big jars", updated.Name)

	donate := model.ListingDonate
	updated, err = svc.UpdateProduct(ctx, 9, 1, ProductUpdate{ListingType: &donate})
	require.NoError(t, err)
	assert.True(t, updated.Price.IsZero())

	sale := model.ListingSale
	_, err = svc.UpdateProduct(ctx, 9, 1, ProductUpdate{ListingType: &sale})
	assert.True(t, apperror.IsValidation(err))

	tiny := price("0.004")
	_, err = svc.UpdateProduct(ctx, 9, 1, ProductUpdate{ListingType: &sale, Price: &tiny})
	assert.True(t, apperror.IsValidation(err))
}

func TestDeleteProduct(t *testing.T) {
	products := newFakeProducts(model.Product{ID: 1, SellerID: 9, Name: "Jars", Status: model.ProductAvailable})
	svc := NewProductService(products, &fakeUploader{})
	ctx := context.Background()

	err := svc.DeleteProduct(ctx, 4, 1)
	assert.True(t, apperror.IsForbidden(err))

	require.NoError(t, svc.DeleteProduct(ctx, 9, 1))
	_, err = products.FindByID(ctx, 1)
	assert.True(t, apperror.IsNotFound(err))

	err = svc.DeleteProduct(ctx, 9, 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUploadError(t *testing.T) {
	assert.True(t, apperror.IsValidation(uploadError(media.ErrTooLarge)))
	assert.True(t, apperror.IsValidation(uploadError(media.ErrNotImage)))
	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(uploadError(media.ErrNotConfigured)))
}

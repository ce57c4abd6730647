package service

import (
	"context"
	"testing"

	"waste-service/internal/apperror"
	"waste-service/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPriceSubtotal(t *testing.T) {
	tests := []struct {
		subtotal, tax, shipping, eco, total string
	}{
		{"250", "32.50", "100", "12.50", "370"},
		{"0", "0", "0", "0", "0"},
		{"10.01", "1.30", "100", "0.50", "110.81"},
		{"99.99", "13.00", "100", "5.00", "207.99"},
	}

	for _, tt := range tests {
		t.Run(tt.subtotal, func(t *testing.T) {
			got := PriceSubtotal(price(tt.subtotal))
			assert.True(t, price(tt.tax).Equal(got.Tax), "tax %s", got.Tax)
			assert.True(t, price(tt.shipping).Equal(got.Shipping), "shipping %s", got.Shipping)
			assert.True(t, price(tt.eco).Equal(got.EcoDiscount), "eco %s", got.EcoDiscount)
			assert.True(t, price(tt.total).Equal(got.Total), "total %s", got.Total)
		})
	}
}

func TestPriceCartSkipsUnselectedLines(t *testing.T) {
	lines := []model.CartItem{
		{Quantity: 2, Selected: true, Product: &model.Product{Price: price("100")}},
		{Quantity: 1, Selected: true, Product: &model.Product{Price: price("50")}},
		{Quantity: 3, Selected: false, Product: &model.Product{Price: price("999")}},
		{Quantity: 1, Selected: true},
	}

	summary, selected := priceCart(lines)
	assert.Equal(t, 2, selected)
	assert.True(t, price("250").Equal(summary.Subtotal))
	assert.True(t, price("370").Equal(summary.Total))
}

func cartFixture() (*CartService, *fakeCart, *fakeProducts) {
	products := newFakeProducts(
		model.Product{ID: 1, SellerID: 9, Name: "Bottles", ListingType: model.ListingSale, Price: price("100"), Quantity: 5, Status: model.ProductAvailable},
		model.Product{ID: 2, SellerID: 9, Name: "Crates", ListingType: model.ListingSale, Price: price("50"), Quantity: 1, Status: model.ProductAvailable},
		model.Product{ID: 3, SellerID: 9, Name: "Sold chair", ListingType: model.ListingSale, Price: price("10"), Status: model.ProductSold},
	)
	carts := newFakeCart(products)
	return NewCartService(carts, products), carts, products
}

func TestAddToCart(t *testing.T) {
	svc, _, _ := cartFixture()
	ctx := context.Background()

	view, err := svc.AddToCart(ctx, 1, 1, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Items[0].Selected)

	view, err = svc.AddToCart(ctx, 1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Summary.ItemCount)
	assert.Equal(t, 2, view.Summary.SelectedCount)
	assert.True(t, price("250").Equal(view.Summary.Subtotal))
	assert.True(t, price("370").Equal(view.Summary.Total))
}

func TestAddToCartSumsUpToCap(t *testing.T) {
	svc, _, _ := cartFixture()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 1, 8)
	require.NoError(t, err)
	view, err := svc.AddToCart(ctx, 1, 1, 5)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, model.MaxCartQuantity, view.Items[0].Quantity)
}

func TestAddToCartRejections(t *testing.T) {
	svc, _, _ := cartFixture()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 1, 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)

	_, err = svc.AddToCart(ctx, 1, 1, 11)
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)

	_, err = svc.AddToCart(ctx, 1, 42, 1)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.AddToCart(ctx, 1, 3, 1)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "not available")
}

func TestUpdateCartItem(t *testing.T) {
	svc, _, _ := cartFixture()
	ctx := context.Background()
	_, err := svc.AddToCart(ctx, 1, 1, 1)
	require.NoError(t, err)

	unselected := false
	view, err := svc.UpdateCartItem(ctx, 1, 1, intPtr(4), &unselected)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assert.False(t, view.Items[0].Selected)
	assert.Equal(t, 0, view.Summary.SelectedCount)
	assert.True(t, view.Summary.Total.IsZero())

	selected := true
	view, err = svc.UpdateCartItem(ctx, 1, 1, nil, &selected)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assert.True(t, view.Items[0].Selected)

	_, err = svc.UpdateCartItem(ctx, 1, 1, nil, nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UpdateCartItem(ctx, 1, 1, intPtr(11), nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)

	_, err = svc.UpdateCartItem(ctx, 1, 2, intPtr(3), nil)
	assert.True(t, apperror.IsNotFound(err))

	view, err = svc.UpdateCartItem(ctx, 1, 1, intPtr(0), nil)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestRemoveAndClearCart(t *testing.T) {
	svc, _, _ := cartFixture()
	ctx := context.Background()
	_, err := svc.AddToCart(ctx, 1, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 1, 2, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 2, 1, 1)
	require.NoError(t, err)

	view, err := svc.RemoveFromCart(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	view, err = svc.RemoveFromCart(ctx, 1, 99)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	view, err = svc.ClearCart(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)

	other, err := svc.GetCart(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other.Items, 1)
}

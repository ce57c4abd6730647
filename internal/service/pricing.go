package service

import (
	"waste-service/internal/model"

	"github.com/shopspring/decimal"
)

// Checkout pricing constants
var (
	TaxRate         = decimal.RequireFromString("0.13")
	EcoDiscountRate = decimal.RequireFromString("0.05")
	ShippingFee     = decimal.RequireFromString("100.00")
)

// PriceSummary is the breakdown shown in the cart and stored on orders
type PriceSummary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Shipping    decimal.Decimal `json:"shipping"`
	EcoDiscount decimal.Decimal `json:"eco_discount"`
	Total       decimal.Decimal `json:"total"`
}

// PriceSubtotal derives tax, shipping, eco discount and total from a subtotal.
// Components are rounded to cents before the total is summed.
func PriceSubtotal(subtotal decimal.Decimal) PriceSummary {
	subtotal = subtotal.Round(2)

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = ShippingFee
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	eco := subtotal.Mul(EcoDiscountRate).Round(2)

	return PriceSummary{
		Subtotal:    subtotal,
		Tax:         tax,
		Shipping:    shipping,
		EcoDiscount: eco,
		Total:       subtotal.Add(shipping).Add(tax).Sub(eco),
	}
}

// lineSubtotal is unit price times quantity
func lineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// priceCart prices the selected lines that still carry a product
func priceCart(lines []model.CartItem) (PriceSummary, int) {
	subtotal := decimal.Zero
	selected := 0
	for _, line := range lines {
		if !line.Selected || line.Product == nil {
			continue
		}
		selected++
		subtotal = subtotal.Add(lineSubtotal(line.Product.Price, line.Quantity))
	}
	return PriceSubtotal(subtotal), selected
}

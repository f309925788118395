package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Pricing holds the parameters totals are derived from.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// DefaultPricing is 8% tax, free shipping strictly above 100, else 9.99.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(100),
		ShippingFee:           decimal.RequireFromString("9.99"),
	}
}

// OrderTotals is derived on every read and never stored.
type OrderTotals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// CalculateTotals prices the cart items. Saved items never take part. An
// empty cart has no shipping fee, so all its totals are zero.
//
// Discount, tax and total are each rounded half-up to cents from the
// unrounded intermediates; rounding the discount before computing tax gives
// different cents for some carts.
func CalculateTotals(items []LineItem, promo *AppliedPromo, p Pricing) OrderTotals {
	subtotal := decimal.Zero
	count := 0
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
		count += it.Quantity
	}

	shipping := decimal.Zero
	if len(items) > 0 && !subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = p.ShippingFee
	}

	discount := subtotal.Mul(promo.Rate())
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(p.TaxRate)
	total := taxable.Add(shipping).Add(tax)

	return OrderTotals{
		Subtotal:  subtotal.Round(2),
		Shipping:  shipping.Round(2),
		Discount:  discount.Round(2),
		Tax:       tax.Round(2),
		Total:     total.Round(2),
		ItemCount: count,
	}
}

// MarshalJSON renders every amount with exactly two decimals.
func (t OrderTotals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal  string `json:"subtotal"`
		Shipping  string `json:"shipping"`
		Discount  string `json:"discount"`
		Tax       string `json:"tax"`
		Total     string `json:"total"`
		ItemCount int    `json:"item_count"`
	}{
		Subtotal:  t.Subtotal.StringFixed(2),
		Shipping:  t.Shipping.StringFixed(2),
		Discount:  t.Discount.StringFixed(2),
		Tax:       t.Tax.StringFixed(2),
		Total:     t.Total.StringFixed(2),
		ItemCount: t.ItemCount,
	})
}

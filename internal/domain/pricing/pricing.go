package pricing

import (
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat tax rate applied to the pre-discount subtotal
var DefaultTaxRate = decimal.RequireFromString("0.05")

// Line is anything with a unit price and quantity
type Line interface {
	LineTotal() decimal.Decimal
}

// Input carries everything the engine needs. Discount must already be resolved by the coupon evaluator.
type Input struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	TaxRate  decimal.Decimal
	Shipping decimal.Decimal
}

// Breakdown is the priced result shown to the customer and stored on the order
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping_price"`
	Total    decimal.Decimal `json:"total"`
}

// Subtotal sums the line totals
func Subtotal[L Line](lines []L) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Tax computes subtotal * rate rounded half-up to cents
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Round(2)
}

// Price computes the full breakdown.
// Tax is taken on the subtotal before the discount is deducted.
// The discount is capped at the subtotal so the total never goes negative.
func Price(in Input) Breakdown {
	subtotal := nonNegative(in.Subtotal)
	discount := decimal.Min(nonNegative(in.Discount), subtotal)
	shipping := nonNegative(in.Shipping)
	tax := Tax(subtotal, nonNegative(in.TaxRate))

	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Sub(discount).Add(tax).Add(shipping),
	}
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

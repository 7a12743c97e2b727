package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// ShippingPolicy is the flat shipping amount applied to every order
type ShippingPolicy struct {
	FlatAmount decimal.Decimal
}

// Amount returns the shipping charged for a cart; empty carts ship for free
func (p ShippingPolicy) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || p.FlatAmount.IsNegative() {
		return decimal.Zero
	}
	return p.FlatAmount
}

// SettingsRepository reads the single global site settings record
type SettingsRepository interface {
	// ShippingPrice returns the configured flat shipping amount, or zero when no record exists
	ShippingPrice(ctx context.Context) (decimal.Decimal, error)

	// SetShippingPrice upserts the flat shipping amount
	SetShippingPrice(ctx context.Context, amount decimal.Decimal) error
}

// Package pricing wires the pure pricing engine to its per-request inputs.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/pricing"
)

// Quote is a priced cart together with the shipping policy it used
type Quote struct {
	pricing.Breakdown
	Policy pricing.ShippingPolicy `json:"-"`
}

// Engine prices carts with a fixed tax rate and the current shipping policy
type Engine struct {
	taxRate  decimal.Decimal
	shipping *ShippingPolicyProvider
}

// NewEngine creates an Engine. A zero tax rate falls back to the default flat rate.
func NewEngine(taxRate decimal.Decimal, shipping *ShippingPolicyProvider) *Engine {
	if taxRate.IsZero() {
		taxRate = pricing.DefaultTaxRate
	}
	return &Engine{taxRate: taxRate, shipping: shipping}
}

// Policy fetches the shipping policy once for the current request
func (e *Engine) Policy(ctx context.Context) (pricing.ShippingPolicy, error) {
	return e.shipping.Current(ctx)
}

// TaxRate returns the configured flat rate
func (e *Engine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// Price runs the pure engine with an already fetched policy
func (e *Engine) Price(subtotal, discount decimal.Decimal, policy pricing.ShippingPolicy) Quote {
	return Quote{
		Breakdown: pricing.Price(pricing.Input{
			Subtotal: subtotal,
			Discount: discount,
			TaxRate:  e.taxRate,
			Shipping: policy.Amount(subtotal),
		}),
		Policy: policy,
	}
}

package telemetry

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CheckoutMetrics records checkout outcomes as OpenTelemetry instruments
type CheckoutMetrics struct {
	ordersPlaced   metric.Int64Counter
	orderRevenue   metric.Float64Counter
	orderLines     metric.Int64Histogram
	checkoutFailed metric.Int64Counter
	couponRedeemed metric.Int64Counter
}

// NewCheckoutMetrics creates the checkout instruments on meter
func NewCheckoutMetrics(meter metric.Meter) (*CheckoutMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &CheckoutMetrics{}
	var err error

	if m.ordersPlaced, err = meter.Int64Counter("storefront_orders_placed_total",
		metric.WithDescription("Orders placed through checkout"),
		metric.WithUnit("{orders}")); err != nil {
		return nil, instrumentErr("storefront_orders_placed_total", err)
	}
	if m.orderRevenue, err = meter.Float64Counter("storefront_order_revenue_total",
		metric.WithDescription("Sum of placed order totals"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, instrumentErr("storefront_order_revenue_total", err)
	}
	if m.orderLines, err = meter.Int64Histogram("storefront_order_lines",
		metric.WithDescription("Lines per placed order"),
		metric.WithUnit("{lines}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10, 20, 50)); err != nil {
		return nil, instrumentErr("storefront_order_lines", err)
	}
	if m.checkoutFailed, err = meter.Int64Counter("storefront_checkout_failed_total",
		metric.WithDescription("Checkout attempts that did not place an order"),
		metric.WithUnit("{attempts}")); err != nil {
		return nil, instrumentErr("storefront_checkout_failed_total", err)
	}
	if m.couponRedeemed, err = meter.Int64Counter("storefront_coupon_redeemed_total",
		metric.WithDescription("Coupons consumed by placed orders"),
		metric.WithUnit("{redemptions}")); err != nil {
		return nil, instrumentErr("storefront_coupon_redeemed_total", err)
	}
	return m, nil
}

// RecordOrderPlaced counts the order, its total and its line count
func (m *CheckoutMetrics) RecordOrderPlaced(ctx context.Context, o *order.CartOrder) {
	attrs := metric.WithAttributes(
		attribute.String("payment_method", o.PaymentMethod),
		attribute.String("status", string(o.Status)),
	)
	m.ordersPlaced.Add(ctx, 1, attrs)
	m.orderRevenue.Add(ctx, o.Total.InexactFloat64(), attrs)
	m.orderLines.Record(ctx, int64(len(o.Lines)))
}

// RecordCheckoutFailed counts a failed attempt by reason
func (m *CheckoutMetrics) RecordCheckoutFailed(ctx context.Context, reason string) {
	m.checkoutFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordCouponRedeemed counts a redemption of code
func (m *CheckoutMetrics) RecordCouponRedeemed(ctx context.Context, code string) {
	m.couponRedeemed.Add(ctx, 1, metric.WithAttributes(attribute.String("coupon_code", code)))
}

func instrumentErr(name string, err error) error {
	return fmt.Errorf("failed to create instrument %s: %w", name, err)
}

package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type for orders
const AggregateTypeOrder = "CartOrder"

// Status is the order lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusFulfilled  Status = "fulfilled"
	StatusCancelled  Status = "cancelled"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

// OrderLine is the snapshot of a cart line taken at checkout
type OrderLine struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductTitle string
	Quantity     int
	UnitPrice    decimal.Decimal
	Variant      cart.Variant
}

// LineTotal returns unit price times quantity
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartOrder is the immutable result of a checkout
type CartOrder struct {
	shared.BaseAggregateRoot
	OrderID           string
	InvoiceNo         string
	CustomerID        uuid.UUID
	Status            Status
	Paid              bool
	PaymentMethod     string
	PaymentDate       *time.Time
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal
	CouponCode        string
	Tax               decimal.Decimal
	Shipping          decimal.Decimal
	Total             decimal.Decimal
	ShippingAddressID *uuid.UUID
	Phone             string
	Lines             []OrderLine
}

// PlaceOrderParams carries what checkout decided for a new order
type PlaceOrderParams struct {
	CustomerID        uuid.UUID
	Totals            pricing.Breakdown
	CouponCode        string
	PaymentMethod     string
	Paid              bool
	Status            Status
	ShippingAddressID *uuid.UUID
	Phone             string
}

// NewCartOrder creates an order with its invoice number generated once
func NewCartOrder(p PlaceOrderParams) (*CartOrder, error) {
	if p.PaymentMethod == "" {
		return nil, shared.NewValidationError("Missing required field: payment_method")
	}
	status := p.Status
	if status == "" {
		status = StatusProcessing
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError("Invalid order status")
	}
	if p.Totals.Total.IsNegative() {
		return nil, shared.NewValidationError("Order total cannot be negative")
	}

	o := &CartOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           shared.NewShortID(OrderIDPrefix),
		CustomerID:        p.CustomerID,
		Status:            status,
		Paid:              p.Paid,
		PaymentMethod:     p.PaymentMethod,
		Subtotal:          p.Totals.Subtotal,
		Discount:          p.Totals.Discount,
		CouponCode:        p.CouponCode,
		Tax:               p.Totals.Tax,
		Shipping:          p.Totals.Shipping,
		Total:             p.Totals.Total,
		ShippingAddressID: p.ShippingAddressID,
		Phone:             p.Phone,
		Lines:             make([]OrderLine, 0),
	}
	o.InvoiceNo = NewInvoiceNumber(o.CreatedAt)
	if o.Paid {
		paidAt := o.CreatedAt
		o.PaymentDate = &paidAt
	}
	return o, nil
}

// AddLine snapshots a cart line into the order
func (o *CartOrder) AddLine(item cart.CartItem, productTitle string) OrderLine {
	line := OrderLine{
		ID:           uuid.New(),
		OrderID:      o.ID,
		ProductID:    item.ProductID,
		ProductTitle: productTitle,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		Variant:      item.Variant,
	}
	o.Lines = append(o.Lines, line)
	return line
}

// LinesTotal sums the materialized line totals
func (o *CartOrder) LinesTotal() decimal.Decimal {
	return pricing.Subtotal(o.Lines)
}

// Breakdown returns the stored money fields
func (o *CartOrder) Breakdown() pricing.Breakdown {
	return pricing.Breakdown{
		Subtotal: o.Subtotal,
		Discount: o.Discount,
		Tax:      o.Tax,
		Shipping: o.Shipping,
		Total:    o.Total,
	}
}

// RecomputeTotals is the administrative correction: subtotal is rebuilt from the lines,
// and total = subtotal - discount + tax + shipping with the stored discount, tax and shipping.
// A discount larger than the rebuilt subtotal is capped at it.
func (o *CartOrder) RecomputeTotals() {
	o.Subtotal = o.LinesTotal()
	o.Discount = decimal.Min(o.Discount, o.Subtotal)
	o.Total = o.Subtotal.Sub(o.Discount).Add(o.Tax).Add(o.Shipping)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Balances reports whether total == subtotal - discount + tax + shipping
func (o *CartOrder) Balances() bool {
	return o.Total.Equal(o.Subtotal.Sub(o.Discount).Add(o.Tax).Add(o.Shipping))
}

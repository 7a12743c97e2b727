package order

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func breakdown() pricing.Breakdown {
	return pricing.Price(pricing.Input{
		Subtotal: d("50"),
		Discount: d("5"),
		TaxRate:  pricing.DefaultTaxRate,
		Shipping: d("5"),
	})
}

func TestNewInvoiceNumber(t *testing.T) {
	at := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	inv := NewInvoiceNumber(at)

	assert.Regexp(t, regexp.MustCompile(`^INV-20260309-[0-9A-Z]{4}$`), inv)
}

func TestNewCartOrder(t *testing.T) {
	t.Run("cash on delivery order is paid", func(t *testing.T) {
		o, err := NewCartOrder(PlaceOrderParams{
			CustomerID:    uuid.New(),
			Totals:        breakdown(),
			CouponCode:    "SAVE10",
			PaymentMethod: "cash_on_delivery",
			Paid:          true,
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(o.OrderID, OrderIDPrefix))
		assert.True(t, strings.HasPrefix(o.InvoiceNo, "INV-"))
		assert.Equal(t, StatusProcessing, o.Status)
		assert.True(t, o.Paid)
		require.NotNil(t, o.PaymentDate)
		assert.Equal(t, "52.5", o.Total.String())
		assert.True(t, o.Balances())
	})

	t.Run("unpaid order has no payment date", func(t *testing.T) {
		o, err := NewCartOrder(PlaceOrderParams{CustomerID: uuid.New(), Totals: breakdown(), PaymentMethod: "card"})
		require.NoError(t, err)
		assert.False(t, o.Paid)
		assert.Nil(t, o.PaymentDate)
	})

	t.Run("payment method is required", func(t *testing.T) {
		_, err := NewCartOrder(PlaceOrderParams{CustomerID: uuid.New(), Totals: breakdown()})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := NewCartOrder(PlaceOrderParams{Totals: breakdown(), PaymentMethod: "card", Status: "lost"})
		assert.Error(t, err)
	})
}

func TestCartOrder_LinesMatchCart(t *testing.T) {
	c := cart.NewCart(uuid.New())
	_, err := c.AddItem(uuid.New(), 2, d("10.00"), cart.Variant{ColorName: "Red", ColorHex: "#FF0000"})
	require.NoError(t, err)
	_, err = c.AddItem(uuid.New(), 3, d("4.99"), cart.Variant{Size: "XL"})
	require.NoError(t, err)

	o, err := NewCartOrder(PlaceOrderParams{CustomerID: c.CustomerID, Totals: breakdown(), PaymentMethod: "card"})
	require.NoError(t, err)
	for _, item := range c.Items {
		o.AddLine(item, "title")
	}

	require.Len(t, o.Lines, 2)
	assert.True(t, o.LinesTotal().Equal(c.Subtotal()))
	assert.Equal(t, "Red", o.Lines[0].Variant.ColorName)
	assert.Equal(t, "XL", o.Lines[1].Variant.Size)
	assert.Equal(t, o.ID, o.Lines[0].OrderID)
}

func TestCartOrder_RecomputeTotals(t *testing.T) {
	o, err := NewCartOrder(PlaceOrderParams{CustomerID: uuid.New(), Totals: breakdown(), PaymentMethod: "card"})
	require.NoError(t, err)
	o.AddLine(cart.CartItem{ProductID: uuid.New(), Quantity: 4, UnitPrice: d("10")}, "Mug")

	o.RecomputeTotals()

	assert.Equal(t, "40", o.Subtotal.String())
	assert.Equal(t, "42.5", o.Total.String())
	assert.Equal(t, "2.5", o.Tax.String())
	assert.True(t, o.Balances())
	assert.Equal(t, 2, o.GetVersion())
}

func TestCartOrder_RecomputeTotals_CapsDiscount(t *testing.T) {
	o, err := NewCartOrder(PlaceOrderParams{CustomerID: uuid.New(), Totals: breakdown(), PaymentMethod: "card"})
	require.NoError(t, err)
	o.AddLine(cart.CartItem{ProductID: uuid.New(), Quantity: 1, UnitPrice: d("3")}, "Coaster")

	o.RecomputeTotals()

	assert.Equal(t, "3", o.Subtotal.String())
	assert.Equal(t, "3", o.Discount.String())
	// 3 - 3 + 2.5 + 5
	assert.Equal(t, "7.5", o.Total.String())
	assert.True(t, o.Balances())
}

func TestAddress(t *testing.T) {
	userID := uuid.New()

	a, err := NewShippingAddress(userID, AddressInput{
		Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US",
	})
	require.NoError(t, err)
	assert.False(t, a.IsDefault)
	assert.Equal(t, AddressTypeShipping, a.Type)
	assert.Equal(t, "1 Main St, Springfield, IL, US, 62701", a.OneLine())

	_, err = NewShippingAddress(userID, AddressInput{Line1: "1 Main St", State: "IL", PostalCode: "1", Country: "US"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	p := NewPlaceholderAddress(userID)
	assert.True(t, p.IsDefault)
	assert.Equal(t, PlaceholderPostalCode, p.PostalCode)
}

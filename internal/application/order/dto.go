package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// Section status values
const (
	SectionOK          = "ok"
	SectionUnavailable = "unavailable"
)

// Section is one independently loaded part of the admin order view
type Section[T any] struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Data   *T     `json:"data,omitempty"`
}

func available[T any](data T) Section[T] {
	return Section[T]{Status: SectionOK, Data: &data}
}

func unavailable[T any](reason string) Section[T] {
	return Section[T]{Status: SectionUnavailable, Reason: reason}
}

// OK reports whether the section loaded
func (s Section[T]) OK() bool {
	return s.Status == SectionOK
}

// SummaryData identifies the order
type SummaryData struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       string     `json:"order_id"`
	InvoiceNo     string     `json:"invoice_no"`
	Status        string     `json:"status"`
	Paid          bool       `json:"paid"`
	PaymentMethod string     `json:"payment_method"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	CouponCode    string     `json:"coupon_code,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CustomerData is the buyer's profile
type CustomerData struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name,omitempty"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
}

// AddressData is the shipping address of the order
type AddressData struct {
	Line1      string `json:"address"`
	Line2      string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postcode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	OneLine    string `json:"one_line"`
}

// LineData is one ordered product
type LineData struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	ColorName string          `json:"color_name,omitempty"`
	ColorHex  string          `json:"color_hex,omitempty"`
	Size      string          `json:"size,omitempty"`
}

// TotalsData is the stored money breakdown.
// LinesTotal and Balanced let an administrator spot orders that need a recompute.
type TotalsData struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping_price"`
	Total      decimal.Decimal `json:"total"`
	LinesTotal decimal.Decimal `json:"lines_total"`
	Balanced   bool            `json:"balanced"`
}

// DetailResponse is the admin order view
type DetailResponse struct {
	Summary         Section[SummaryData]  `json:"summary"`
	Customer        Section[CustomerData] `json:"customer"`
	ShippingAddress Section[AddressData]  `json:"shipping_address"`
	Lines           Section[[]LineData]   `json:"lines"`
	Totals          Section[TotalsData]   `json:"totals"`
}

// ConfirmationResponse is shown to the customer after checkout
type ConfirmationResponse struct {
	SummaryData
	Lines           []LineData   `json:"lines"`
	Totals          TotalsData   `json:"totals"`
	ShippingAddress *AddressData `json:"shipping_address,omitempty"`
}

func toSummary(o *order.CartOrder) SummaryData {
	return SummaryData{
		ID:            o.ID,
		OrderID:       o.OrderID,
		InvoiceNo:     o.InvoiceNo,
		Status:        string(o.Status),
		Paid:          o.Paid,
		PaymentMethod: o.PaymentMethod,
		PaymentDate:   o.PaymentDate,
		CouponCode:    o.CouponCode,
		CreatedAt:     o.CreatedAt,
	}
}

func toLines(lines []order.OrderLine) []LineData {
	out := make([]LineData, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineData{
			ProductID: l.ProductID,
			Title:     l.ProductTitle,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
			ColorName: l.Variant.ColorName,
			ColorHex:  l.Variant.ColorHex,
			Size:      l.Variant.Size,
		})
	}
	return out
}

func toTotals(o *order.CartOrder, linesTotal decimal.Decimal) TotalsData {
	return TotalsData{
		Subtotal:   o.Subtotal,
		Discount:   o.Discount,
		Tax:        o.Tax,
		Shipping:   o.Shipping,
		Total:      o.Total,
		LinesTotal: linesTotal,
		Balanced:   o.Balances() && linesTotal.Equal(o.Subtotal),
	}
}

func toAddress(a *order.Address) AddressData {
	return AddressData{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		OneLine:    a.OneLine(),
	}
}

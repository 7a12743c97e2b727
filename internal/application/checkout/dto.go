package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
)

// Form is the submitted checkout form
type Form struct {
	Address       string
	Address2      string
	City          string
	State         string
	Postcode      string
	Country       string
	Phone         string
	PaymentMethod string
}

// Validate reports the first missing required field, in form order
func (f Form) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"address", f.Address},
		{"city", f.City},
		{"state", f.State},
		{"postcode", f.Postcode},
		{"country", f.Country},
		{"payment_method", f.PaymentMethod},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return shared.NewValidationError("Missing required field: "+field.name).WithDetail("field", field.name)
		}
	}
	return nil
}

// AddressInput converts the postal part of the form
func (f Form) AddressInput() order.AddressInput {
	return order.AddressInput{
		Line1:      f.Address,
		Line2:      f.Address2,
		City:       f.City,
		State:      f.State,
		PostalCode: f.Postcode,
		Country:    f.Country,
		Phone:      f.Phone,
	}
}

// Request is one checkout submission.
// Session is mutated in place; the caller persists it afterwards.
type Request struct {
	Customer customer.Identity
	Session  *session.State
	Form     Form
}

// Outcome tells the caller where the customer goes next
type Outcome int

const (
	// OutcomePlaced means an order was committed
	OutcomePlaced Outcome = iota
	// OutcomeNoCart means there was nothing to check out and nothing was written
	OutcomeNoCart
)

// Result of a checkout
type Result struct {
	Outcome Outcome
	Order   *order.CartOrder
}

// PreviewItem is one line on the checkout page
type PreviewItem struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	ColorName string          `json:"color_name,omitempty"`
	Size      string          `json:"size,omitempty"`
}

// AddressResponse is a saved address offered on the checkout page
type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	Line1      string    `json:"address"`
	Line2      string    `json:"address2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postcode"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	IsDefault  bool      `json:"is_default"`
}

// PreviewResponse is the checkout page
type PreviewResponse struct {
	pricingapp.Quote
	Items          []PreviewItem     `json:"items"`
	CouponCode     string            `json:"coupon_code,omitempty"`
	TaxRate        decimal.Decimal   `json:"tax_rate"`
	Addresses      []AddressResponse `json:"addresses"`
	PaymentMethods []string          `json:"payment_methods"`
	Message        string            `json:"message,omitempty"`
}

func toAddressResponse(a order.Address) AddressResponse {
	return AddressResponse{
		ID:         a.ID,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		IsDefault:  a.IsDefault,
	}
}

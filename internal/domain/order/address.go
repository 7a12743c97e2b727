package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// AddressType distinguishes billing and shipping addresses
type AddressType string

const (
	AddressTypeBilling  AddressType = "billing"
	AddressTypeShipping AddressType = "shipping"
)

// Placeholder values used when a user must have an address but never entered one
const (
	PlaceholderLine1      = "Default Address"
	PlaceholderCity       = "Default City"
	PlaceholderState      = "Default State"
	PlaceholderPostalCode = "00000"
	PlaceholderCountry    = "Default Country"
)

// Address is a postal record owned by a user. A user has at most one default address.
type Address struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Type       AddressType
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
	IsDefault  bool
	CreatedAt  time.Time
}

// AddressInput holds the submitted postal fields
type AddressInput struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// NewShippingAddress creates a non-default shipping address from submitted fields
func NewShippingAddress(userID uuid.UUID, in AddressInput) (*Address, error) {
	a := &Address{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       AddressTypeShipping,
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      strings.TrimSpace(in.Line2),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		Phone:      strings.TrimSpace(in.Phone),
		CreatedAt:  time.Now(),
	}
	if a.Line1 == "" || a.City == "" || a.State == "" || a.PostalCode == "" || a.Country == "" {
		return nil, shared.NewValidationError("Address is incomplete")
	}
	return a, nil
}

// NewPlaceholderAddress builds the default shipping address used when a user has none
func NewPlaceholderAddress(userID uuid.UUID) *Address {
	return &Address{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       AddressTypeShipping,
		Line1:      PlaceholderLine1,
		City:       PlaceholderCity,
		State:      PlaceholderState,
		PostalCode: PlaceholderPostalCode,
		Country:    PlaceholderCountry,
		IsDefault:  true,
		CreatedAt:  time.Now(),
	}
}

// OneLine renders "line1, city, state, country, postcode"
func (a *Address) OneLine() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts[0] = a.Line1 + " " + a.Line2
	}
	parts = append(parts, a.City, a.State, a.Country, a.PostalCode)
	return strings.Join(parts, ", ")
}

package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Public id prefixes for catalog grouping records
const (
	CategoryIDPrefix = "cat_"
	VendorIDPrefix   = "ven_"
)

// Category groups products for browsing
type Category struct {
	shared.BaseEntity
	CID      string
	Title    string
	IsActive bool
}

// NewCategory creates an active category
func NewCategory(title string) (*Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewValidationError("Category title cannot be empty")
	}
	if len(title) > 100 {
		return nil, shared.NewValidationError("Category title cannot exceed 100 characters")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		CID:        shared.NewShortID(CategoryIDPrefix),
		Title:      title,
		IsActive:   true,
	}, nil
}

// Vendor is the seller a product is listed under
type Vendor struct {
	shared.BaseEntity
	VID        string
	Name       string
	Email      string
	Slug       string
	IsVerified bool
}

// NewVendor creates an unverified vendor
func NewVendor(name, email string) (*Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Vendor name cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return nil, shared.NewValidationError("Vendor email is invalid")
	}
	return &Vendor{
		BaseEntity: shared.NewBaseEntity(),
		VID:        shared.NewShortID(VendorIDPrefix),
		Name:       name,
		Email:      strings.ToLower(strings.TrimSpace(email)),
	}, nil
}

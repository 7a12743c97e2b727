package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductStatus represents the publication state of a product
type ProductStatus string

const (
	ProductStatusDrafted   ProductStatus = "drafted"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusArchived  ProductStatus = "archived"
)

// Public id prefixes
const (
	ProductIDPrefix = "prod_"
	SKUPrefix       = "sku_"
)

// MaxRating is the upper bound of the product rating aggregate
var MaxRating = decimal.NewFromInt(5)

// Product represents a catalog entry with its stock counters.
// Stock is only decremented by checkout, through ProductRepository.DecrementStock.
type Product struct {
	shared.BaseAggregateRoot
	PID           string
	SKU           string
	Slug          string
	Title         string
	Description   string
	VendorID      *uuid.UUID
	CategoryID    *uuid.UUID
	Price         decimal.Decimal
	OldPrice      *decimal.Decimal
	StockQuantity int
	ItemsSold     int
	Rating        decimal.Decimal
	Status        ProductStatus
	IsDiscounted  bool
	IsFeatured    bool
	Digital       bool
}

// NewProduct creates a drafted product with generated public ids.
// The slug is left empty; callers assign one with Slugify so uniqueness can be checked.
func NewProduct(title string, price decimal.Decimal, stock int) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewValidationError("Product title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewValidationError("Product title cannot exceed 200 characters")
	}
	if !price.IsPositive() {
		return nil, shared.NewValidationError("Product price must be positive")
	}
	if stock < 0 {
		return nil, shared.NewValidationError("Stock quantity cannot be negative")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PID:               shared.NewShortID(ProductIDPrefix),
		SKU:               shared.NewShortID(SKUPrefix),
		Title:             title,
		Price:             price,
		StockQuantity:     stock,
		Rating:            decimal.Zero,
		Status:            ProductStatusDrafted,
	}
	return p, nil
}

// SetOldPrice records the pre-sale price and refreshes the discount flag
func (p *Product) SetOldPrice(old *decimal.Decimal) error {
	if old != nil && !old.IsPositive() {
		return shared.NewValidationError("Old price must be positive")
	}
	p.OldPrice = old
	p.RefreshDiscountFlag()
	p.UpdatedAt = time.Now()
	return nil
}

// RefreshDiscountFlag recomputes IsDiscounted from the old price.
func (p *Product) RefreshDiscountFlag() {
	p.IsDiscounted = p.OldPrice != nil && p.OldPrice.GreaterThan(p.Price)
}

// PercentageDiscount returns the discount against the old price, in percent with two decimals
func (p *Product) PercentageDiscount() decimal.Decimal {
	if p.OldPrice == nil || !p.OldPrice.IsPositive() {
		return decimal.Zero
	}
	return p.OldPrice.Sub(p.Price).Div(*p.OldPrice).Mul(decimal.NewFromInt(100)).Round(2)
}

// Publish makes the product visible in the storefront
func (p *Product) Publish() {
	p.Status = ProductStatusPublished
	p.UpdatedAt = time.Now()
}

// IsPublished reports whether the product is visible in the storefront
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

// HasStock reports whether quantity units can be sold right now
func (p *Product) HasStock(quantity int) bool {
	return p.StockQuantity >= quantity
}

// ApplyAverageRating stores a recomputed rating, clamped to [0, 5] with two decimals
func (p *Product) ApplyAverageRating(avg decimal.Decimal) {
	switch {
	case avg.IsNegative():
		avg = decimal.Zero
	case avg.GreaterThan(MaxRating):
		avg = MaxRating
	}
	p.Rating = avg.Round(2)
	p.UpdatedAt = time.Now()
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByPID finds a product by its public id
	FindByPID(ctx context.Context, pid string) (*Product, error)

	// FindByIDs loads several products at once, keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Product, error)

	// ExistsBySlug checks whether a slug is already used
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DecrementStock atomically removes quantity units from stock and adds them to items sold.
	// It fails with OUT_OF_STOCK (reporting the remaining stock) instead of going negative.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// UpdateRating stores a new rating aggregate
	UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal) error
}

// CategoryRepository persists categories
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	FindByTitle(ctx context.Context, title string) (*Category, error)
}

// VendorRepository persists vendors
type VendorRepository interface {
	Save(ctx context.Context, vendor *Vendor) error
	FindByName(ctx context.Context, name string) (*Vendor, error)
}

// ReviewRepository persists product reviews
type ReviewRepository interface {
	// Create inserts a review, failing with ErrAlreadyReviewed on a duplicate (product, user)
	Create(ctx context.Context, review *ProductReview) error

	// Exists reports whether the user already reviewed the product
	Exists(ctx context.Context, productID, userID uuid.UUID) (bool, error)

	// AverageRating returns the mean rating of all reviews of a product (zero when none)
	AverageRating(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}

// WishlistRepository persists wishlist memberships
type WishlistRepository interface {
	// Add is get-or-create on (user, product)
	Add(ctx context.Context, item *WishlistItem) error

	// Remove deletes the membership if present
	Remove(ctx context.Context, userID, productID uuid.UUID) error

	// ListByUser returns the user's wishlist, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]WishlistItem, error)
}

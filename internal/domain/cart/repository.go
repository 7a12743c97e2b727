package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository persists carts and their lines
type CartRepository interface {
	// FindOpenByCustomer returns the customer's open cart with its items, or shared.ErrNotFound
	FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) (*Cart, error)

	// GetOrCreateOpen returns the open cart, creating it when absent.
	// Concurrent callers for the same customer receive the same cart.
	GetOrCreateOpen(ctx context.Context, customerID uuid.UUID) (*Cart, error)

	// FindByItem returns the open cart containing the item when owned by customerID, or shared.ErrNotFound
	FindByItem(ctx context.Context, customerID, itemID uuid.UUID) (*Cart, error)

	// SaveItem inserts or updates one line
	SaveItem(ctx context.Context, item *CartItem) error

	// DeleteItem removes one line
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// MarkCompleted persists the completed flag and order link.
	// Returns shared.ErrConcurrencyConflict when the cart changed since it was loaded.
	MarkCompleted(ctx context.Context, c *Cart) error
}

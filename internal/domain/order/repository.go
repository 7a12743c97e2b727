package order

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository persists orders together with their lines
type OrderRepository interface {
	// Create inserts the order and all of its lines
	Create(ctx context.Context, o *CartOrder) error

	// FindByID loads an order with lines, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*CartOrder, error)

	// FindByOrderID loads a customer's order by public id. Orders of other customers are reported as not found.
	FindByOrderID(ctx context.Context, customerID uuid.UUID, orderID string) (*CartOrder, error)

	// FindLines loads only the lines of an order
	FindLines(ctx context.Context, id uuid.UUID) ([]OrderLine, error)

	// UpdateTotals persists recomputed money fields with an optimistic version check
	UpdateTotals(ctx context.Context, o *CartOrder) error
}

// AddressRepository persists addresses
type AddressRepository interface {
	Create(ctx context.Context, a *Address) error
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID, addressType AddressType) ([]Address, error)

	// EnsureDefault creates the placeholder default address when the user has no address at all.
	// It is a no-op otherwise and safe to call repeatedly.
	EnsureDefault(ctx context.Context, userID uuid.UUID) error
}

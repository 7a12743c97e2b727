package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Quantity bounds for a single cart line
const (
	MinLineQuantity = 1
	MaxLineQuantity = 100
)

// AggregateTypeCart is the aggregate type for carts
const AggregateTypeCart = "Cart"

// Domain errors for the cart aggregate
var (
	ErrItemNotFound    = shared.NewNotFoundError("Cart item")
	ErrCartCompleted   = shared.NewDomainError(shared.CodeInvalidState, "Cart has already been checked out")
	ErrEmptyCart       = shared.NewDomainError(shared.CodeInvalidState, "Cart is empty")
	ErrQuantityTooLow  = shared.NewValidationError("Quantity must be at least 1")
	ErrQuantityTooHigh = shared.NewValidationError("Quantity cannot exceed 100")
)

// CartItem is a line of an open cart
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Variant   Variant
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineTotal returns unit price times quantity
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the per-customer open collection of line items prior to checkout.
// Once completed it is linked to exactly one order and no longer changes.
type Cart struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	Completed  bool
	OrderID    *uuid.UUID
	Items      []CartItem
}

// NewCart creates an empty open cart for a customer
func NewCart(customerID uuid.UUID) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Items:             make([]CartItem, 0),
	}
}

// AddItem merges quantity into the existing line for the product or appends a new line.
// The unit price of an existing line stays the one captured when it was first added.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal, variant Variant) (*CartItem, error) {
	if c.Completed {
		return nil, ErrCartCompleted
	}
	if quantity < MinLineQuantity {
		return nil, ErrQuantityTooLow
	}

	now := time.Now()
	if item := c.findByProduct(productID); item != nil {
		merged := item.Quantity + quantity
		if merged > MaxLineQuantity {
			return nil, ErrQuantityTooHigh.WithDetail("current", item.Quantity)
		}
		item.Quantity = merged
		item.Variant = mergeVariant(item.Variant, variant)
		item.UpdatedAt = now
		c.UpdatedAt = now
		return item, nil
	}

	if quantity > MaxLineQuantity {
		return nil, ErrQuantityTooHigh
	}
	c.Items = append(c.Items, CartItem{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Variant:   variant,
		CreatedAt: now,
		UpdatedAt: now,
	})
	c.UpdatedAt = now
	return &c.Items[len(c.Items)-1], nil
}

// UpdateQuantity sets a line's quantity, bounded by the product's current stock
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity, stock int) (*CartItem, error) {
	if c.Completed {
		return nil, ErrCartCompleted
	}
	item := c.FindItem(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if quantity < MinLineQuantity {
		return nil, ErrQuantityTooLow
	}
	if quantity > MaxLineQuantity {
		return nil, ErrQuantityTooHigh
	}
	if quantity > stock {
		return nil, shared.ErrInsufficientStock.WithDetail("available", stock)
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	c.UpdatedAt = item.UpdatedAt
	return item, nil
}

// RemoveItem deletes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	if c.Completed {
		return ErrCartCompleted
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrItemNotFound
}

// FindItem returns the line with the given id, or nil
func (c *Cart) FindItem(itemID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) findByProduct(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemCount returns the total number of units in the cart
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// LineCount returns the number of distinct lines, which is what the storefront displays as the cart count
func (c *Cart) LineCount() int {
	return len(c.Items)
}

// Subtotal returns the sum of all line totals
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Complete marks the cart as checked out and links it to the order it produced
func (c *Cart) Complete(orderID uuid.UUID) error {
	if c.Completed {
		return ErrCartCompleted
	}
	if c.IsEmpty() {
		return ErrEmptyCart
	}
	c.Completed = true
	c.OrderID = &orderID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// OwnedBy reports whether the cart belongs to the customer
func (c *Cart) OwnedBy(customerID uuid.UUID) bool {
	return c.CustomerID == customerID
}

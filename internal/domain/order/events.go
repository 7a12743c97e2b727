package order

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// EventTypeOrderPlaced is emitted once per successful checkout
const EventTypeOrderPlaced = "order.placed"

// OrderPlacedEvent carries the order identity; handlers reload details they need
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID    string          `json:"order_id"`
	InvoiceNo  string          `json:"invoice_no"`
	CustomerID string          `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent builds the event for a freshly created order
func NewOrderPlacedEvent(o *CartOrder) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.OrderID,
		InvoiceNo:       o.InvoiceNo,
		CustomerID:      o.CustomerID.String(),
		Total:           o.Total,
	}
}

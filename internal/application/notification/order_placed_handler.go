package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderPlacedHandler sends the operations message for orders delivered through the outbox
type OrderPlacedHandler struct {
	orders     order.OrderRepository
	customers  customer.CustomerRepository
	addresses  order.AddressRepository
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewOrderPlacedHandler creates an OrderPlacedHandler
func NewOrderPlacedHandler(
	orders order.OrderRepository,
	customers customer.CustomerRepository,
	addresses order.AddressRepository,
	dispatcher *Dispatcher,
	logger *zap.Logger,
) *OrderPlacedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderPlacedHandler{
		orders:     orders,
		customers:  customers,
		addresses:  addresses,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// EventTypes implements shared.EventHandler
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle reloads the order with its customer and address and dispatches the message
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, order.EventTypeOrderPlaced)
	}

	o, err := h.orders.FindByID(ctx, placed.AggregateID())
	if err != nil {
		return fmt.Errorf("load order %s: %w", placed.OrderID, err)
	}

	c, err := h.customers.FindByID(ctx, o.CustomerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("load customer: %w", err)
	}

	var addr *order.Address
	if o.ShippingAddressID != nil {
		addr, err = h.addresses.FindByID(ctx, *o.ShippingAddressID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("load shipping address: %w", err)
		}
	}

	h.logger.Debug("Dispatching order notification from outbox",
		zap.String("order_id", o.OrderID),
		zap.String("event_id", placed.EventID().String()))
	return h.dispatcher.Dispatch(ctx, BuildOrderMessage(o, c, addr))
}

var _ shared.EventHandler = (*OrderPlacedHandler)(nil)

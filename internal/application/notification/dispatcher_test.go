package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func placedOrder(t *testing.T) (*order.CartOrder, *customer.Customer, *order.Address) {
	t.Helper()
	c := customer.NewCustomer(customer.Identity{UserID: uuid.New(), Username: "jdoe", FullName: "Jane Doe", Email: "jane@example.com"})
	c.Phone = "+1 555 0199"

	addr, err := order.NewShippingAddress(c.ID, order.AddressInput{
		Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US",
	})
	require.NoError(t, err)

	o, err := order.NewCartOrder(order.PlaceOrderParams{
		CustomerID: c.ID,
		Totals: pricing.Breakdown{
			Subtotal: decimal.RequireFromString("20"),
			Discount: decimal.RequireFromString("2"),
			Tax:      decimal.RequireFromString("1"),
			Shipping: decimal.RequireFromString("5"),
			Total:    decimal.RequireFromString("24"),
		},
		CouponCode:        "SAVE10",
		PaymentMethod:     "cash_on_delivery",
		Paid:              true,
		ShippingAddressID: &addr.ID,
	})
	require.NoError(t, err)
	o.AddLine(cart.CartItem{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.RequireFromString("10"),
		Variant: cart.Variant{ColorName: "Red", Size: "M"}}, "Linen Shirt")
	return o, c, addr
}

func TestBuildOrderMessage(t *testing.T) {
	o, c, addr := placedOrder(t)

	msg := BuildOrderMessage(o, c, addr)
	assert.Equal(t, "Jane Doe", msg.CustomerName)
	assert.Equal(t, "+1 555 0199", msg.Phone, "falls back to the profile phone")
	assert.Equal(t, "Springfield", msg.City)
	require.Len(t, msg.Items, 1)
	assert.Equal(t, "Linen Shirt", msg.Items[0].Title)
	assert.Equal(t, "Red", msg.Items[0].ColorName)

	o.Phone = "+1 555 0100"
	assert.Equal(t, "+1 555 0100", BuildOrderMessage(o, c, addr).Phone)
}

func TestDispatcher_Dispatch(t *testing.T) {
	o, c, addr := placedOrder(t)
	cfg := DispatcherConfig{OperationsEmail: "ops@example.com", FromEmail: "shop@example.com"}

	t.Run("sends to the operations address", func(t *testing.T) {
		sender := &recordingSender{}
		d := NewDispatcher(sender, cfg, nil)

		require.NoError(t, d.Dispatch(context.Background(), BuildOrderMessage(o, c, addr)))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "ops@example.com", sender.sent[0].To)
		assert.Equal(t, "shop@example.com", sender.sent[0].From)
		assert.Equal(t, "New Order from Jane Doe", sender.sent[0].Subject)
		assert.Contains(t, sender.sent[0].Body, "Discount Code Used: SAVE10 | Value: 2.00")
	})

	t.Run("transport failure is a notification error", func(t *testing.T) {
		d := NewDispatcher(&recordingSender{err: errors.New("smtp down")}, cfg, nil)

		err := d.Dispatch(context.Background(), BuildOrderMessage(o, c, addr))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotificationFailed))
		assert.Contains(t, err.Error(), "smtp down")
	})
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.CartOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.CartOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CartOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderID(ctx context.Context, customerID uuid.UUID, orderID string) (*order.CartOrder, error) {
	args := m.Called(ctx, customerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CartOrder), args.Error(1)
}

func (m *MockOrderRepository) FindLines(ctx context.Context, id uuid.UUID) ([]order.OrderLine, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]order.OrderLine), args.Error(1)
}

func (m *MockOrderRepository) UpdateTotals(ctx context.Context, o *order.CartOrder) error {
	return m.Called(ctx, o).Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Ensure(ctx context.Context, id customer.Identity) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(ctx context.Context, a *order.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Address), args.Error(1)
}

func (m *MockAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID, addressType order.AddressType) ([]order.Address, error) {
	args := m.Called(ctx, userID, addressType)
	return args.Get(0).([]order.Address), args.Error(1)
}

func (m *MockAddressRepository) EnsureDefault(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func TestOrderPlacedHandler_Handle(t *testing.T) {
	ctx := context.Background()
	o, c, addr := placedOrder(t)

	t.Run("reloads the order and dispatches", func(t *testing.T) {
		orders := new(MockOrderRepository)
		customers := new(MockCustomerRepository)
		addresses := new(MockAddressRepository)
		orders.On("FindByID", ctx, o.ID).Return(o, nil)
		customers.On("FindByID", ctx, o.CustomerID).Return(c, nil)
		addresses.On("FindByID", ctx, addr.ID).Return(addr, nil)

		sender := &recordingSender{}
		h := NewOrderPlacedHandler(orders, customers, addresses, NewDispatcher(sender, DispatcherConfig{OperationsEmail: "ops@example.com"}, nil), nil)

		assert.Equal(t, []string{order.EventTypeOrderPlaced}, h.EventTypes())
		require.NoError(t, h.Handle(ctx, order.NewOrderPlacedEvent(o)))
		require.Len(t, sender.sent, 1)
		assert.Contains(t, sender.sent[0].Body, "1 Main St, Springfield, IL, US, 62701")
	})

	t.Run("missing order fails so the outbox retries", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, o.ID).Return(nil, shared.ErrNotFound)
		sender := &recordingSender{}
		h := NewOrderPlacedHandler(orders, new(MockCustomerRepository), new(MockAddressRepository), NewDispatcher(sender, DispatcherConfig{}, nil), nil)

		err := h.Handle(ctx, order.NewOrderPlacedEvent(o))
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, sender.sent)
	})
}

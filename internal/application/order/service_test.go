package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.OrderLine), args.Error(1)
}

func (m *MockOrderRepository) UpdateTotals(ctx context.Context, o *order.CartOrder) error {
	return m.Called(ctx, o).Error(0)
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

// newOrder places a $50 order (2 x 25.00) with a 5.00 discount, 2.50 tax and 5.00 shipping
func newOrder(t *testing.T, addressID *uuid.UUID) *order.CartOrder {
	t.Helper()
	o, err := order.NewCartOrder(order.PlaceOrderParams{
		CustomerID: uuid.New(),
		Totals: pricing.Price(pricing.Input{
			Subtotal: decimal.NewFromInt(50),
			Discount: decimal.NewFromInt(5),
			TaxRate:  pricing.DefaultTaxRate,
			Shipping: decimal.NewFromInt(5),
		}),
		CouponCode:        "SAVE5",
		PaymentMethod:     "cash_on_delivery",
		Paid:              true,
		ShippingAddressID: addressID,
	})
	require.NoError(t, err)
	o.AddLine(cart.CartItem{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.RequireFromString("25.00")}, "Wool Blanket")
	return o
}

type fixture struct {
	orders    *MockOrderRepository
	addresses *MockAddressRepository
	customers *MockCustomerRepository
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		orders:    new(MockOrderRepository),
		addresses: new(MockAddressRepository),
		customers: new(MockCustomerRepository),
	}
	f.svc = NewService(f.orders, f.addresses, f.customers, nil)
	return f
}

func TestService_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("every section loads", func(t *testing.T) {
		f := newFixture()
		addrID := uuid.New()
		o := newOrder(t, &addrID)

		f.orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.orders.On("FindLines", mock.Anything, o.ID).Return(o.Lines, nil)
		f.customers.On("FindByID", mock.Anything, o.CustomerID).Return(&customer.Customer{ID: o.CustomerID, Username: "amal", Email: "amal@example.com"}, nil)
		f.addresses.On("FindByID", mock.Anything, addrID).Return(&order.Address{ID: addrID, Line1: "1 Main St", City: "Springfield", State: "IL", Country: "US", PostalCode: "62701"}, nil)

		resp, err := f.svc.Detail(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, resp.Summary.OK())
		assert.Equal(t, o.InvoiceNo, resp.Summary.Data.InvoiceNo)
		assert.True(t, resp.Customer.OK())
		assert.Equal(t, "amal", resp.Customer.Data.Username)
		assert.True(t, resp.ShippingAddress.OK())
		assert.Equal(t, "1 Main St, Springfield, IL, US, 62701", resp.ShippingAddress.Data.OneLine)
		require.True(t, resp.Lines.OK())
		assert.Len(t, *resp.Lines.Data, 1)
		require.True(t, resp.Totals.OK())
		assert.Equal(t, "52.50", resp.Totals.Data.Total.StringFixed(2))
		assert.True(t, resp.Totals.Data.Balanced)
	})

	t.Run("failing sections are reported, not fatal", func(t *testing.T) {
		f := newFixture()
		o := newOrder(t, nil)

		f.orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.orders.On("FindLines", mock.Anything, o.ID).Return(nil, errors.New("connection reset"))
		f.customers.On("FindByID", mock.Anything, o.CustomerID).Return(nil, shared.ErrNotFound)

		resp, err := f.svc.Detail(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, resp.Summary.OK())
		assert.Equal(t, SectionUnavailable, resp.Customer.Status)
		assert.Equal(t, ReasonNotFound, resp.Customer.Reason)
		assert.Equal(t, ReasonNoAddress, resp.ShippingAddress.Reason)
		assert.Equal(t, ReasonLoadFailed, resp.Lines.Reason)
		assert.Equal(t, ReasonLoadFailed, resp.Totals.Reason)
		assert.Nil(t, resp.Lines.Data)
		f.addresses.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.orders.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Detail(ctx, id)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestService_RecomputeTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("subtotal rebuilt from lines", func(t *testing.T) {
		f := newFixture()
		o := newOrder(t, nil)
		// a line added after placement
		o.AddLine(cart.CartItem{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")}, "Pillow")
		version := o.Version

		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
		f.orders.On("UpdateTotals", ctx, mock.MatchedBy(func(saved *order.CartOrder) bool {
			return saved.Version == version+1
		})).Return(nil)

		totals, err := f.svc.RecomputeTotals(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, "60.00", totals.Subtotal.StringFixed(2))
		// 60 - 5 + 2.50 + 5
		assert.Equal(t, "62.50", totals.Total.StringFixed(2))
		assert.True(t, totals.Balanced)
		f.orders.AssertExpectations(t)
	})

	t.Run("concurrent edit", func(t *testing.T) {
		f := newFixture()
		o := newOrder(t, nil)
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
		f.orders.On("UpdateTotals", ctx, mock.Anything).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.RecomputeTotals(ctx, o.ID)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestService_Confirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	addrID := uuid.New()
	o := newOrder(t, &addrID)

	f.orders.On("FindByOrderID", ctx, o.CustomerID, o.OrderID).Return(o, nil)
	f.addresses.On("FindByID", ctx, addrID).Return(nil, shared.ErrNotFound)
	f.orders.On("FindByOrderID", ctx, mock.Anything, o.OrderID).Return(nil, shared.ErrNotFound)

	resp, err := f.svc.Confirmation(ctx, o.CustomerID, o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderID, resp.OrderID)
	assert.Nil(t, resp.ShippingAddress)
	assert.Equal(t, "50.00", resp.Totals.LinesTotal.StringFixed(2))

	_, err = f.svc.Confirmation(ctx, uuid.New(), o.OrderID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

package checkout

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// TransactionScope runs checkout steps atomically.
// If fn returns an error every write made through the repositories is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories sharing one database transaction.
// Events published through EventPublisher are stored in the same transaction.
type TransactionalRepositories interface {
	CartRepo() cart.CartRepository
	ProductRepo() catalog.ProductRepository
	CouponRepo() coupon.CouponRepository
	OrderRepo() order.OrderRepository
	AddressRepo() order.AddressRepository
	CustomerRepo() customer.CustomerRepository
	EventPublisher() shared.EventPublisher
}

// NoOpTransactionScope hands out plain repositories without a transaction.
// Useful for tests that only care about the orchestration.
type NoOpTransactionScope struct {
	Carts     cart.CartRepository
	Products  catalog.ProductRepository
	Coupons   coupon.CouponRepository
	Orders    order.OrderRepository
	Addresses order.AddressRepository
	Customers customer.CustomerRepository
	Events    shared.EventPublisher
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) CartRepo() cart.CartRepository             { return s.Carts }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository    { return s.Products }
func (s *NoOpTransactionScope) CouponRepo() coupon.CouponRepository       { return s.Coupons }
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository          { return s.Orders }
func (s *NoOpTransactionScope) AddressRepo() order.AddressRepository      { return s.Addresses }
func (s *NoOpTransactionScope) CustomerRepo() customer.CustomerRepository { return s.Customers }
func (s *NoOpTransactionScope) EventPublisher() shared.EventPublisher     { return s.Events }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

package persistence

import (
	"context"

	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/event"
	"gorm.io/gorm"
)

// GormTransactionScope implements checkout.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db         *gorm.DB
	serializer *event.EventSerializer
	maxRetries int
}

// NewGormTransactionScope creates a new GormTransactionScope.
// Events published inside a transaction are written to the outbox with maxRetries attempts.
func NewGormTransactionScope(db *gorm.DB, serializer *event.EventSerializer, maxRetries int) *GormTransactionScope {
	return &GormTransactionScope{db: db, serializer: serializer, maxRetries: maxRetries}
}

// Execute runs fn within a database transaction, committing only when fn succeeds
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos checkout.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, scope: s})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx    *gorm.DB
	scope *GormTransactionScope
}

func (r *gormTransactionalRepositories) CartRepo() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) CouponRepo() coupon.CouponRepository {
	return NewGormCouponRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) AddressRepo() order.AddressRepository {
	return NewGormAddressRepository(r.tx)
}

func (r *gormTransactionalRepositories) CustomerRepo() customer.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// EventPublisher stores events in the outbox table of the same transaction
func (r *gormTransactionalRepositories) EventPublisher() shared.EventPublisher {
	return event.NewOutboxPublisher(r.scope.serializer, event.NewGormOutboxRepository(r.tx), r.scope.maxRetries)
}

var _ checkout.TransactionScope = (*GormTransactionScope)(nil)
var _ checkout.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

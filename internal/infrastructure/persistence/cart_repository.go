package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

// FindOpenByCustomer returns the customer's open cart with its items
func (r *GormCartRepository) FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	err := r.withItems(ctx).
		Where("customer_id = ? AND completed = ?", customerID, false).
		First(&model).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// GetOrCreateOpen returns the open cart, inserting one when absent.
// The partial unique index on open carts turns a concurrent duplicate insert
// into a no-op, after which the winner's cart is read back.
func (r *GormCartRepository) GetOrCreateOpen(ctx context.Context, customerID uuid.UUID) (*cart.Cart, error) {
	existing, err := r.FindOpenByCustomer(ctx, customerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	model := models.CartModelFromDomain(cart.NewCart(customerID))
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return nil, err
	}
	return r.FindOpenByCustomer(ctx, customerID)
}

// FindByItem returns the open cart holding itemID if it belongs to customerID
func (r *GormCartRepository) FindByItem(ctx context.Context, customerID, itemID uuid.UUID) (*cart.Cart, error) {
	var item models.CartItemModel
	err := r.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.customer_id = ? AND carts.completed = ?", itemID, customerID, false).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrItemNotFound
		}
		return nil, err
	}

	var model models.CartModel
	if err := r.withItems(ctx).First(&model, "id = ?", item.CartID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// SaveItem inserts or updates one line
func (r *GormCartRepository) SaveItem(ctx context.Context, item *cart.CartItem) error {
	if err := r.db.WithContext(ctx).Save(models.CartItemModelFromDomain(item)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrConcurrencyConflict.WithCause(err)
		}
		return err
	}
	return nil
}

// DeleteItem removes one line
func (r *GormCartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItemModel{}, "id = ?", itemID).Error
}

// MarkCompleted flips the cart to completed, guarded by the version it was loaded with
func (r *GormCartRepository) MarkCompleted(ctx context.Context, c *cart.Cart) error {
	if !c.Completed || c.OrderID == nil {
		return cart.ErrCartCompleted
	}
	result := r.db.WithContext(ctx).
		Model(&models.CartModel{}).
		Where("id = ? AND version = ? AND completed = ?", c.ID, c.Version-1, false).
		Updates(map[string]any{
			"completed":  true,
			"order_id":   *c.OrderID,
			"version":    c.Version,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ cart.CartRepository = (*GormCartRepository)(nil)

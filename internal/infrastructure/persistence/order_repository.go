package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order header and its lines in one statement batch
func (r *GormOrderRepository) Create(ctx context.Context, o *order.CartOrder) error {
	if err := r.db.WithContext(ctx).Create(models.CartOrderModelFromDomain(o)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists.WithCause(err)
		}
		return err
	}
	return nil
}

// FindByID loads an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.CartOrder, error) {
	var model models.CartOrderModel
	if err := r.db.WithContext(ctx).Preload("Lines").First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByOrderID loads the customer's order by its public id
func (r *GormOrderRepository) FindByOrderID(ctx context.Context, customerID uuid.UUID, orderID string) (*order.CartOrder, error) {
	var model models.CartOrderModel
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_id = ? AND customer_id = ?", orderID, customerID).
		First(&model).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindLines loads the lines of an order ordered by product title
func (r *GormOrderRepository) FindLines(ctx context.Context, id uuid.UUID) ([]order.OrderLine, error) {
	var lineModels []models.OrderLineModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("product_title ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	lines := make([]order.OrderLine, 0, len(lineModels))
	for i := range lineModels {
		lines = append(lines, lineModels[i].ToDomain())
	}
	return lines, nil
}

// UpdateTotals writes the money fields when the stored version is the one the order was loaded with
func (r *GormOrderRepository) UpdateTotals(ctx context.Context, o *order.CartOrder) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartOrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]any{
			"subtotal":   o.Subtotal,
			"discount":   o.Discount,
			"tax":        o.Tax,
			"shipping":   o.Shipping,
			"total":      o.Total,
			"version":    o.Version,
			"updated_at": o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)

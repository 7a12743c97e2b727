package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAddressRepository implements order.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Create inserts a new address
func (r *GormAddressRepository) Create(ctx context.Context, a *order.Address) error {
	return r.db.WithContext(ctx).Create(models.AddressModelFromDomain(a)).Error
}

// FindByID loads an address
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Address, error) {
	var model models.AddressModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// ListByUser lists a user's addresses of one type, default first.
// An empty addressType lists every type.
func (r *GormAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID, addressType order.AddressType) ([]order.Address, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if addressType != "" {
		query = query.Where("type = ?", addressType)
	}
	var rows []models.AddressModel
	if err := query.Order("is_default DESC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	addresses := make([]order.Address, 0, len(rows))
	for i := range rows {
		addresses = append(addresses, *rows[i].ToDomain())
	}
	return addresses, nil
}

// EnsureDefault inserts the placeholder default address for a user without any address
func (r *GormAddressRepository) EnsureDefault(ctx context.Context, userID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AddressModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	placeholder := models.AddressModelFromDomain(order.NewPlaceholderAddress(userID))
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(placeholder).Error
}

var _ order.AddressRepository = (*GormAddressRepository)(nil)

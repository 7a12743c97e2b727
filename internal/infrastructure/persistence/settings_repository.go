package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements pricing.SettingsRepository on the single site_settings row
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// ShippingPrice returns the configured flat shipping price, zero when no row exists
func (r *GormSettingsRepository) ShippingPrice(ctx context.Context) (decimal.Decimal, error) {
	var model models.SiteSettingModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", models.SiteSettingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return model.ShippingPrice, nil
}

// SetShippingPrice upserts the flat shipping price
func (r *GormSettingsRepository) SetShippingPrice(ctx context.Context, amount decimal.Decimal) error {
	model := &models.SiteSettingModel{
		ID:            models.SiteSettingID,
		ShippingPrice: amount,
		UpdatedAt:     time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"shipping_price", "updated_at"}),
	}).Create(model).Error
}

var _ pricing.SettingsRepository = (*GormSettingsRepository)(nil)

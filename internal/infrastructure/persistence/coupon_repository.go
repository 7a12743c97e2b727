package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCouponRepository implements coupon.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByCode looks a coupon up by its normalized code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	normalized := coupon.NormalizeCode(code)
	if normalized == "" {
		return nil, shared.ErrNotFound
	}
	var model models.CouponModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", normalized).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	if err := r.db.WithContext(ctx).Save(models.CouponModelFromDomain(c)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists.WithCause(err)
		}
		return err
	}
	return nil
}

// Redeem increments used_count only while the usage limit allows it.
// A NULL or zero limit means unlimited.
func (r *GormCouponRepository) Redeem(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.CouponModel{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_limit = 0 OR used_count < usage_limit)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return coupon.ReasonLimitReached.Error()
	}
	return nil
}

var _ coupon.CouponRepository = (*GormCouponRepository)(nil)

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/coupon"
)

// CouponModel is the persistence model for coupon.Coupon.
// Codes are stored upper-cased so lookups are case-insensitive.
type CouponModel struct {
	BaseModel
	Code         string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind         coupon.DiscountKind `gorm:"type:varchar(10);not null"`
	Value        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Active       bool                `gorm:"not null;default:true"`
	ExpiresAt    *time.Time
	UsageLimit   *int
	UsedCount    int             `gorm:"not null;default:0"`
	MinCartTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the model to a domain Coupon
func (m *CouponModel) ToDomain() *coupon.Coupon {
	return &coupon.Coupon{
		BaseEntity:   m.BaseModel.ToDomain(),
		Code:         m.Code,
		Kind:         m.Kind,
		Value:        m.Value,
		Active:       m.Active,
		ExpiresAt:    m.ExpiresAt,
		UsageLimit:   m.UsageLimit,
		UsedCount:    m.UsedCount,
		MinCartTotal: m.MinCartTotal,
	}
}

// CouponModelFromDomain creates a model from a domain Coupon
func CouponModelFromDomain(c *coupon.Coupon) *CouponModel {
	m := &CouponModel{
		Code:         coupon.NormalizeCode(c.Code),
		Kind:         c.Kind,
		Value:        c.Value,
		Active:       c.Active,
		ExpiresAt:    c.ExpiresAt,
		UsageLimit:   c.UsageLimit,
		UsedCount:    c.UsedCount,
		MinCartTotal: c.MinCartTotal,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

package coupon

import (
	"context"

	"github.com/google/uuid"
)

// CouponRepository persists coupons
type CouponRepository interface {
	// FindByCode looks a coupon up case-insensitively, returning shared.ErrNotFound when absent
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	Save(ctx context.Context, c *Coupon) error

	// Redeem atomically increments used_count when the usage limit still allows it.
	// Returns a COUPON_INVALID limit_reached error otherwise.
	Redeem(ctx context.Context, id uuid.UUID) error
}

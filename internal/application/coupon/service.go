// Package coupon resolves discount codes against carts and keeps the
// session's applied coupon consistent with the result.
package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service resolves and applies coupons
type Service struct {
	repo coupon.CouponRepository
	now  func() time.Time
}

// NewService creates a coupon Service
func NewService(repo coupon.CouponRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithRepository returns a Service reading through repo, used inside transactions
func (s *Service) WithRepository(repo coupon.CouponRepository) *Service {
	return &Service{repo: repo, now: s.now}
}

// Resolve looks the code up case-insensitively and evaluates it against cartTotal.
// A missing coupon is a NotFound evaluation, not an error.
func (s *Service) Resolve(ctx context.Context, code string, cartTotal decimal.Decimal) (coupon.Evaluation, error) {
	c, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return coupon.Evaluate(nil, cartTotal, s.now()), nil
		}
		return coupon.Evaluation{}, err
	}
	return coupon.Evaluate(c, cartTotal, s.now()), nil
}

// Apply replaces the session's coupon with code. An empty code clears it.
// An invalid code clears the applied coupon and records the display message.
func (s *Service) Apply(ctx context.Context, state *session.State, code string, cartTotal decimal.Decimal) (coupon.Evaluation, error) {
	normalized := coupon.NormalizeCode(code)
	if normalized == "" {
		state.ClearCoupon()
		return coupon.Evaluation{Discount: decimal.Zero}, nil
	}

	ev, err := s.Resolve(ctx, normalized, cartTotal)
	if err != nil {
		return coupon.Evaluation{}, err
	}
	if !ev.Valid {
		state.RejectCoupon(ev.Reason.Message())
		return ev, nil
	}
	state.ApplyCoupon(ev.Coupon.Code)
	return ev, nil
}

// ResolveApplied re-evaluates the session's coupon against the current cart total.
// A coupon that stopped being valid is removed from the session.
func (s *Service) ResolveApplied(ctx context.Context, state *session.State, cartTotal decimal.Decimal) (coupon.Evaluation, error) {
	if state == nil || state.AppliedCoupon == "" {
		return coupon.Evaluation{Discount: decimal.Zero}, nil
	}

	ev, err := s.Resolve(ctx, state.AppliedCoupon, cartTotal)
	if err != nil {
		return coupon.Evaluation{}, err
	}
	if !ev.Valid {
		state.RejectCoupon(ev.Reason.Message())
	}
	return ev, nil
}

// Redeem consumes one use of a coupon, failing with COUPON_INVALID when the limit was reached meanwhile
func (s *Service) Redeem(ctx context.Context, ev coupon.Evaluation) error {
	if !ev.Valid || ev.Coupon == nil {
		return nil
	}
	return s.repo.Redeem(ctx, ev.Coupon.ID)
}

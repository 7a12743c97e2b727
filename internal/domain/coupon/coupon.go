package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// DiscountKind distinguishes percentage and fixed-amount coupons
type DiscountKind string

const (
	KindPercent DiscountKind = "percent"
	KindFixed   DiscountKind = "fixed"
)

// IsValid reports whether the kind is known
func (k DiscountKind) IsValid() bool {
	return k == KindPercent || k == KindFixed
}

// Reason explains why a coupon cannot be applied
type Reason string

// Reasons in the order they are checked
const (
	ReasonNone         Reason = ""
	ReasonNotFound     Reason = "not_found"
	ReasonInactive     Reason = "inactive"
	ReasonExpired      Reason = "expired"
	ReasonLimitReached Reason = "limit_reached"
	ReasonBelowMinimum Reason = "below_minimum"
)

// Customer-facing messages stored in the session as coupon_error
const (
	MessageNotFound = "Coupon does not exist."
	MessageInvalid  = "Coupon is not valid or expired."
)

// Message returns the text shown to the customer for the reason
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNotFound:
		return MessageNotFound
	default:
		return MessageInvalid
	}
}

// Error converts the reason into a COUPON_INVALID domain error
func (r Reason) Error() *shared.DomainError {
	return shared.NewDomainError(shared.CodeCouponInvalid, r.Message()).WithDetail("reason", string(r))
}

// Coupon is a discount code with validity rules
type Coupon struct {
	shared.BaseEntity
	Code         string
	Kind         DiscountKind
	Value        decimal.Decimal
	Active       bool
	ExpiresAt    *time.Time
	UsageLimit   *int
	UsedCount    int
	MinCartTotal decimal.Decimal
}

// NormalizeCode returns the canonical (upper-case, trimmed) form used for lookups
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCoupon validates and creates an active coupon
func NewCoupon(code string, kind DiscountKind, value decimal.Decimal) (*Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, shared.NewValidationError("Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewValidationError("Coupon code cannot exceed 50 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Discount kind must be percent or fixed")
	}
	if !value.IsPositive() {
		return nil, shared.NewValidationError("Discount value must be positive")
	}
	if kind == KindPercent && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("Percentage discount cannot exceed 100")
	}
	return &Coupon{
		BaseEntity:   shared.NewBaseEntity(),
		Code:         code,
		Kind:         kind,
		Value:        value,
		Active:       true,
		MinCartTotal: decimal.Zero,
	}, nil
}

// HasUsageLimit reports whether redemptions are capped. A nil or zero limit means unlimited.
func (c *Coupon) HasUsageLimit() bool {
	return c.UsageLimit != nil && *c.UsageLimit > 0
}

// Check returns the first reason, in priority order, that prevents applying the coupon
func (c *Coupon) Check(cartTotal decimal.Decimal, now time.Time) Reason {
	switch {
	case !c.Active:
		return ReasonInactive
	case c.ExpiresAt != nil && c.ExpiresAt.Before(now):
		return ReasonExpired
	case c.HasUsageLimit() && c.UsedCount >= *c.UsageLimit:
		return ReasonLimitReached
	case cartTotal.LessThan(c.MinCartTotal):
		return ReasonBelowMinimum
	}
	return ReasonNone
}

// DiscountAmount prices the coupon against a cart total.
// Percent discounts are rounded to cents; fixed discounts never exceed the total.
func (c *Coupon) DiscountAmount(cartTotal decimal.Decimal) decimal.Decimal {
	if !cartTotal.IsPositive() {
		return decimal.Zero
	}
	switch c.Kind {
	case KindPercent:
		amount := cartTotal.Mul(c.Value).Div(decimal.NewFromInt(100)).RoundBank(2)
		return decimal.Min(amount, cartTotal)
	case KindFixed:
		return decimal.Min(c.Value, cartTotal)
	}
	return decimal.Zero
}

// Evaluation is the outcome of resolving a code against a cart total
type Evaluation struct {
	Coupon   *Coupon
	Valid    bool
	Discount decimal.Decimal
	Reason   Reason
}

// Evaluate resolves a possibly missing coupon. Pass nil when the code was not found.
func Evaluate(c *Coupon, cartTotal decimal.Decimal, now time.Time) Evaluation {
	if c == nil {
		return Evaluation{Discount: decimal.Zero, Reason: ReasonNotFound}
	}
	if reason := c.Check(cartTotal, now); reason != ReasonNone {
		return Evaluation{Coupon: c, Discount: decimal.Zero, Reason: reason}
	}
	return Evaluation{Coupon: c, Valid: true, Discount: c.DiscountAmount(cartTotal)}
}

// Code returns the applied code, or an empty string for an invalid evaluation
func (e Evaluation) Code() string {
	if !e.Valid || e.Coupon == nil {
		return ""
	}
	return e.Coupon.Code
}

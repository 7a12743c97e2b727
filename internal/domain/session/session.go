package session

import (
	"context"
	"time"
)

// State is the request-scoped session data of one customer.
// Handlers load it once per request and save it back when Dirty.
type State struct {
	AppliedCoupon string `json:"applied_coupon,omitempty"`
	CouponError   string `json:"coupon_error,omitempty"`
	Flash         string `json:"flash,omitempty"`

	dirty bool
}

// ApplyCoupon stores a coupon that resolved as valid, replacing any previous one
func (s *State) ApplyCoupon(code string) {
	s.AppliedCoupon = code
	s.CouponError = ""
	s.dirty = true
}

// RejectCoupon clears the applied coupon and records why
func (s *State) RejectCoupon(message string) {
	s.AppliedCoupon = ""
	s.CouponError = message
	s.dirty = true
}

// ClearCoupon drops both the applied coupon and the coupon error
func (s *State) ClearCoupon() {
	if s.AppliedCoupon == "" && s.CouponError == "" {
		return
	}
	s.AppliedCoupon = ""
	s.CouponError = ""
	s.dirty = true
}

// SetFlash records a one-shot message for the next page
func (s *State) SetFlash(message string) {
	s.Flash = message
	s.dirty = true
}

// PopFlash returns and clears the flash message
func (s *State) PopFlash() string {
	msg := s.Flash
	if msg != "" {
		s.Flash = ""
		s.dirty = true
	}
	return msg
}

// Dirty reports whether the state changed since it was loaded
func (s *State) Dirty() bool {
	return s.dirty
}

// MarkClean resets the change tracking after a save
func (s *State) MarkClean() {
	s.dirty = false
}

// IsEmpty reports whether nothing needs to be persisted
func (s *State) IsEmpty() bool {
	return s.AppliedCoupon == "" && s.CouponError == "" && s.Flash == ""
}

// Store loads and saves session state keyed by customer
type Store interface {
	Load(ctx context.Context, key string) (*State, error)
	Save(ctx context.Context, key string, state *State, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

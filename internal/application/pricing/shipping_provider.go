package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/pricing"
	"golang.org/x/sync/singleflight"
)

// DefaultShippingCacheTTL bounds how stale the cached shipping price may be
const DefaultShippingCacheTTL = 30 * time.Second

// ShippingPolicyProvider reads the flat shipping price from the site settings.
// Concurrent cache misses share one database read.
type ShippingPolicyProvider struct {
	settings pricing.SettingsRepository
	ttl      time.Duration
	now      func() time.Time
	group    singleflight.Group

	mu        sync.RWMutex
	cached    pricing.ShippingPolicy
	fetchedAt time.Time
}

// NewShippingPolicyProvider creates a provider. A ttl <= 0 disables caching.
func NewShippingPolicyProvider(settings pricing.SettingsRepository, ttl time.Duration) *ShippingPolicyProvider {
	return &ShippingPolicyProvider{settings: settings, ttl: ttl, now: time.Now}
}

// Current returns the shipping policy in effect
func (p *ShippingPolicyProvider) Current(ctx context.Context) (pricing.ShippingPolicy, error) {
	if policy, ok := p.fresh(); ok {
		return policy, nil
	}

	v, err, _ := p.group.Do("shipping", func() (any, error) {
		amount, err := p.settings.ShippingPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("load shipping price: %w", err)
		}
		policy := pricing.ShippingPolicy{FlatAmount: amount}

		p.mu.Lock()
		p.cached = policy
		p.fetchedAt = p.now()
		p.mu.Unlock()
		return policy, nil
	})
	if err != nil {
		return pricing.ShippingPolicy{}, err
	}
	return v.(pricing.ShippingPolicy), nil
}

// Update stores a new flat price and refreshes the cache
func (p *ShippingPolicyProvider) Update(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if err := p.settings.SetShippingPrice(ctx, amount); err != nil {
		return err
	}
	p.Invalidate()
	return nil
}

// Invalidate drops the cached policy
func (p *ShippingPolicyProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetchedAt = time.Time{}
}

func (p *ShippingPolicyProvider) fresh() (pricing.ShippingPolicy, bool) {
	if p.ttl <= 0 {
		return pricing.ShippingPolicy{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.fetchedAt.IsZero() || p.now().Sub(p.fetchedAt) >= p.ttl {
		return pricing.ShippingPolicy{}, false
	}
	return p.cached, true
}

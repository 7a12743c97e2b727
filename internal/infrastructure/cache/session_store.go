package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/session"
)

const defaultSessionPrefix = "storefront:session:"

// Redis hash fields of a session
const (
	fieldAppliedCoupon = "applied_coupon"
	fieldCouponError   = "coupon_error"
	fieldFlash         = "flash"
)

// RedisSessionStore keeps each customer's session state in a Redis hash with a TTL
type RedisSessionStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisSessionStore creates a store on an existing client
func NewRedisSessionStore(client redis.UniversalClient, keyPrefix string) *RedisSessionStore {
	if keyPrefix == "" {
		keyPrefix = defaultSessionPrefix
	}
	return &RedisSessionStore{client: client, keyPrefix: keyPrefix}
}

// Load returns the stored state, or an empty state when none exists
func (s *RedisSessionStore) Load(ctx context.Context, key string) (*session.State, error) {
	fields, err := s.client.HGetAll(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session.State{
		AppliedCoupon: fields[fieldAppliedCoupon],
		CouponError:   fields[fieldCouponError],
		Flash:         fields[fieldFlash],
	}, nil
}

// Save replaces the hash and refreshes its TTL. An empty state deletes the key.
func (s *RedisSessionStore) Save(ctx context.Context, key string, state *session.State, ttl time.Duration) error {
	redisKey := s.keyPrefix + key
	if state.IsEmpty() {
		return s.Delete(ctx, key)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKey)
		pipe.HSet(ctx, redisKey,
			fieldAppliedCoupon, state.AppliedCoupon,
			fieldCouponError, state.CouponError,
			fieldFlash, state.Flash,
		)
		pipe.Expire(ctx, redisKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session
func (s *RedisSessionStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.keyPrefix+key).Err()
}

// InMemorySessionStore keeps session state in process memory
type InMemorySessionStore struct {
	states *ttlMap[session.State]
}

// NewInMemorySessionStore creates the store and starts its sweeper
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{states: newTTLMap[session.State](time.Minute)}
}

// Load returns a copy of the stored state, or an empty state
func (s *InMemorySessionStore) Load(_ context.Context, key string) (*session.State, error) {
	stored, ok := s.states.get(key)
	if !ok {
		return &session.State{}, nil
	}
	return &session.State{
		AppliedCoupon: stored.AppliedCoupon,
		CouponError:   stored.CouponError,
		Flash:         stored.Flash,
	}, nil
}

// Save stores a copy of state. An empty state deletes the key.
func (s *InMemorySessionStore) Save(ctx context.Context, key string, state *session.State, ttl time.Duration) error {
	if state.IsEmpty() {
		return s.Delete(ctx, key)
	}
	s.states.set(key, session.State{
		AppliedCoupon: state.AppliedCoupon,
		CouponError:   state.CouponError,
		Flash:         state.Flash,
	}, ttl)
	return nil
}

// Delete removes the session
func (s *InMemorySessionStore) Delete(_ context.Context, key string) error {
	s.states.delete(key)
	return nil
}

// Close stops the sweeper
func (s *InMemorySessionStore) Close() error {
	s.states.close()
	return nil
}

var (
	_ session.Store = (*RedisSessionStore)(nil)
	_ session.Store = (*InMemorySessionStore)(nil)
)

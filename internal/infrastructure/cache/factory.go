package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores bundles the key/value backed stores the application needs
type Stores struct {
	Sessions    session.Store
	Idempotency shared.IdempotencyStore
	Backend     string

	closers []func() error
}

// Close releases every store and the Redis client, if any
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StoreFactoryOption is a functional option for NewStores
type StoreFactoryOption func(*storeFactory)

type storeFactory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// WithLogger sets the logger used to report the selected backend
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *storeFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory. Default true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *storeFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRedisClient creates a client from configuration and checks it with PING
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewStores builds the session and idempotency stores for the configured backend
func NewStores(cfg *config.Config, opts ...StoreFactoryOption) (*Stores, error) {
	f := &storeFactory{
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}

	if cfg.Session.Backend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), f.pingTimeout)
		defer cancel()

		client, err := NewRedisClient(ctx, cfg.Redis)
		if err == nil {
			f.logger.Info("using Redis session and idempotency stores", zap.String("addr", cfg.Redis.Addr()))
			return &Stores{
				Sessions:    NewRedisSessionStore(client, ""),
				Idempotency: NewRedisIdempotencyStore(client, ""),
				Backend:     "redis",
				closers:     []func() error{client.Close},
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Sessions will not be shared between instances.",
			zap.Error(err),
		)
	}

	sessions := NewInMemorySessionStore()
	idempotency := NewInMemoryIdempotencyStore()
	return &Stores{
		Sessions:    sessions,
		Idempotency: idempotency,
		Backend:     "memory",
		closers:     []func() error{sessions.Close, idempotency.Close},
	}, nil
}

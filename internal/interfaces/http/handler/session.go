package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Sessions loads a customer's session state once per request and writes it back when it changed.
// Session storage is not critical: load failures start from an empty state and save failures are logged.
type Sessions struct {
	store session.Store
	ttl   time.Duration
}

// NewSessions creates a Sessions helper over store
func NewSessions(store session.Store, ttl time.Duration) *Sessions {
	return &Sessions{store: store, ttl: ttl}
}

// Load returns the customer's session state
func (s *Sessions) Load(c *gin.Context, customerID uuid.UUID) *session.State {
	state, err := s.store.Load(c.Request.Context(), customerID.String())
	if err != nil {
		logger.L(c.Request.Context()).Warn("Session load failed, starting empty", zap.Error(err))
		return &session.State{}
	}
	if state == nil {
		return &session.State{}
	}
	return state
}

// Save persists state if it is dirty
func (s *Sessions) Save(c *gin.Context, customerID uuid.UUID, state *session.State) {
	if state == nil || !state.Dirty() {
		return
	}
	ctx := c.Request.Context()
	if err := s.store.Save(ctx, customerID.String(), state, s.ttl); err != nil {
		logger.L(ctx).Warn("Session save failed", zap.Error(err))
		return
	}
	state.MarkClean()
}

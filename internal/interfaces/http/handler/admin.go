package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	eventapp "github.com/storefront/backend/internal/application/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// OutboxStatsService reports the notification outbox backlog
type OutboxStatsService interface {
	Stats(ctx context.Context) (*eventapp.OutboxStatsResponse, error)
}

// AdminHandler serves the administrative order endpoints.
// Routes are expected behind middleware.RequirePermission(auth.PermissionOrdersAdmin).
type AdminHandler struct {
	BaseHandler
	orders OrderService
	outbox OutboxStatsService
}

// NewAdminHandler creates a new AdminHandler. outbox may be nil when notifications are sent inline.
func NewAdminHandler(orders OrderService, outbox OutboxStatsService) *AdminHandler {
	return &AdminHandler{orders: orders, outbox: outbox}
}

// OrderDetail handles GET /admin/orders/:id.
// Sections that fail to load are reported individually instead of failing the request.
func (h *AdminHandler) OrderDetail(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.Detail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecomputeTotals handles POST /admin/orders/:id/recompute-totals
func (h *AdminHandler) RecomputeTotals(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	totals, err := h.orders.RecomputeTotals(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	actor := ""
	if claims := middleware.GetJWTClaims(c); claims != nil {
		actor = claims.UserID
	}
	logger.L(c.Request.Context()).Info("Admin recomputed order totals",
		zap.String("order", id.String()),
		zap.String("actor", actor))
	h.Success(c, totals)
}

// OutboxStats handles GET /admin/outbox/stats
func (h *AdminHandler) OutboxStats(c *gin.Context) {
	if h.outbox == nil {
		h.Success(c, &eventapp.OutboxStatsResponse{Healthy: true})
		return
	}
	stats, err := h.outbox.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

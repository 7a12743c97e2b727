package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/storefront/backend/internal/application/order"
)

// OrderService is the order read and correction surface
type OrderService interface {
	Confirmation(ctx context.Context, customerID uuid.UUID, orderID string) (*orderapp.ConfirmationResponse, error)
	Detail(ctx context.Context, id uuid.UUID) (*orderapp.DetailResponse, error)
	RecomputeTotals(ctx context.Context, id uuid.UUID) (*orderapp.TotalsData, error)
}

// OrderHandler serves the customer's order confirmation
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Confirmation handles GET /orders/:order_id/confirmation.
// Orders of other customers are reported as not found.
func (h *OrderHandler) Confirmation(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	resp, err := h.orders.Confirmation(c.Request.Context(), identity.UserID, c.Param("order_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartService is the cart use-case surface used by CartHandler
type CartService interface {
	AddItem(ctx context.Context, identity customer.Identity, req cartapp.AddItemRequest) (*cartapp.AddItemResponse, error)
	UpdateQuantity(ctx context.Context, customerID uuid.UUID, state *session.State, itemID uuid.UUID, quantity int) (*cartapp.UpdateItemResponse, error)
	RemoveItem(ctx context.Context, customerID uuid.UUID, state *session.State, itemID uuid.UUID) (*cartapp.RemoveItemResponse, error)
	ApplyCoupon(ctx context.Context, customerID uuid.UUID, state *session.State, code string) error
	Summary(ctx context.Context, customerID uuid.UUID, state *session.State) (*cartapp.SummaryResponse, error)
	Info(ctx context.Context, customerID uuid.UUID) (*cartapp.InfoResponse, error)
}

// AddToCartRequest is the body of POST /cart/add/:product_id. Quantity defaults to 1.
type AddToCartRequest struct {
	Quantity *int   `json:"quantity" form:"quantity"`
	Color    string `json:"color" form:"color" binding:"omitempty,colorhex"`
	Size     string `json:"size" form:"size" binding:"max=50"`
}

// UpdateCartItemRequest is the body of POST /cart/update/:item_id
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" form:"quantity" binding:"required"`
}

// ApplyCouponRequest is the body of POST /cart/apply-coupon. An empty code removes the coupon.
type ApplyCouponRequest struct {
	Code string `json:"code" form:"code" binding:"max=50"`
}

type addItemBody struct {
	Success bool `json:"success"`
	*cartapp.AddItemResponse
}

type updateItemBody struct {
	Success bool `json:"success"`
	*cartapp.UpdateItemResponse
}

type removeItemBody struct {
	Success bool `json:"success"`
	*cartapp.RemoveItemResponse
}

// CartHandler serves the cart endpoints
type CartHandler struct {
	BaseHandler
	carts    CartService
	sessions *Sessions
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartService, sessions *Sessions) *CartHandler {
	return &CartHandler{carts: carts, sessions: sessions}
}

// Show handles GET /cart
func (h *CartHandler) Show(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	state := h.sessions.Load(c, identity.UserID)
	defer h.sessions.Save(c, identity.UserID, state)

	resp, err := h.carts.Summary(c.Request.Context(), identity.UserID, state)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Add handles POST /cart/add/:product_id
func (h *CartHandler) Add(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	var req AddToCartRequest
	if !h.Bind(c, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	resp, err := h.carts.AddItem(c.Request.Context(), identity, cartapp.AddItemRequest{
		ProductPID: c.Param("product_id"),
		Quantity:   quantity,
		Color:      req.Color,
		Size:       req.Size,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, addItemBody{Success: true, AddItemResponse: resp})
}

// Update handles POST /cart/update/:item_id
func (h *CartHandler) Update(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	itemID, ok := h.UUIDParam(c, "item_id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !h.Bind(c, &req) {
		return
	}

	state := h.sessions.Load(c, identity.UserID)
	defer h.sessions.Save(c, identity.UserID, state)

	resp, err := h.carts.UpdateQuantity(c.Request.Context(), identity.UserID, state, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateItemBody{Success: true, UpdateItemResponse: resp})
}

// Remove handles POST /cart/remove/:item_id
func (h *CartHandler) Remove(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	itemID, ok := h.UUIDParam(c, "item_id")
	if !ok {
		return
	}

	state := h.sessions.Load(c, identity.UserID)
	defer h.sessions.Save(c, identity.UserID, state)

	resp, err := h.carts.RemoveItem(c.Request.Context(), identity.UserID, state, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, removeItemBody{Success: true, RemoveItemResponse: resp})
}

// ApplyCoupon handles POST /cart/apply-coupon. The outcome is recorded in the session
// (applied coupon or coupon error) and the customer is sent back to the cart.
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if !h.Bind(c, &req) {
		return
	}

	state := h.sessions.Load(c, identity.UserID)
	if err := h.carts.ApplyCoupon(c.Request.Context(), identity.UserID, state, req.Code); err != nil {
		h.HandleError(c, err)
		return
	}
	h.sessions.Save(c, identity.UserID, state)
	c.Redirect(http.StatusSeeOther, "/cart")
}

// Info handles GET /cart/api/info. Anonymous callers get zeros.
func (h *CartHandler) Info(c *gin.Context) {
	customerID := uuid.Nil
	if identity, ok := middleware.GetIdentity(c); ok {
		customerID = identity.UserID
	}
	resp, err := h.carts.Info(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

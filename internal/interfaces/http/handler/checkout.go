package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CheckoutService is the checkout use-case surface used by CheckoutHandler
type CheckoutService interface {
	Checkout(ctx context.Context, req checkoutapp.Request) (*checkoutapp.Result, error)
	Preview(ctx context.Context, customerID uuid.UUID, state *session.State) (*checkoutapp.PreviewResponse, error)
}

// CheckoutRequest is the submitted checkout form. Required fields are checked by the
// checkout service so a missing one comes back as a flash message on the form.
type CheckoutRequest struct {
	Address       string `json:"address" form:"address"`
	Address2      string `json:"address2" form:"address2"`
	City          string `json:"city" form:"city"`
	State         string `json:"state" form:"state"`
	Postcode      string `json:"postcode" form:"postcode"`
	Country       string `json:"country" form:"country"`
	Phone         string `json:"phone" form:"phone"`
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

func (r CheckoutRequest) toForm() checkoutapp.Form {
	return checkoutapp.Form{
		Address:       r.Address,
		Address2:      r.Address2,
		City:          r.City,
		State:         r.State,
		Postcode:      r.Postcode,
		Country:       r.Country,
		Phone:         r.Phone,
		PaymentMethod: r.PaymentMethod,
	}
}

// Redirect targets
const (
	cartPath     = "/cart"
	checkoutPath = "/checkout"
)

// ConfirmationPath is where a placed order is shown
func ConfirmationPath(orderID string) string {
	return "/orders/" + orderID + "/confirmation"
}

// CheckoutHandler serves the checkout page and form submission
type CheckoutHandler struct {
	BaseHandler
	checkout CheckoutService
	sessions *Sessions
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout CheckoutService, sessions *Sessions) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, sessions: sessions}
}

// Preview handles GET /checkout. Without an open cart the customer goes back to the cart.
func (h *CheckoutHandler) Preview(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	state := h.sessions.Load(c, identity.UserID)
	defer h.sessions.Save(c, identity.UserID, state)

	resp, err := h.checkout.Preview(c.Request.Context(), identity.UserID, state)
	if err != nil {
		if errors.Is(err, checkoutapp.ErrNoOpenCart) {
			c.Redirect(http.StatusSeeOther, cartPath)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Submit handles POST /checkout.
// Success redirects to the order confirmation; any failure leaves a flash message
// and redirects back to the checkout form with the cart untouched.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if !h.Bind(c, &req) {
		return
	}

	state := h.sessions.Load(c, identity.UserID)
	defer h.sessions.Save(c, identity.UserID, state)

	result, err := h.checkout.Checkout(c.Request.Context(), checkoutapp.Request{
		Customer: identity,
		Session:  state,
		Form:     req.toForm(),
	})
	if err != nil {
		status, info := dto.ErrorInfoFrom(err)
		if status >= http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("Checkout failed", zap.Error(err))
			info.Message = "We could not place your order. Please try again."
		}
		_ = c.Error(err)
		state.SetFlash(info.Message)
		c.Redirect(http.StatusSeeOther, checkoutPath)
		return
	}

	switch result.Outcome {
	case checkoutapp.OutcomeNoCart:
		c.Redirect(http.StatusSeeOther, cartPath)
	default:
		c.Redirect(http.StatusSeeOther, ConfirmationPath(result.Order.OrderID))
	}
}

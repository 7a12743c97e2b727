package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, identity customer.Identity, req cartapp.AddItemRequest) (*cartapp.AddItemResponse, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.AddItemResponse), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, customerID uuid.UUID, state *session.State, itemID uuid.UUID, quantity int) (*cartapp.UpdateItemResponse, error) {
	args := m.Called(ctx, customerID, state, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.UpdateItemResponse), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, customerID uuid.UUID, state *session.State, itemID uuid.UUID) (*cartapp.RemoveItemResponse, error) {
	args := m.Called(ctx, customerID, state, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.RemoveItemResponse), args.Error(1)
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, customerID uuid.UUID, state *session.State, code string) error {
	return m.Called(ctx, customerID, state, code).Error(0)
}

func (m *MockCartService) Summary(ctx context.Context, customerID uuid.UUID, state *session.State) (*cartapp.SummaryResponse, error) {
	args := m.Called(ctx, customerID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.SummaryResponse), args.Error(1)
}

func (m *MockCartService) Info(ctx context.Context, customerID uuid.UUID) (*cartapp.InfoResponse, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.InfoResponse), args.Error(1)
}

func newCartRouter(t *testing.T, svc CartService) (*gin.Engine, session.Store) {
	t.Helper()
	store := newSessionStore(t)
	h := NewCartHandler(svc, NewSessions(store, time.Hour))

	r := gin.New()
	r.GET("/cart/api/info", h.Info)
	g := r.Group("/cart", authenticated(testCustomer))
	g.GET("", h.Show)
	g.POST("/add/:product_id", h.Add)
	g.POST("/update/:item_id", h.Update)
	g.POST("/remove/:item_id", h.Remove)
	g.POST("/apply-coupon", h.ApplyCoupon)
	return r, store
}

// quote for a $50 cart with SAVE10, 5% tax and 5.00 shipping
func quote() pricingapp.Quote {
	return pricingapp.Quote{Breakdown: pricing.Breakdown{
		Subtotal: decimal.NewFromInt(50),
		Discount: decimal.NewFromInt(5),
		Tax:      decimal.RequireFromString("2.50"),
		Shipping: decimal.NewFromInt(5),
		Total:    decimal.RequireFromString("52.50"),
	}}
}

func TestCartHandler_Add(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReq    *cartapp.AddItemRequest
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "quantity defaults to one",
			body:       "",
			wantReq:    &cartapp.AddItemRequest{ProductPID: "k3j4h5", Quantity: 1},
			wantStatus: http.StatusOK,
		},
		{
			name:       "variant and quantity",
			body:       `{"quantity":2,"color":"Red|#ff0000","size":"M"}`,
			wantReq:    &cartapp.AddItemRequest{ProductPID: "k3j4h5", Quantity: 2, Color: "Red|#ff0000", Size: "M"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad color rejected before the service",
			body:       `{"quantity":1,"color":"reddish"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:       "out of stock",
			body:       `{"quantity":9}`,
			wantReq:    &cartapp.AddItemRequest{ProductPID: "k3j4h5", Quantity: 9},
			serviceErr: shared.ErrOutOfStock.WithDetail("available", 3),
			wantStatus: http.StatusBadRequest,
			wantCode:   shared.CodeOutOfStock,
		},
		{
			name:       "unknown product",
			body:       `{"quantity":1}`,
			wantReq:    &cartapp.AddItemRequest{ProductPID: "k3j4h5", Quantity: 1},
			serviceErr: cartapp.ErrProductNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   shared.CodeNotFound,
		},
		{
			name:       "database failure is generic",
			body:       `{"quantity":1}`,
			wantReq:    &cartapp.AddItemRequest{ProductPID: "k3j4h5", Quantity: 1},
			serviceErr: errors.New("pq: connection reset by peer"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCartService)
			r, _ := newCartRouter(t, svc)
			if tt.wantReq != nil {
				if tt.serviceErr != nil {
					svc.On("AddItem", mock.Anything, testCustomer, *tt.wantReq).Return(nil, tt.serviceErr)
				} else {
					svc.On("AddItem", mock.Anything, testCustomer, *tt.wantReq).
						Return(&cartapp.AddItemResponse{Message: "Wool Blanket was added to your cart", ItemCount: 1}, nil)
				}
			}

			w := doJSON(r, http.MethodPost, "/cart/add/k3j4h5", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
				if tt.wantStatus == http.StatusInternalServerError {
					assert.NotContains(t, w.Body.String(), "pq:")
				}
			} else {
				body := decode(t, w)
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "Wool Blanket was added to your cart", body["message"])
				assert.Equal(t, float64(1), body["item_count"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCartHandler_Add_StockDetail(t *testing.T) {
	svc := new(MockCartService)
	r, _ := newCartRouter(t, svc)
	svc.On("AddItem", mock.Anything, testCustomer, mock.Anything).Return(nil, shared.ErrOutOfStock.WithDetail("available", 3))

	w := doForm(r, http.MethodPost, "/cart/add/k3j4h5", "quantity=9")
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decode(t, w)["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, float64(3), details["available"])
}

func TestCartHandler_Update(t *testing.T) {
	itemID := uuid.New()

	t.Run("reprices the cart", func(t *testing.T) {
		svc := new(MockCartService)
		r, store := newCartRouter(t, svc)
		seedSession(t, store, session.State{AppliedCoupon: "SAVE10"})

		svc.On("UpdateQuantity", mock.Anything, testCustomer.UserID,
			mock.MatchedBy(func(s *session.State) bool { return s.AppliedCoupon == "SAVE10" }),
			itemID, 2).
			Return(&cartapp.UpdateItemResponse{
				Quote:     quote(),
				ItemTotal: decimal.NewFromInt(20),
				CartTotal: decimal.NewFromInt(50),
				ItemCount: 3,
			}, nil)

		w := doForm(r, http.MethodPost, "/cart/update/"+itemID.String(), "quantity=2")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "52.5", body["total"])
		assert.Equal(t, "5", body["shipping_price"])
		assert.Equal(t, "20", body["item_total"])
		assert.Equal(t, float64(3), body["item_count"])
		assert.NotContains(t, body, "Policy")
	})

	t.Run("insufficient stock", func(t *testing.T) {
		svc := new(MockCartService)
		r, _ := newCartRouter(t, svc)
		svc.On("UpdateQuantity", mock.Anything, testCustomer.UserID, mock.Anything, itemID, 6).
			Return(nil, shared.ErrInsufficientStock.WithDetail("available", 5))

		w := doJSON(r, http.MethodPost, "/cart/update/"+itemID.String(), `{"quantity":6}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeInsufficientStock, errorCode(t, w))
	})

	t.Run("item id must be a uuid", func(t *testing.T) {
		svc := new(MockCartService)
		r, _ := newCartRouter(t, svc)

		w := doJSON(r, http.MethodPost, "/cart/update/42", `{"quantity":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("quantity is required", func(t *testing.T) {
		svc := new(MockCartService)
		r, _ := newCartRouter(t, svc)

		w := doJSON(r, http.MethodPost, "/cart/update/"+itemID.String(), `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})
}

func TestCartHandler_Remove(t *testing.T) {
	itemID := uuid.New()
	svc := new(MockCartService)
	r, _ := newCartRouter(t, svc)

	svc.On("RemoveItem", mock.Anything, testCustomer.UserID, mock.Anything, itemID).
		Return(&cartapp.RemoveItemResponse{
			Quote:     quote(),
			Message:   "Wool Blanket removed from cart",
			CartTotal: decimal.NewFromInt(50),
			ItemCount: 1,
		}, nil)

	w := doJSON(r, http.MethodPost, "/cart/remove/"+itemID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Wool Blanket removed from cart", body["message"])
	assert.Equal(t, "50", body["cart_total"])
	assert.Equal(t, "50", body["subtotal"])
}

func TestCartHandler_ApplyCoupon(t *testing.T) {
	t.Run("rejected coupon is stored in the session", func(t *testing.T) {
		svc := new(MockCartService)
		r, store := newCartRouter(t, svc)
		svc.On("ApplyCoupon", mock.Anything, testCustomer.UserID, mock.Anything, "EXPIRED5").
			Run(func(args mock.Arguments) {
				args.Get(2).(*session.State).RejectCoupon("This coupon has expired")
			}).
			Return(nil)

		w := doForm(r, http.MethodPost, "/cart/apply-coupon", "code=EXPIRED5")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/cart", w.Header().Get("Location"))

		state := loadSession(t, store)
		assert.Equal(t, "This coupon has expired", state.CouponError)
		assert.Empty(t, state.AppliedCoupon)
	})

	t.Run("valid coupon replaces the previous one", func(t *testing.T) {
		svc := new(MockCartService)
		r, store := newCartRouter(t, svc)
		seedSession(t, store, session.State{AppliedCoupon: "OLD"})
		svc.On("ApplyCoupon", mock.Anything, testCustomer.UserID, mock.Anything, "SAVE10").
			Run(func(args mock.Arguments) {
				args.Get(2).(*session.State).ApplyCoupon("SAVE10")
			}).
			Return(nil)

		w := doJSON(r, http.MethodPost, "/cart/apply-coupon", `{"code":"SAVE10"}`)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "SAVE10", loadSession(t, store).AppliedCoupon)
	})
}

func TestCartHandler_Show(t *testing.T) {
	svc := new(MockCartService)
	r, store := newCartRouter(t, svc)
	seedSession(t, store, session.State{AppliedCoupon: "SAVE10"})

	cartID := uuid.New()
	svc.On("Summary", mock.Anything, testCustomer.UserID,
		mock.MatchedBy(func(s *session.State) bool { return s.AppliedCoupon == "SAVE10" })).
		Return(&cartapp.SummaryResponse{Quote: quote(), CartID: &cartID, ItemCount: 2, CouponCode: "SAVE10"}, nil)

	w := doJSON(r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, cartID.String(), data["cart_id"])
	assert.Equal(t, "SAVE10", data["coupon_code"])
}

func TestCartHandler_Info(t *testing.T) {
	t.Run("anonymous gets zeros", func(t *testing.T) {
		svc := new(MockCartService)
		r, _ := newCartRouter(t, svc)
		svc.On("Info", mock.Anything, uuid.Nil).Return(&cartapp.InfoResponse{Total: decimal.Zero}, nil)

		w := doJSON(r, http.MethodGet, "/cart/api/info", "")
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, float64(0), body["count"])
		assert.Equal(t, "0", body["total"])
	})

	t.Run("signed in customer", func(t *testing.T) {
		svc := new(MockCartService)
		store := newSessionStore(t)
		h := NewCartHandler(svc, NewSessions(store, time.Hour))
		r := gin.New()
		r.GET("/cart/api/info", authenticated(testCustomer), h.Info)
		svc.On("Info", mock.Anything, testCustomer.UserID).Return(&cartapp.InfoResponse{Count: 2, Total: decimal.NewFromInt(35)}, nil)

		body := decode(t, doJSON(r, http.MethodGet, "/cart/api/info", ""))
		assert.Equal(t, float64(2), body["count"])
		assert.Equal(t, "35", body["total"])
	})
}

func TestCartHandler_RequiresIdentity(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, NewSessions(newSessionStore(t), time.Hour))
	r := gin.New()
	r.POST("/cart/add/:product_id", h.Add)

	w := doJSON(r, http.MethodPost, "/cart/add/k3j4h5", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

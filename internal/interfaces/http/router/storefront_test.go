package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStorefront mounts handlers without services; every request below is
// answered by middleware or parameter checks before a service is reached.
func newStorefront(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		Issuer:                "storefront-test",
		AccessTokenExpiration: 15 * time.Minute,
	})
	cfg := &config.Config{
		Server:    config.ServerConfig{MaxBodySize: 1 << 20},
		Telemetry: config.TelemetryConfig{ServiceName: "storefront-test"},
		CORS:      config.CORSConfig{AllowOrigins: []string{"https://shop.example.com"}},
	}
	engine := New(Options{Config: cfg, Tokens: tokens}, Handlers{
		Cart:     handler.NewCartHandler(nil, nil),
		Checkout: handler.NewCheckoutHandler(nil, nil),
		Orders:   handler.NewOrderHandler(nil),
		Admin:    handler.NewAdminHandler(nil, nil),
		Catalog:  handler.NewCatalogHandler(nil, nil),
		Health:   handler.NewHealthHandler("test", nil),
	})
	return engine, tokens
}

func bearer(t *testing.T, tokens *auth.JWTService, permissions ...string) string {
	t.Helper()
	token, _, err := tokens.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:      uuid.New(),
		Username:    "amal",
		Email:       "amal@example.com",
		Permissions: permissions,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestNew_Routes(t *testing.T) {
	engine, tokens := newStorefront(t)
	customer := bearer(t, tokens)
	admin := bearer(t, tokens, auth.PermissionOrdersAdmin)

	tests := []struct {
		name       string
		method     string
		path       string
		auth       string
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"cart needs a token", http.MethodGet, "/cart", "", http.StatusUnauthorized},
		{"add to cart needs a token", http.MethodPost, "/cart/add/k3j4h5", "", http.StatusUnauthorized},
		{"checkout needs a token", http.MethodPost, "/checkout", "", http.StatusUnauthorized},
		{"confirmation needs a token", http.MethodGet, "/orders/q8w7e6r5/confirmation", "", http.StatusUnauthorized},
		{"review needs a token", http.MethodPost, "/products/k3j4h5/add-review", "", http.StatusUnauthorized},
		{"wishlist needs a token", http.MethodGet, "/wishlist", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/wishlist", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"admin needs the permission", http.MethodGet, "/admin/orders/" + uuid.NewString(), customer, http.StatusForbidden},
		{"admin stats need the permission", http.MethodGet, "/admin/outbox/stats", customer, http.StatusForbidden},
		{"admin order id must be a uuid", http.MethodGet, "/admin/orders/INV-1", admin, http.StatusBadRequest},
		{"admin outbox stats inline", http.MethodGet, "/admin/outbox/stats", admin, http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set(middleware.AuthHeaderKey, tt.auth)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		})
	}
}

func TestNew_ErrorEnvelope(t *testing.T) {
	engine, _ := newStorefront(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var body struct {
		Success   bool   `json:"success"`
		RequestID string `json:"request_id"`
		Error     struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "req-123", body.RequestID)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestNew_CORSPreflight(t *testing.T) {
	engine, _ := newStorefront(t)

	req := httptest.NewRequest(http.MethodOptions, "/cart/add/k3j4h5", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

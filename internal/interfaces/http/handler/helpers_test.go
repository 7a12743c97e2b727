package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var testCustomer = customer.Identity{
	UserID:   uuid.MustParse("6f1c2d8e-4b1a-4c47-9d0e-2f3a4b5c6d7e"),
	Username: "amal",
	Email:    "amal@example.com",
}

// authenticated stands in for JWTAuth
func authenticated(identity customer.Identity, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTIdentityKey, identity)
		c.Set(middleware.JWTClaimsKey, &auth.Claims{UserID: identity.UserID.String(), Permissions: permissions})
		c.Next()
	}
}

func newSessionStore(t *testing.T) *cache.InMemorySessionStore {
	t.Helper()
	store := cache.NewInMemorySessionStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedSession(t *testing.T, store session.Store, state session.State) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), testCustomer.UserID.String(), &state, time.Hour))
}

func loadSession(t *testing.T, store session.Store) *session.State {
	t.Helper()
	state, err := store.Load(context.Background(), testCustomer.UserID.String())
	require.NoError(t, err)
	return state
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r http.Handler, method, path, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	return errInfo["code"].(string)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		Issuer:                "storefront-test",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID, permissions ...string) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:      userID,
		Username:    "amal",
		Email:       "amal@example.com",
		Permissions: permissions,
	})
	require.NoError(t, err)
	return token
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

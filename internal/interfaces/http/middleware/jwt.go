package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTIdentityKey = "jwt_identity"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// ErrMissingToken means the request carried no bearer token at all
var ErrMissingToken = errors.New("missing bearer token")

// TokenValidator validates bearer tokens. *auth.JWTService satisfies it.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token with 401.
// Valid claims and the derived customer identity are stored on the gin context.
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, ErrMissingToken, "Missing authorization header")
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, err, "Token validation failed")
			return
		}
		identity, err := claims.Identity()
		if err != nil {
			abortUnauthorized(c, err, "Token has no usable user id")
			return
		}

		setIdentity(c, claims, identity)
		c.Next()
	}
}

// OptionalJWTAuth extracts claims when a valid token is present and lets every request through
func OptionalJWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			c.Next()
			return
		}
		if identity, err := claims.Identity(); err == nil {
			setIdentity(c, claims, identity)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *auth.Claims, identity customer.Identity) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTIdentityKey, identity)

	ctx := c.Request.Context()
	ctx, reqLogger := logger.WithCustomerID(ctx, logger.FromContext(ctx), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
	c.Set("logger", reqLogger)
}

func abortUnauthorized(c *gin.Context, err error, reason string) {
	logger.FromContext(c.Request.Context()).Debug("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}

	resp := dto.NewErrorResponse(code, message)
	resp.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetIdentity returns the authenticated customer identity, if any
func GetIdentity(c *gin.Context) (customer.Identity, bool) {
	if v, exists := c.Get(JWTIdentityKey); exists {
		if identity, ok := v.(customer.Identity); ok {
			return identity, true
		}
	}
	return customer.Identity{}, false
}

package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// Profiling tags the CPU samples of each request with its route and method.
// Paths in skip, such as health checks, are not labelled.
func Profiling(skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if slices.Contains(skip, c.Request.URL.Path) {
			c.Next()
			return
		}
		telemetry.ProfileRequest(c.Request.Context(), c.FullPath(), c.Request.Method, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

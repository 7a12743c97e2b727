// Package handler exposes the storefront services over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response wrapping data in the standard envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status and code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(&dto.ErrorInfo{Code: code, Message: message}, middleware.GetRequestID(c)))
}

// HandleError maps err onto the error envelope. Unexpected errors are logged
// with the request logger and reported to the client with a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	status, info := dto.ErrorInfoFrom(err)
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, dto.NewErrorResponseWithRequestID(info, middleware.GetRequestID(c)))
}

// Bind decodes a JSON or form body into obj and writes a 400 on failure
func (h *BaseHandler) Bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			middleware.HandleValidationError(c, err)
			return false
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Malformed request body")
		return false
	}
	return true
}

// Identity returns the authenticated customer or writes a 401
func (h *BaseHandler) Identity(c *gin.Context) (customer.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return customer.Identity{}, false
	}
	return identity, true
}

// UUIDParam parses a path parameter as a UUID or writes a 400
func (h *BaseHandler) UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

package dto

import (
	"errors"
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes come from the shared package.
const (
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeRateLimited   = "RATE_LIMIT_EXCEEDED"
	ErrCodeTooLarge      = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired  = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid  = "INVALID_TOKEN"
	ErrCodeNotFound      = shared.CodeNotFound
	ErrCodeValidation    = shared.CodeValidation
	ErrCodeUnauthorized  = shared.CodeUnauthorized
	ErrCodeForbidden     = shared.CodeForbidden
	ErrCodeConflict      = shared.CodeConcurrency
	ErrCodeAlreadyExists = shared.CodeAlreadyExists
)

// InternalErrorMessage replaces the message of every unexpected error
const InternalErrorMessage = "An internal error occurred"

var errorCodeToHTTPStatus = map[string]int{
	shared.CodeValidation:         http.StatusBadRequest,
	shared.CodeOutOfStock:         http.StatusBadRequest,
	shared.CodeInsufficientStock:  http.StatusBadRequest,
	shared.CodeCouponInvalid:      http.StatusBadRequest,
	shared.CodeInvalidState:       http.StatusBadRequest,
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeAlreadyExists:      http.StatusConflict,
	shared.CodeConcurrency:        http.StatusConflict,
	shared.CodeUnauthorized:       http.StatusUnauthorized,
	shared.CodeForbidden:          http.StatusForbidden,
	shared.CodeNotificationFailed: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorInfoFrom converts an error into the client-facing code, message and details.
// Anything that is not a domain error, and domain errors that map to 500, is reported
// with the generic internal message so no internals leak to the client.
func ErrorInfoFrom(err error) (int, *ErrorInfo) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, &ErrorInfo{Code: ErrCodeInternal, Message: InternalErrorMessage}
	}
	status := GetHTTPStatus(domainErr.Code)
	if status == http.StatusInternalServerError {
		return status, &ErrorInfo{Code: ErrCodeInternal, Message: InternalErrorMessage}
	}
	return status, &ErrorInfo{Code: domainErr.Code, Message: domainErr.Message, Details: domainErr.Details}
}

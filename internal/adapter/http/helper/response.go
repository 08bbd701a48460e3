package helper

import (
	"context"
	"errors"
	"net/http"

	"todolist/internal/core/domain"
	"todolist/internal/core/model/response"
	"todolist/internal/core/validation"
	"todolist/pkg/tracing"

	"github.com/gin-gonic/gin"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeTimeout      = "TIMEOUT"
	CodeInternal     = "INTERNAL_ERROR"

	MessageInternal = "Internal server error"
)

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, response.MessageResponse{Message: message})
}

func SendError(c *gin.Context, statusCode int, code string, message string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:    code,
			Message: message,
			Errors:  errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := validation.FormatValidationErrors(err)

	message := "Validation failed"

	if len(validationErrors) > 0 {
		message = validationErrors[0].Message
	}

	SendError(c, http.StatusBadRequest, CodeValidation, message, validationErrors)
}

// SendInternalError answers a storage or server fault. A fault caused by the
// request deadline is reported as a timeout instead.
func SendInternalError(c *gin.Context) {
	if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
		SendTimeoutError(c)
		return
	}

	if traceID := tracing.GetTraceID(c.Request.Context()); traceID != "" {
		SendError(c, http.StatusInternalServerError, CodeInternal, MessageInternal, nil, gin.H{"trace_id": traceID})
		return
	}

	SendError(c, http.StatusInternalServerError, CodeInternal, MessageInternal, nil)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, CodeUnauthorized, message, fieldError("auth", message))
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusBadRequest, CodeBadRequest, message, fieldError(field, message))
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, CodeNotFound, message, fieldError("resource", message))
}

func SendConflictError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusConflict, CodeConflict, message, fieldError(field, message))
}

func SendTooManyRequests(c *gin.Context, message string, retryAfter int) {
	SendError(c, http.StatusTooManyRequests, CodeRateLimited, message, nil, gin.H{"retry_after": retryAfter})
}

func SendTimeoutError(c *gin.Context) {
	SendError(c, http.StatusServiceUnavailable, CodeTimeout, "Request timed out", nil)
}

// SendDomainError maps the domain sentinels to their HTTP answer. It returns
// false for faults, which the caller logs before sending a 500.
func SendDomainError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, domain.ErrValidation):
		SendValidationError(c, err)
	case errors.Is(err, domain.ErrUsernameTaken):
		SendConflictError(c, "username", "Username already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendUnauthorizedError(c, "Invalid username or password")
	case errors.Is(err, domain.ErrNotFound):
		SendNotFoundError(c, "Not found")
	default:
		return false
	}

	return true
}

func fieldError(field string, message string) []response.ValidationError {
	return []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}
}

// SendBindError answers a body that could not be decoded.
func SendBindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError

	if errors.As(err, &maxBytesErr) {
		SendError(c, http.StatusRequestEntityTooLarge, CodeBadRequest, "Request body too large", nil)
		return
	}

	SendBadRequestError(c, "request", "Invalid request body")
}

package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string       `json:"status"`
	Code    int          `json:"code"`
	Message string       `json:"message,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

func RespondValidationError(c *gin.Context, err error) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		ve = FromValidatorError(err).(*ValidationError)
	}
	c.JSON(http.StatusBadRequest, APIResponse{
		Status:  "error",
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		TraceID: c.GetString("trace_id"),
		Errors:  ve.Fields,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var ve *ValidationError

	switch {
	case errors.As(err, &ve):
		RespondValidationError(c, ve)
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
	case errors.Is(err, ErrSubscriptionInactive):
		RespondError(c, http.StatusForbidden, "Subscription is not active")
	case errors.Is(err, ErrPropertyNotFound):
		RespondError(c, http.StatusNotFound, "Property not found")
	case errors.Is(err, ErrClientNotFound):
		RespondError(c, http.StatusNotFound, "Client not found")
	case errors.Is(err, ErrRequestNotFound):
		RespondError(c, http.StatusNotFound, "Contact request not found")
	case errors.Is(err, ErrRequestAlreadyDecided):
		RespondError(c, http.StatusConflict, "Contact request has already been decided")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unknown error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

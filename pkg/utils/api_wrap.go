package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service errors to HTTP responses. Quota denials are
// 429s that carry the human-readable limit; store failures stay generic.
func HandleServiceError(c *gin.Context, err error) {
	var quota *QuotaExceededError
	if errors.As(err, &quota) {
		c.JSON(http.StatusTooManyRequests, APIResponse{
			Status:  "error",
			Code:    http.StatusTooManyRequests,
			Message: quota.Error(),
			TraceID: traceID(c),
			Data: gin.H{
				"kind":  quota.Kind,
				"limit": quota.Limit,
			},
		})
		return
	}

	switch {
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrChatNotFound):
		RespondError(c, http.StatusNotFound, "Chat not found")
	case errors.Is(err, ErrRequestNotFound):
		RespondError(c, http.StatusNotFound, "Upgrade request not found")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already exists")
	case errors.Is(err, ErrPlanNotEligible):
		RespondError(c, http.StatusBadRequest, "Requested plan does not require an upgrade request")
	case errors.Is(err, ErrInvalidStateTransition):
		RespondError(c, http.StatusConflict, "Request has already been resolved")
	case errors.Is(err, ErrSendInFlight):
		RespondError(c, http.StatusConflict, "A message is already being processed for this chat")
	case errors.Is(err, ErrRelayFailure):
		log.Printf("Relay error: %v", err)
		RespondError(c, http.StatusBadGateway, "The model is unavailable right now, please retry")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

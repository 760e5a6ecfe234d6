package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// SuccessResponse is returned by actions without a resource to show
type SuccessResponse struct {
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, kind, code, message string) {
	c.JSON(status, ErrorResponse{Error: kind, Code: code, Message: message})
}

func respondBadRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "bad_request", "INVALID_REQUEST_BODY", err.Error())
}

// writeServiceError maps service error kinds to HTTP responses
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		validationErr  *services.ValidationError
		duplicateErr   *services.DuplicateKeyError
		notFoundErr    *services.NotFoundError
		unavailableErr *services.UnavailableResourceError
		conflictErr    *services.StateConflictError
		rateLimitErr   *services.RateLimitError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Code:    "VALIDATION_ERROR",
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})
	case errors.As(err, &duplicateErr):
		respondError(c, http.StatusConflict, "duplicate_key", "DUPLICATE_KEY", duplicateErr.Error())
	case errors.As(err, &notFoundErr):
		respondError(c, http.StatusNotFound, "not_found", "NOT_FOUND", notFoundErr.Error())
	case errors.As(err, &unavailableErr):
		respondError(c, http.StatusConflict, "unavailable", "ROOM_UNAVAILABLE", unavailableErr.Error())
	case errors.As(err, &conflictErr):
		respondError(c, http.StatusConflict, "state_conflict", conflictErr.Code, conflictErr.Error())
	case errors.As(err, &rateLimitErr):
		if wait := time.Until(rateLimitErr.RetryAfter); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		}
		respondError(c, http.StatusTooManyRequests, "too_many_requests", "RATE_LIMITED", rateLimitErr.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountInactive),
		errors.Is(err, services.ErrInvalidRefreshToken):
		respondError(c, http.StatusUnauthorized, "unauthorized", "INVALID_CREDENTIALS", err.Error())
	default:
		logger.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  err.Error(),
		}).Error("Request failed")
		respondError(c, http.StatusInternalServerError, "internal_error", "INTERNAL_ERROR", "An internal error occurred")
	}
}

// parseID reads a numeric path parameter, answering 400 when it is not one
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "INVALID_ID", name+" must be numeric")
		return 0, false
	}
	return id, true
}

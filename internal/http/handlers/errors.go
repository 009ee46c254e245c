package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/http/middleware"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses. Booking
// conflicts are 409, transient store contention is 503 with Retry-After
// so clients know re-submitting the same request is safe.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsInvalidRoute(err):
		respondError(c, http.StatusBadRequest, "invalid_route", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsSeatUnavailable(err):
		respondError(c, http.StatusConflict, "seat_unavailable", err.Error(), nil)
	case domain.IsTripNotBookable(err):
		respondError(c, http.StatusConflict, "trip_not_bookable", err.Error(), nil)
	case domain.IsAlreadyCancelled(err):
		respondError(c, http.StatusConflict, "already_cancelled", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsRetryable(err):
		c.Header("Retry-After", "1")
		respondError(c, http.StatusServiceUnavailable, "retry", "temporary contention, please retry", nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}

// classifyDuplicate turns a MySQL duplicate-key error into a conflict
// with a readable message; anything else stays internal.
func classifyDuplicate(err error, resource, msg string) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return domain.ConflictError{Resource: resource, Msg: msg, Err: err}
	}
	return domain.InternalError{Err: err}
}

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func statusFor(t *testing.T, err error) (int, http.Header) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondDomainError(c, err)
	return w.Code, w.Header()
}

func TestRespondDomainErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ValidationError{Field: "seat_number", Msg: "required"}, http.StatusBadRequest},
		{domain.InvalidRouteError{Msg: "pickup must precede dropoff"}, http.StatusBadRequest},
		{domain.NotFoundError{Resource: "trip"}, http.StatusNotFound},
		{domain.SeatUnavailableError{TripID: 7, SeatNumber: "L5"}, http.StatusConflict},
		{domain.TripNotBookableError{TripID: 7, Status: "cancelled"}, http.StatusConflict},
		{domain.AlreadyCancelledError{TicketID: 11, Status: "cancelled"}, http.StatusConflict},
		{domain.ConflictError{Resource: "vehicle"}, http.StatusConflict},
		{domain.RetryableError{Err: errors.New("deadlock")}, http.StatusServiceUnavailable},
		{domain.InternalError{Err: errors.New("boom")}, http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got, _ := statusFor(t, tc.err)
		assert.Equal(t, tc.want, got, "error %v", tc.err)
	}
}

func TestRetryableSetsRetryAfter(t *testing.T) {
	status, headers := statusFor(t, domain.RetryableError{Err: errors.New("lock wait timeout")})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "1", headers.Get("Retry-After"))
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
)

func newTypesHandler(t *testing.T) (VehicleTypeHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return VehicleTypeHandler{Types: repositories.VehicleTypeRepository{DB: db}}, mock, func() { db.Close() }
}

func putJSON(h gin.HandlerFunc, id, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h(c)
	return w
}

func vehicleTypeRow(id int64, capacity int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "seat_capacity", "price_per_seat"}).
		AddRow(id, "Limousine", capacity, 150000)
}

func TestPutTemplateOverCapacityRejected(t *testing.T) {
	h, mock, done := newTypesHandler(t)
	defer done()

	mock.ExpectQuery("FROM vehicle_types").
		WithArgs(int64(5)).
		WillReturnRows(vehicleTypeRow(5, 2))

	w := putJSON(h.PutTemplate, "5", `{"entries":[
		{"seatNumber":"A1","row":1,"col":1},
		{"seatNumber":"A2","row":1,"col":2},
		{"seatNumber":"A3","row":2,"col":1}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "capacity")
	// nothing was written
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutTemplateWithinCapacity(t *testing.T) {
	h, mock, done := newTypesHandler(t)
	defer done()

	mock.ExpectQuery("FROM vehicle_types").
		WithArgs(int64(5)).
		WillReturnRows(vehicleTypeRow(5, 2))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM seat_template_entries").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	prepared := mock.ExpectPrepare("INSERT INTO seat_template_entries")
	prepared.ExpectExec().
		WithArgs(int64(5), "A1", 1, 1, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prepared.ExpectExec().
		WithArgs(int64(5), "A2", 1, 2, true).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	w := putJSON(h.PutTemplate, "5", `{"entries":[
		{"seatNumber":"a1","row":1,"col":1},
		{"seatNumber":"a2","row":1,"col":2}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCapacityBelowTemplateRejected(t *testing.T) {
	h, mock, done := newTypesHandler(t)
	defer done()

	mock.ExpectQuery("FROM seat_template_entries").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))

	w := putJSON(h.Update, "5", `{"name":"Limousine","seatCapacity":2,"pricePerSeat":150000}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "template")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCapacityMatchingTemplate(t *testing.T) {
	h, mock, done := newTypesHandler(t)
	defer done()

	mock.ExpectQuery("FROM seat_template_entries").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(2))
	mock.ExpectExec("UPDATE vehicle_types").
		WithArgs("Limousine", 2, int64(150000), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := putJSON(h.Update, "5", `{"name":"Limousine","seatCapacity":2,"pricePerSeat":150000}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

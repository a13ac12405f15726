package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/service"
)

func newContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrNoTablePlan, http.StatusNotFound},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrInvalidStatus, http.StatusNotFound},
		{service.ErrNoTableReservation, http.StatusNotFound},
		{service.ErrNoCompatibleTable, http.StatusBadRequest},
		{service.ErrInvalidTime, http.StatusBadRequest},
		{service.ErrNoAvailableTable, http.StatusConflict},
		{service.ErrConflictingReservation, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			c, rec := newContext(t, "/")
			require.NoError(t, bookingError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestQueryDate(t *testing.T) {
	c, _ := newContext(t, "/?date=2026-09-01")
	day, err := queryDate(c, "date")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), day)

	c, _ = newContext(t, "/?date=bogus")
	_, err = queryDate(c, "date")
	assert.Error(t, err)

	c, _ = newContext(t, "/")
	day, err = queryDate(c, "date")
	require.NoError(t, err)
	assert.Equal(t, service.NormalizeDay(time.Now()), day)
}

func TestGetUserID(t *testing.T) {
	c, _ := newContext(t, "/")
	c.Set("user_id", float64(42)) // JWT numeric claims decode as float64
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c, _ = newContext(t, "/")
	_, err = getUserID(c)
	assert.Error(t, err)
}

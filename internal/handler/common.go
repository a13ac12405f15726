package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/service"
)

// getUserID extracts the user_id claim placed by the JWT middleware and
// converts it to uint64.  JWT numbers decode as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// paramID parses the numeric :id path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// queryDate parses a YYYY-MM-DD query parameter; empty falls back to
// today (UTC).
func queryDate(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return service.NormalizeDay(time.Now()), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return day, nil
}

// bookingError maps the booking service's error taxonomy onto HTTP
// responses.  The body carries the sentinel text as the error kind so
// widget clients can branch on it.
func bookingError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNoTablePlan),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrNoTableReservation):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNoCompatibleTable),
		errors.Is(err, service.ErrInvalidTime):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNoAvailableTable),
		errors.Is(err, service.ErrConflictingReservation):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

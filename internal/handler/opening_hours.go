package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

// OpeningHoursHandler manages weekly opening hours and serves the
// widget's bookable timeslots.
type OpeningHoursHandler struct {
	Restaurants *repository.RestaurantRepo
	Hours       *repository.OpeningHoursRepo
}

func NewOpeningHoursHandler(r *repository.RestaurantRepo, h *repository.OpeningHoursRepo) *OpeningHoursHandler {
	return &OpeningHoursHandler{Restaurants: r, Hours: h}
}

type openingHourReq struct {
	Weekday   uint8  `json:"weekday" validate:"max=6"`
	OpenTime  string `json:"open_time" validate:"required,len=5"`
	CloseTime string `json:"close_time" validate:"required,len=5"`
}

type openingHoursReq struct {
	Hours []openingHourReq `json:"hours" validate:"dive"`
}

// Replace handles PUT /v1/restaurants/:id/opening-hours, swapping the
// full weekly schedule.  Weekdays not listed become closed days.
func (h *OpeningHoursHandler) Replace(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req openingHoursReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validator", "message": err.Error()})
	}

	hours := make([]model.OpeningHour, 0, len(req.Hours))
	seen := make(map[uint8]bool, len(req.Hours))
	for _, in := range req.Hours {
		if seen[in.Weekday] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate weekday"})
		}
		seen[in.Weekday] = true
		if _, _, err := service.ParseClock(in.OpenTime); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid open_time"})
		}
		if _, _, err := service.ParseClock(in.CloseTime); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid close_time"})
		}
		hours = append(hours, model.OpeningHour{
			RestaurantID: restaurantID,
			Weekday:      in.Weekday,
			OpenTime:     in.OpenTime,
			CloseTime:    in.CloseTime,
		})
	}

	ctx := c.Request().Context()
	if _, err := h.Restaurants.GetByIDAndOwner(ctx, restaurantID, userID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Hours.ReplaceForRestaurant(ctx, restaurantID, hours); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hours": hours})
}

// List handles GET /v1/restaurants/:id/opening-hours (public).
func (h *OpeningHoursHandler) List(c echo.Context) error {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	hours, err := h.Hours.ListByRestaurant(c.Request().Context(), restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hours": hours})
}

// Timeslots handles GET /v1/restaurants/:id/timeslots?date=YYYY-MM-DD
// (public).  A closed weekday returns an empty slot list rather than an
// error so the widget can render it directly.
func (h *OpeningHoursHandler) Timeslots(c echo.Context) error {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	day, err := queryDate(c, "date")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	hour, err := h.Hours.GetForWeekday(c.Request().Context(), restaurantID, uint8(day.Weekday()))
	if err != nil {
		if errors.Is(err, repository.ErrHoursNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"date": day.Format("2006-01-02"), "slots": []string{}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	slots, err := service.Timeslots(*hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid stored hours"})
	}
	if slots == nil {
		slots = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"date": day.Format("2006-01-02"), "slots": slots})
}

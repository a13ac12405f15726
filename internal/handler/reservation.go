package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

// ReservationHandler serves the public booking endpoint, the manager
// dashboard listings and the reservation lifecycle actions.
type ReservationHandler struct {
	Booking      *service.ReservationService
	Reservations *repository.ReservationRepo
	Restaurants  *repository.RestaurantRepo
}

func NewReservationHandler(b *service.ReservationService, res *repository.ReservationRepo, r *repository.RestaurantRepo) *ReservationHandler {
	return &ReservationHandler{Booking: b, Reservations: res, Restaurants: r}
}

type bookReq struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Time    string `json:"time" validate:"required,len=5"`
	Persons uint32 `json:"persons" validate:"required,min=1"`
	Details string `json:"details" validate:"max=500"`
}

// Book handles POST /v1/restaurants/:id/reservations.  The route is
// public: anonymous widget visitors book without an account, logged-in
// customers get the reservation attached to their profile.
func (h *ReservationHandler) Book(c echo.Context) error {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validator", "message": err.Error()})
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validator", "message": "invalid date"})
	}

	var userID *uint64
	if uid, err := getUserID(c); err == nil {
		userID = &uid
	}

	res, err := h.Booking.Book(c.Request().Context(), service.BookingRequest{
		RestaurantID: restaurantID,
		Date:         day,
		Time:         req.Time,
		Persons:      req.Persons,
		UserID:       userID,
		Details:      strings.TrimSpace(req.Details),
	})
	if err != nil {
		return bookingError(c, err)
	}

	go publishBooked(res)

	return c.JSON(http.StatusCreated, res)
}

// ListByRestaurant handles GET /v1/restaurants/:id/reservations?date=...
// for the manager dashboard.
func (h *ReservationHandler) ListByRestaurant(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	day, err := queryDate(c, "date")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	ctx := c.Request().Context()
	if _, err := h.Restaurants.GetByIDAndOwner(ctx, restaurantID, userID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	items, err := h.Reservations.ListByRestaurantAndDate(ctx, restaurantID, service.NormalizeDay(day))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListMine handles GET /v1/my-reservations for customers.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Confirm handles POST /v1/reservations/:id/confirm (manager only).
func (h *ReservationHandler) Confirm(c echo.Context) error {
	id, errResp := h.authorizeManagerAction(c)
	if errResp != nil {
		return errResp
	}
	res, err := h.Booking.Confirm(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	go publishStatus(res)
	return c.JSON(http.StatusOK, res)
}

// Cancel handles POST /v1/reservations/:id/cancel.  The restaurant's
// manager or the customer who booked may cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": service.ErrNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !h.mayCancel(ctx, res, userID, c.Get("role")) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	res, err = h.Booking.Cancel(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	go publishStatus(res)
	return c.JSON(http.StatusOK, res)
}

// authorizeManagerAction resolves the :id reservation and verifies the
// caller manages its restaurant.  It returns the reservation id, or a
// response already written on failure.
func (h *ReservationHandler) authorizeManagerAction(c echo.Context) (uint64, error) {
	userID, err := getUserID(c)
	if err != nil {
		return 0, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return 0, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return 0, c.JSON(http.StatusNotFound, echo.Map{"error": service.ErrNotFound.Error()})
		}
		return 0, c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if _, err := h.Restaurants.GetByIDAndOwner(ctx, res.RestaurantID, userID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return 0, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return 0, c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return id, nil
}

// mayCancel reports whether the caller may cancel the reservation: the
// booking customer always may, a manager may when they own the
// restaurant.
func (h *ReservationHandler) mayCancel(ctx context.Context, res *model.Reservation, userID uint64, role any) bool {
	if res.UserID != nil && *res.UserID == userID {
		return true
	}
	if r, ok := role.(string); ok && r == model.RoleManager {
		if _, err := h.Restaurants.GetByIDAndOwner(ctx, res.RestaurantID, userID); err == nil {
			return true
		}
	}
	return false
}

// publishBooked emits the booked event on a best-effort basis; a broker
// outage never fails a committed booking.
func publishBooked(res *model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ev := queue.ReservationBookedEvent{
		ReservationID: res.ID,
		Code:          res.Code,
		RestaurantID:  res.RestaurantID,
		TableID:       res.TableID,
		TableNumber:   res.TableNumber,
		Date:          res.DateSelected.Format("2006-01-02"),
		Time:          res.TimeSelected,
		Persons:       res.NbrPersons,
		BookedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if res.UserID != nil {
		ev.UserID = *res.UserID
	}
	_ = queue.PublishReservationBooked(ctx, ev)
}

func publishStatus(res *model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = queue.PublishReservationStatus(ctx, queue.ReservationStatusEvent{
		ReservationID: res.ID,
		Code:          res.Code,
		RestaurantID:  res.RestaurantID,
		Status:        res.Status,
		ChangedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

// TablePlanHandler exposes the daily floor plan to the manager dashboard.
type TablePlanHandler struct {
	Restaurants *repository.RestaurantRepo
	Plans       *service.TablePlanService
}

func NewTablePlanHandler(r *repository.RestaurantRepo, p *service.TablePlanService) *TablePlanHandler {
	return &TablePlanHandler{Restaurants: r, Plans: p}
}

// Get handles GET /v1/restaurants/:id/table-plan?date=YYYY-MM-DD.  When
// the exact day has no plan the lookup clamps to the earliest or latest
// plan, matching what the booking engine would resolve.
func (h *TablePlanHandler) Get(c echo.Context) error {
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

	plan, err := h.Plans.FindForDate(ctx, restaurantID, day)
	if err != nil {
		if errors.Is(err, service.ErrNoTablePlan) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": service.ErrNoTablePlan.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, plan)
}

// Sync handles POST /v1/restaurants/:id/table-plan/sync, rebuilding
// today's plan from the live table rows.
func (h *TablePlanHandler) Sync(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	if _, err := h.Restaurants.GetByIDAndOwner(ctx, restaurantID, userID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	plan, err := h.Plans.SyncPlanForToday(ctx, restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "plan sync failed"})
	}
	return c.JSON(http.StatusOK, plan)
}

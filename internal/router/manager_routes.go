package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
)

// RegisterManager registers MANAGER-scoped endpoints under /v1.  All
// routes require a valid JWT and the MANAGER role; ownership of the
// targeted restaurant is checked in the handlers.
func RegisterManager(e *echo.Echo, rest *handler.RestaurantHandler, tab *handler.TableHandler,
	plan *handler.TablePlanHandler, hours *handler.OpeningHoursHandler, res *handler.ReservationHandler,
	jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleManager),
	)

	// ---- Restaurants ----
	g.POST("/restaurants", rest.Create)
	g.GET("/restaurants", rest.ListMine)
	g.PUT("/restaurants/:id", rest.Update)
	g.DELETE("/restaurants/:id", rest.Delete)

	// ---- Tables ----
	g.POST("/restaurants/:id/tables", tab.Create)
	g.PUT("/tables/:id", tab.Update)
	g.POST("/tables/:id/archive", tab.Archive)
	g.DELETE("/tables/:id", tab.Delete)

	// ---- Table plans ----
	g.GET("/restaurants/:id/table-plan", plan.Get)
	g.POST("/restaurants/:id/table-plan/sync", plan.Sync)

	// ---- Opening hours ----
	g.PUT("/restaurants/:id/opening-hours", hours.Replace)

	// ---- Reservations ----
	g.GET("/restaurants/:id/reservations", res.ListByRestaurant)
	g.POST("/reservations/:id/confirm", res.Confirm)
}

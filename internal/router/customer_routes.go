package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
)

// RegisterCustomer registers endpoints reachable by any authenticated
// user.  Cancel is shared between the booking customer and the
// restaurant's manager; the handler decides who may act.
func RegisterCustomer(e *echo.Echo, res *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleManager, model.RoleCustomer),
	)

	g.GET("/my-reservations", res.ListMine)
	g.POST("/reservations/:id/cancel", res.Cancel)
}

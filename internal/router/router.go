// Package router registers the API's HTTP routes on an Echo instance,
// grouped by the role allowed to call them.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication at
// all.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login
// and refresh live under /v1/auth and need no session; /v1/me requires
// a valid access token.  Logout accepts either a refresh token in the
// body or a bearer token (revoking all sessions), so it runs behind the
// optional JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.OptionalJWTAuth(jwtSecret))

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated widget endpoints:
// restaurant info, opening hours, timeslots and booking.  The booking
// route carries the rate limiter and the optional JWT middleware so a
// logged-in customer's reservation is attached to their account.
func RegisterPublic(e *echo.Echo, rest *handler.RestaurantHandler, hours *handler.OpeningHoursHandler,
	res *handler.ReservationHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/v1/restaurants/:id", rest.Get)
	e.GET("/v1/restaurants/:id/opening-hours", hours.List)
	e.GET("/v1/restaurants/:id/timeslots", hours.Timeslots)
	e.POST("/v1/restaurants/:id/reservations", res.Book,
		middleware.OptionalJWTAuth(jwtSecret),
		middleware.NewTokenBucket(rlCfg, rdb),
	)
}

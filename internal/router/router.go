package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-seat-reservation/internal/handler"
	"github.com/iliyamo/cabin-seat-reservation/internal/middleware"
	"github.com/iliyamo/cabin-seat-reservation/internal/utils"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth exposes the agent login under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
}

// RegisterCabin registers the public read endpoints.  mw wraps the two
// report endpoints, typically the rate limiter and the response cache.
func RegisterCabin(e *echo.Echo, h *handler.CabinHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/v1/cabin", h.Summary)
	e.GET("/v1/cabin/seats/:label", h.Seat)
	g := e.Group("/v1/cabin/:class", mw...)
	g.GET("/availability", h.Availability)
	g.GET("/manifest", h.Manifest)
}

// RegisterReservations registers the agent-only endpoints that change the
// cabin.  Every route requires a valid access token with the AGENT role.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(utils.RoleAgent))

	g.POST("/individual", h.CreateIndividual)
	g.POST("/group", h.CreateGroup)
	g.DELETE("/individual/:name", h.CancelIndividual)
	g.DELETE("/group/:name", h.CancelGroup)
}

package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/handler"    // admin handlers
	"github.com/iliyamo/railway-reservation/internal/middleware" // JWT + role + API key middlewares
)

// RegisterAdmin registers ADMIN-scoped catalog endpoints under /admin.
// Every route requires a valid JWT with the ADMIN role plus the shared
// admin API key header.  The key check runs after role enforcement so a
// stolen key alone is not enough.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret, apiKeyHeader, apiKey string, cache echo.MiddlewareFunc) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
		middleware.AdminAPIKey(apiKeyHeader, apiKey),
	)

	// ---- Stations ----
	g.POST("/stations/", a.CreateStation)

	// ---- Trains ----
	g.POST("/trains/", a.CreateTrain)

	// ---- Routes ----
	g.POST("/routes/", a.CreateRoute)

	// List endpoints go through the short-TTL response cache when Redis
	// is up.  A freshly created row may lag in the list for one TTL.
	if cache != nil {
		g.GET("/stations/", a.ListStations, cache)
		g.GET("/trains/", a.ListTrains, cache)
		g.GET("/routes/", a.ListRoutes, cache)
		return
	}
	g.GET("/stations/", a.ListStations)
	g.GET("/trains/", a.ListTrains)
	g.GET("/routes/", a.ListRoutes)
}

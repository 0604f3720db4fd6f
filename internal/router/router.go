package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/railway-reservation/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes under /auth.  None of
// them require an existing session; logout authenticates from the request
// itself (bearer header or refresh token body).
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the old one is revoked and a new
	// pair is returned.
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a bearer access token (revoke all sessions) or a
	// refresh_token body (revoke one session); it does not require the JWT
	// middleware.
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated availability search.  The
// cache middleware is optional; pass nil when Redis is not configured.
func RegisterPublic(e *echo.Echo, av *handler.AvailabilityHandler, cache echo.MiddlewareFunc) {
    if cache != nil {
        e.GET("/availability/", av.Search, cache)
        return
    }
    e.GET("/availability/", av.Search)
}

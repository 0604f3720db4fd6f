package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/handler"
	"github.com/iliyamo/railway-reservation/internal/middleware"
)

// RegisterBooking registers the booking endpoints.  All routes require a
// valid JWT; both USER and ADMIN roles may book.  POST /book/ carries the
// per-user rate limiter so one client cannot hammer the seat allocator.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)

	if limiter != nil {
		g.POST("/book/", h.BookSeat, limiter)
	} else {
		g.POST("/book/", h.BookSeat)
	}
	g.GET("/bookings/", h.ListBookings)
	g.GET("/bookings/:id/", h.GetBooking)
	g.DELETE("/bookings/:id/", h.CancelBooking)
}

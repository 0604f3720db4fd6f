package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/railway-reservation/internal/booking"
    "github.com/iliyamo/railway-reservation/internal/queue"
    "github.com/iliyamo/railway-reservation/internal/repository"
    queuepub "github.com/iliyamo/railway-reservation/internal/service"
)

// BookingReader is the read-side view of the booking ledger used for
// listing and detail lookups.  *repository.BookingRepo satisfies it.
type BookingReader interface {
    GetDetailByIDForUser(ctx context.Context, bookingID string, userID uint64) (*repository.BookingDetail, error)
    ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// BookingHandler exposes seat booking, listing and cancellation for
// authenticated users.  All writes go through the allocator so the
// per-route exclusivity guarantee holds.
type BookingHandler struct {
    Allocator *booking.Allocator
    Bookings  BookingReader
}

func NewBookingHandler(a *booking.Allocator, br BookingReader) *BookingHandler {
    if a == nil || br == nil {
        panic("booking handler: nil dependency")
    }
    return &BookingHandler{Allocator: a, Bookings: br}
}

// BookSeat handles POST /book/.  The body carries only the route id;
// the seat number is always chosen by the allocator, never by the
// client.
func (h *BookingHandler) BookSeat(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        RouteID uint64 `json:"route_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.RouteID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"route_id": "required"}})
    }

    ctx := c.Request().Context()
    b, err := h.Allocator.BookSeat(ctx, userID, body.RouteID)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrRouteNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
        case errors.Is(err, booking.ErrNoSeatsAvailable):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats available for this route"})
        }
        // ErrSeatTaken and ErrLedgerDrift both mean the counter and the
        // ledger disagreed; neither can happen under the route lock, so
        // they are internal faults and the body stays generic.
        log.Printf("book seat: route=%d user=%d: %v", body.RouteID, userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
    }

    detail, err := h.Bookings.GetDetailByIDForUser(ctx, b.ID, userID)
    if err != nil {
        // The booking committed; fall back to the bare record.
        log.Printf("book seat: detail lookup failed for %s: %v", b.ID, err)
        go publishSeatBooked(b.ID, userID, b.RouteID, "", "", "", "", b.SeatNumber, b.BookingTime)
        return c.JSON(http.StatusCreated, b)
    }

    go publishSeatBooked(b.ID, userID, b.RouteID, detail.UserEmail, detail.TrainName, detail.SourceName, detail.DestinationName, b.SeatNumber, b.BookingTime)
    return c.JSON(http.StatusCreated, detail)
}

// ListBookings handles GET /bookings/ and returns the caller's own
// bookings, newest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// GetBooking handles GET /bookings/:id/.  Bookings owned by other
// users come back 404, not 403, so IDs never leak.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id := c.Param("id")
    detail, err := h.Bookings.GetDetailByIDForUser(c.Request().Context(), id, userID)
    if err != nil {
        if errors.Is(err, booking.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, detail)
}

// CancelBooking handles DELETE /bookings/:id/ and releases the seat
// back to the route.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id := c.Param("id")
    b, err := h.Allocator.Cancel(c.Request().Context(), userID, id)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case errors.Is(err, booking.ErrNotCancellable):
            return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not cancellable"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancellation failed"})
    }

    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        ev := queue.BookingCancelledEvent{
            BookingID:   b.ID,
            UserID:      userID,
            RouteID:     b.RouteID,
            SeatNumber:  b.SeatNumber,
            CancelledAt: time.Now().UTC().Format(time.RFC3339),
        }
        if err := queuepub.PublishBookingCancelled(ctx, ev); err != nil {
            log.Printf("publish booking.cancelled for %s failed: %v", b.ID, err)
        }
    }()
    return c.JSON(http.StatusOK, b)
}

// publishSeatBooked fires the booking.confirmed event off the request
// path.  Broker failures are logged and otherwise ignored.
func publishSeatBooked(bookingID string, userID, routeID uint64, email, train, source, destination string, seat uint32, bookedAt time.Time) {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    ev := queue.SeatBookedEvent{
        BookingID:       bookingID,
        UserID:          userID,
        UserEmail:       email,
        RouteID:         routeID,
        TrainName:       train,
        SourceName:      source,
        DestinationName: destination,
        SeatNumber:      seat,
        BookedAt:        bookedAt.Format(time.RFC3339),
    }
    if err := queuepub.PublishSeatBooked(ctx, ev); err != nil {
        log.Printf("publish booking.confirmed for %s failed: %v", bookingID, err)
    }
}

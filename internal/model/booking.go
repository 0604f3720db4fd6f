package model

import "time"

// Booking status values.  Only CONFIRMED occupies a seat slot;
// CANCELLED bookings have released their seat back to the route.
// WAITING is reserved in the schema but no operation produces it yet.
const (
    StatusConfirmed = "CONFIRMED"
    StatusCancelled = "CANCELLED"
    StatusWaiting   = "WAITING"
)

// Booking records a seat assignment for a user on a route.  The
// identifier is an opaque UUID rather than an auto-increment so that
// booking references are not guessable.  (route, seat number) carries
// a unique key; cancelled bookings release their number by NULLing
// seat_number, which reads back as 0, so only occupying rows can
// collide on the key.
//
// Fields:
//  ID          – UUID primary key.
//  UserID      – user who owns the booking.
//  RouteID     – route the seat is booked on.
//  BookingTime – creation timestamp (UTC).
//  SeatNumber  – assigned seat, 1..train.total_seats.
//  Status      – CONFIRMED, CANCELLED or WAITING.
type Booking struct {
    ID          string    `json:"booking_id"`   // bookings.booking_id (char(36))
    UserID      uint64    `json:"user"`         // bookings.user_id
    RouteID     uint64    `json:"route"`        // bookings.route_id
    BookingTime time.Time `json:"booking_time"` // bookings.booking_time
    SeatNumber  uint32    `json:"seat_number"`  // bookings.seat_number
    Status      string    `json:"status"`       // bookings.status
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatBookedEvent is published when a seat is successfully booked.
// It carries enough denormalized detail for downstream consumers to
// log or notify without querying the primary database.
type SeatBookedEvent struct {
    BookingID       string `json:"booking_id"`
    UserID          uint64 `json:"user_id"`
    UserEmail       string `json:"user_email"`
    RouteID         uint64 `json:"route_id"`
    TrainName       string `json:"train_name"`
    SourceName      string `json:"source_name"`
    DestinationName string `json:"destination_name"`
    SeatNumber      uint32 `json:"seat_number"`
    BookedAt        string `json:"booked_at"`
}

// BookingCancelledEvent is published when a confirmed booking is
// cancelled and its seat returned to the route.
type BookingCancelledEvent struct {
    BookingID   string `json:"booking_id"`
    UserID      uint64 `json:"user_id"`
    RouteID     uint64 `json:"route_id"`
    SeatNumber  uint32 `json:"seat_number"`
    CancelledAt string `json:"cancelled_at"`
}

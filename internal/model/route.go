package model

import (
    "errors"
    "time"
)

// ErrBadSchedule is returned when a route's arrival time is not
// strictly after its departure time.
var ErrBadSchedule = errors.New("arrival time must be after departure time")

// ErrSameStation is returned when a route's source and destination
// reference the same station.
var ErrSameStation = errors.New("source and destination stations cannot be the same")

// Route represents a scheduled journey of a train between two
// stations at fixed times.  AvailableSeats is the remaining-capacity
// counter; it is initialized to the train's total seats at creation
// and must always equal total seats minus the number of CONFIRMED
// bookings on the route.  The tuple (train, source, destination,
// departure time) is unique.
//
// Fields:
//  ID             – primary key identifier.
//  TrainID        – train operating this route.
//  SourceID       – departure station.
//  DestinationID  – arrival station.
//  DepartureTime  – scheduled departure (UTC).
//  ArrivalTime    – scheduled arrival (UTC), after DepartureTime.
//  AvailableSeats – remaining free seats on this route.
type Route struct {
    ID             uint64    `json:"id"`              // routes.id
    TrainID        uint64    `json:"train"`           // routes.train_id
    SourceID       uint64    `json:"source"`          // routes.source_id
    DestinationID  uint64    `json:"destination"`     // routes.destination_id
    DepartureTime  time.Time `json:"departure_time"`  // routes.departure_time
    ArrivalTime    time.Time `json:"arrival_time"`    // routes.arrival_time
    AvailableSeats uint32    `json:"available_seats"` // routes.available_seats
}

// Validate checks the schedule invariants before a route may be
// persisted: arrival strictly after departure, and distinct
// endpoints.
func (r *Route) Validate() error {
    if !r.ArrivalTime.After(r.DepartureTime) {
        return ErrBadSchedule
    }
    if r.SourceID == r.DestinationID {
        return ErrSameStation
    }
    return nil
}

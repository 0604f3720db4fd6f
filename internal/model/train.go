package model

// Train represents a physical train with a fixed seating capacity.
// TotalSeats is the ceiling for seat numbering on every route the
// train is scheduled on: seats are numbered 1..TotalSeats.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the train.
//  TrainNumber – unique operator-assigned number (e.g. "12951").
//  TotalSeats  – positive seat capacity.
type Train struct {
    ID          uint64 `json:"id"`           // trains.id
    Name        string `json:"name"`         // trains.name
    TrainNumber string `json:"train_number"` // trains.train_number
    TotalSeats  uint32 `json:"total_seats"`  // trains.total_seats
}

// Package booking implements the seat allocation core: exactly-once,
// conflict-free assignment of seat numbers on a route under concurrent
// requests.  The allocator consumes a schedule store and a booking
// ledger rather than talking to the database directly, so the
// surrounding CRUD layers stay replaceable and the core is testable
// in isolation.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// ErrRouteNotFound is returned when the requested route does not exist.
var ErrRouteNotFound = errors.New("route not found")

// ErrNoSeatsAvailable is returned when the route's seat counter is
// exhausted.
var ErrNoSeatsAvailable = errors.New("no seats available for this route")

// ErrSeatTaken is returned by ledger implementations when the
// (route, seat number) uniqueness backstop rejects an insert.  Under
// the allocator's route lock this cannot happen unless the lock was
// bypassed, so callers should treat it as an internal conflict.
var ErrSeatTaken = errors.New("seat already taken")

// ErrLedgerDrift is returned when the seat counter says seats remain
// but the scan over 1..total_seats finds no free number.  It signals
// an invariant breach between the counter and the ledger.
var ErrLedgerDrift = errors.New("seat counter inconsistent with ledger")

// ErrBookingNotFound is returned when a booking does not exist or is
// owned by a different user.  The two cases are deliberately
// indistinguishable so that booking IDs do not leak across users.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotCancellable is returned when cancellation is requested for a
// booking that is not in the CONFIRMED state.
var ErrNotCancellable = errors.New("booking is not cancellable")

// ScheduleStore is the allocator's view of route storage.
type ScheduleStore interface {
	// RouteForBooking loads a route together with the total seat
	// capacity of its train.  It returns ErrRouteNotFound when the
	// route does not exist.
	RouteForBooking(ctx context.Context, routeID uint64) (*model.Route, uint32, error)
}

// Ledger is the allocator's view of booking storage.  AppendConfirmed
// and CancelConfirmed must persist the booking row and the route's
// available_seats counter together: either both writes apply or
// neither does.
type Ledger interface {
	// ConfirmedSeatNumbers returns the set of seat numbers currently
	// occupied by CONFIRMED bookings on the route.
	ConfirmedSeatNumbers(ctx context.Context, routeID uint64) (map[uint32]struct{}, error)

	// AppendConfirmed persists a CONFIRMED booking and decrements the
	// route's available_seats by one, atomically.  It returns
	// ErrSeatTaken when the seat uniqueness backstop fires.
	AppendConfirmed(ctx context.Context, b *model.Booking) error

	// GetByIDForUser returns the booking only when it is owned by the
	// given user; otherwise ErrBookingNotFound.
	GetByIDForUser(ctx context.Context, bookingID string, userID uint64) (*model.Booking, error)

	// CancelConfirmed transitions a CONFIRMED booking to CANCELLED and
	// increments the route's available_seats by one, atomically.  The
	// cancelled record must release its seat number (it no longer
	// occupies a slot), so a later BookSeat can assign that number
	// without colliding with the retained row.  It returns
	// ErrNotCancellable when the booking is not CONFIRMED.
	CancelConfirmed(ctx context.Context, bookingID string, routeID uint64) error
}

// Allocator serializes seat assignment per route and applies the
// first-fit lowest-numbered seat policy.  Booking and cancellation on
// the same route never interleave; different routes proceed
// independently.
type Allocator struct {
	schedule ScheduleStore
	ledger   Ledger
	locks    routeLocks
}

// NewAllocator constructs an Allocator over the given stores.
func NewAllocator(schedule ScheduleStore, ledger Ledger) *Allocator {
	if schedule == nil || ledger == nil {
		panic("nil store passed to NewAllocator")
	}
	return &Allocator{schedule: schedule, ledger: ledger}
}

// BookSeat assigns the lowest free seat number on the route to the
// user and records a CONFIRMED booking.  The whole sequence —
// availability check, seat scan, booking insert, counter decrement —
// runs under the route's lock, so no two callers can observe the same
// free seat or drift the counter.
func (a *Allocator) BookSeat(ctx context.Context, userID, routeID uint64) (*model.Booking, error) {
	mu := a.locks.forRoute(routeID)
	mu.Lock()
	defer mu.Unlock()

	route, totalSeats, err := a.schedule.RouteForBooking(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route.AvailableSeats == 0 {
		return nil, ErrNoSeatsAvailable
	}

	occupied, err := a.ledger.ConfirmedSeatNumbers(ctx, routeID)
	if err != nil {
		return nil, err
	}

	// First-fit: lowest unoccupied seat number wins.  Deterministic,
	// so a cancelled seat 1 is always re-assigned before seat 2 is
	// ever skipped to.
	var seat uint32
	for n := uint32(1); n <= totalSeats; n++ {
		if _, taken := occupied[n]; !taken {
			seat = n
			break
		}
	}
	if seat == 0 {
		// Counter said seats remain but every number is occupied.
		return nil, ErrLedgerDrift
	}

	b := &model.Booking{
		ID:          uuid.NewString(),
		UserID:      userID,
		RouteID:     routeID,
		BookingTime: time.Now().UTC(),
		SeatNumber:  seat,
		Status:      model.StatusConfirmed,
	}
	if err := a.ledger.AppendConfirmed(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel transitions a CONFIRMED booking owned by the user to
// CANCELLED, freeing its seat and incrementing the route counter.
// Bookings owned by other users are reported as not found.
func (a *Allocator) Cancel(ctx context.Context, userID uint64, bookingID string) (*model.Booking, error) {
	b, err := a.ledger.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.StatusConfirmed {
		return nil, ErrNotCancellable
	}

	mu := a.locks.forRoute(b.RouteID)
	mu.Lock()
	defer mu.Unlock()

	if err := a.ledger.CancelConfirmed(ctx, bookingID, b.RouteID); err != nil {
		return nil, err
	}
	b.Status = model.StatusCancelled
	return b, nil
}

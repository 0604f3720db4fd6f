package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// memStore is an in-memory ScheduleStore + Ledger used to exercise the
// allocator without a database.  Its mutex stands in for the row-level
// consistency MySQL provides; the per-route serialization under test is
// the allocator's own lock.
type memStore struct {
	mu         sync.Mutex
	routes     map[uint64]*model.Route
	totalSeats map[uint64]uint32
	bookings   map[string]*model.Booking
}

func newMemStore() *memStore {
	return &memStore{
		routes:     make(map[uint64]*model.Route),
		totalSeats: make(map[uint64]uint32),
		bookings:   make(map[string]*model.Booking),
	}
}

func (s *memStore) addRoute(id uint64, total uint32) {
	s.routes[id] = &model.Route{ID: id, AvailableSeats: total}
	s.totalSeats[id] = total
}

func (s *memStore) RouteForBooking(_ context.Context, routeID uint64) (*model.Route, uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routes[routeID]
	if !ok {
		return nil, 0, ErrRouteNotFound
	}
	cp := *r
	return &cp, s.totalSeats[routeID], nil
}

func (s *memStore) ConfirmedSeatNumbers(_ context.Context, routeID uint64) (map[uint32]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	occupied := make(map[uint32]struct{})
	for _, b := range s.bookings {
		if b.RouteID == routeID && b.Status == model.StatusConfirmed {
			occupied[b.SeatNumber] = struct{}{}
		}
	}
	return occupied, nil
}

func (s *memStore) AppendConfirmed(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The unique key spans every row still holding a seat number, not
	// just CONFIRMED ones; cancellation clears the number so cancelled
	// rows never collide here.
	for _, existing := range s.bookings {
		if existing.RouteID == b.RouteID && existing.SeatNumber == b.SeatNumber {
			return ErrSeatTaken
		}
	}
	r := s.routes[b.RouteID]
	if r.AvailableSeats == 0 {
		return ErrLedgerDrift
	}
	r.AvailableSeats--
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) GetByIDForUser(_ context.Context, bookingID string, userID uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) CancelConfirmed(_ context.Context, bookingID string, routeID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || b.Status != model.StatusConfirmed {
		return ErrNotCancellable
	}
	b.Status = model.StatusCancelled
	b.SeatNumber = 0 // seat released from the unique key
	s.routes[routeID].AvailableSeats++
	return nil
}

func TestBookSeatAssignsLowestFreeSeat(t *testing.T) {
	store := newMemStore()
	store.addRoute(1, 5)
	a := NewAllocator(store, store)

	for want := uint32(1); want <= 3; want++ {
		b, err := a.BookSeat(context.Background(), 42, 1)
		if err != nil {
			t.Fatalf("BookSeat #%d: %v", want, err)
		}
		if b.SeatNumber != want {
			t.Fatalf("seat = %d, want %d", b.SeatNumber, want)
		}
		if b.Status != model.StatusConfirmed {
			t.Fatalf("status = %q, want %q", b.Status, model.StatusConfirmed)
		}
		if b.ID == "" {
			t.Fatal("booking ID is empty")
		}
	}
}

func TestBookSeatRouteNotFound(t *testing.T) {
	store := newMemStore()
	a := NewAllocator(store, store)

	_, err := a.BookSeat(context.Background(), 42, 99)
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("err = %v, want ErrRouteNotFound", err)
	}
}

func TestBookSeatExhaustsRoute(t *testing.T) {
	store := newMemStore()
	store.addRoute(1, 2)
	a := NewAllocator(store, store)

	ctx := context.Background()
	if _, err := a.BookSeat(ctx, 1, 1); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := a.BookSeat(ctx, 2, 1); err != nil {
		t.Fatalf("second booking: %v", err)
	}
	_, err := a.BookSeat(ctx, 3, 1)
	if !errors.Is(err, ErrNoSeatsAvailable) {
		t.Fatalf("err = %v, want ErrNoSeatsAvailable", err)
	}
}

// Two travellers race for the last two seats of a route while a third
// arrives once the route is full: exactly two bookings succeed with
// distinct seats 1 and 2, the third is turned away.
func TestBookSeatTwoSeatRouteScenario(t *testing.T) {
	store := newMemStore()
	store.addRoute(7, 2)
	a := NewAllocator(store, store)

	ctx := context.Background()
	b1, err := a.BookSeat(ctx, 101, 7)
	if err != nil {
		t.Fatalf("traveller 1: %v", err)
	}
	b2, err := a.BookSeat(ctx, 102, 7)
	if err != nil {
		t.Fatalf("traveller 2: %v", err)
	}
	if b1.SeatNumber == b2.SeatNumber {
		t.Fatalf("both travellers got seat %d", b1.SeatNumber)
	}
	if b1.SeatNumber != 1 || b2.SeatNumber != 2 {
		t.Fatalf("seats = %d, %d; want 1, 2", b1.SeatNumber, b2.SeatNumber)
	}
	if _, err := a.BookSeat(ctx, 103, 7); !errors.Is(err, ErrNoSeatsAvailable) {
		t.Fatalf("traveller 3 err = %v, want ErrNoSeatsAvailable", err)
	}
}

// N concurrent callers against K seats: exactly K succeed, each with a
// unique seat in 1..K, and the rest see ErrNoSeatsAvailable.  No caller
// may observe ErrSeatTaken or ErrLedgerDrift; those would mean the
// route lock failed to serialize the scan.
func TestBookSeatConcurrent(t *testing.T) {
	const (
		seats   = 20
		callers = 60
	)
	store := newMemStore()
	store.addRoute(1, seats)
	a := NewAllocator(store, store)

	var wg sync.WaitGroup
	results := make([]*model.Booking, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = a.BookSeat(context.Background(), uint64(i+1), 1)
		}(i)
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	var ok, full int
	for i := 0; i < callers; i++ {
		switch {
		case errs[i] == nil:
			ok++
			seat := results[i].SeatNumber
			if seat < 1 || seat > seats {
				t.Errorf("seat %d out of range 1..%d", seat, seats)
			}
			if seen[seat] {
				t.Errorf("seat %d assigned twice", seat)
			}
			seen[seat] = true
		case errors.Is(errs[i], ErrNoSeatsAvailable):
			full++
		default:
			t.Errorf("unexpected error: %v", errs[i])
		}
	}
	if ok != seats {
		t.Errorf("successful bookings = %d, want %d", ok, seats)
	}
	if full != callers-seats {
		t.Errorf("rejected bookings = %d, want %d", full, callers-seats)
	}
}

func TestCancelFreesSeatForReuse(t *testing.T) {
	store := newMemStore()
	store.addRoute(1, 3)
	a := NewAllocator(store, store)

	ctx := context.Background()
	first, err := a.BookSeat(ctx, 10, 1)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := a.BookSeat(ctx, 11, 1); err != nil {
		t.Fatalf("book: %v", err)
	}

	cancelled, err := a.Cancel(ctx, 10, first.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Fatalf("status = %q, want %q", cancelled.Status, model.StatusCancelled)
	}

	// First-fit must hand the freed seat 1 back out before seat 3.
	next, err := a.BookSeat(ctx, 12, 1)
	if err != nil {
		t.Fatalf("rebook: %v", err)
	}
	if next.SeatNumber != first.SeatNumber {
		t.Fatalf("rebooked seat = %d, want %d", next.SeatNumber, first.SeatNumber)
	}
}

// Cancellation keeps the booking row for history but must release its
// seat number from the (route, seat) unique key.  If the cancelled row
// still held its number, re-booking the freed seat would collide with
// it and surface ErrSeatTaken instead of succeeding.
func TestCancelledRowReleasesSeatNumber(t *testing.T) {
	store := newMemStore()
	store.addRoute(1, 1)
	a := NewAllocator(store, store)

	ctx := context.Background()
	b, err := a.BookSeat(ctx, 10, 1)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := a.Cancel(ctx, 10, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	row, ok := store.bookings[b.ID]
	if !ok {
		t.Fatal("cancelled booking row was dropped; history must be retained")
	}
	if row.SeatNumber != 0 {
		t.Fatalf("cancelled row still holds seat %d; it must leave the unique key", row.SeatNumber)
	}

	rebooked, err := a.BookSeat(ctx, 11, 1)
	if errors.Is(err, ErrSeatTaken) {
		t.Fatal("rebooking the freed seat collided with the cancelled row")
	}
	if err != nil {
		t.Fatalf("rebook: %v", err)
	}
	if rebooked.SeatNumber != b.SeatNumber {
		t.Fatalf("rebooked seat = %d, want %d", rebooked.SeatNumber, b.SeatNumber)
	}
}

func TestCancelOwnershipAndState(t *testing.T) {
	store := newMemStore()
	store.addRoute(1, 2)
	a := NewAllocator(store, store)

	ctx := context.Background()
	b, err := a.BookSeat(ctx, 10, 1)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// Another user's booking looks like it does not exist.
	if _, err := a.Cancel(ctx, 99, b.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("foreign cancel err = %v, want ErrBookingNotFound", err)
	}
	if _, err := a.Cancel(ctx, 10, "no-such-id"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("missing cancel err = %v, want ErrBookingNotFound", err)
	}

	if _, err := a.Cancel(ctx, 10, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// Already cancelled.
	if _, err := a.Cancel(ctx, 10, b.ID); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("double cancel err = %v, want ErrNotCancellable", err)
	}
}

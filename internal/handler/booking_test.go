package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/booking"
	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

// fakeLedger implements booking.ScheduleStore, booking.Ledger and
// BookingReader over plain maps, so handler behavior can be exercised
// without MySQL.
type fakeLedger struct {
	routes     map[uint64]*model.Route
	totalSeats map[uint64]uint32
	bookings   map[string]*model.Booking
	emails     map[uint64]string
	appendErr  error // forced AppendConfirmed failure
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		routes:     make(map[uint64]*model.Route),
		totalSeats: make(map[uint64]uint32),
		bookings:   make(map[string]*model.Booking),
		emails:     make(map[uint64]string),
	}
}

func (f *fakeLedger) addRoute(id uint64, total uint32) {
	f.routes[id] = &model.Route{ID: id, AvailableSeats: total}
	f.totalSeats[id] = total
}

func (f *fakeLedger) RouteForBooking(_ context.Context, routeID uint64) (*model.Route, uint32, error) {
	r, ok := f.routes[routeID]
	if !ok {
		return nil, 0, booking.ErrRouteNotFound
	}
	cp := *r
	return &cp, f.totalSeats[routeID], nil
}

func (f *fakeLedger) ConfirmedSeatNumbers(_ context.Context, routeID uint64) (map[uint32]struct{}, error) {
	occupied := make(map[uint32]struct{})
	for _, b := range f.bookings {
		if b.RouteID == routeID && b.Status == model.StatusConfirmed {
			occupied[b.SeatNumber] = struct{}{}
		}
	}
	return occupied, nil
}

func (f *fakeLedger) AppendConfirmed(_ context.Context, b *model.Booking) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	// Unique key spans every row still holding a seat number.
	for _, existing := range f.bookings {
		if existing.RouteID == b.RouteID && existing.SeatNumber == b.SeatNumber {
			return booking.ErrSeatTaken
		}
	}
	f.routes[b.RouteID].AvailableSeats--
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeLedger) GetByIDForUser(_ context.Context, bookingID string, userID uint64) (*model.Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok || b.UserID != userID {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeLedger) CancelConfirmed(_ context.Context, bookingID string, routeID uint64) error {
	b, ok := f.bookings[bookingID]
	if !ok || b.Status != model.StatusConfirmed {
		return booking.ErrNotCancellable
	}
	b.Status = model.StatusCancelled
	b.SeatNumber = 0 // seat released from the unique key
	f.routes[routeID].AvailableSeats++
	return nil
}

func (f *fakeLedger) GetDetailByIDForUser(ctx context.Context, bookingID string, userID uint64) (*repository.BookingDetail, error) {
	b, err := f.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	return &repository.BookingDetail{
		ID:          b.ID,
		UserID:      b.UserID,
		UserEmail:   f.emails[b.UserID],
		RouteID:     b.RouteID,
		BookingTime: b.BookingTime,
		SeatNumber:  b.SeatNumber,
		Status:      b.Status,
	}, nil
}

func (f *fakeLedger) ListByUser(_ context.Context, userID uint64) ([]repository.BookingDetail, error) {
	out := []repository.BookingDetail{}
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		out = append(out, repository.BookingDetail{
			ID:         b.ID,
			UserID:     b.UserID,
			RouteID:    b.RouteID,
			SeatNumber: b.SeatNumber,
			Status:     b.Status,
		})
	}
	return out, nil
}

func newBookingTestHandler(ledger *fakeLedger) *BookingHandler {
	return NewBookingHandler(booking.NewAllocator(ledger, ledger), ledger)
}

func bookRequest(t *testing.T, h *BookingHandler, userID uint64, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/book/", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	if err := h.BookSeat(c); err != nil {
		t.Fatalf("BookSeat: %v", err)
	}
	return rec
}

func TestBookSeatCreatesBooking(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addRoute(3, 10)
	ledger.emails[7] = "alice@example.com"
	h := newBookingTestHandler(ledger)

	rec := bookRequest(t, h, 7, `{"route_id": 3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var got repository.BookingDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SeatNumber != 1 || got.Status != model.StatusConfirmed || got.UserID != 7 {
		t.Fatalf("unexpected booking: %+v", got)
	}
	if ledger.routes[3].AvailableSeats != 9 {
		t.Fatalf("available_seats = %d, want 9", ledger.routes[3].AvailableSeats)
	}
}

func TestBookSeatRouteMissing(t *testing.T) {
	h := newBookingTestHandler(newFakeLedger())

	rec := bookRequest(t, h, 7, `{"route_id": 42}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBookSeatRouteFull(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addRoute(3, 1)
	h := newBookingTestHandler(ledger)

	if rec := bookRequest(t, h, 7, `{"route_id": 3}`); rec.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d", rec.Code)
	}
	rec := bookRequest(t, h, 8, `{"route_id": 3}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBookSeatRequiresRouteID(t *testing.T) {
	h := newBookingTestHandler(newFakeLedger())

	rec := bookRequest(t, h, 7, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// The seat-taken backstop cannot fire under the route lock, so the
// handler reports it as an internal fault with a generic body rather
// than a client-addressable conflict.
func TestBookSeatBackstopConflictIsServerError(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addRoute(3, 10)
	ledger.appendErr = booking.ErrSeatTaken
	h := newBookingTestHandler(ledger)

	rec := bookRequest(t, h, 7, `{"route_id": 3}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "seat") {
		t.Fatalf("body leaks seat detail: %q", rec.Body.String())
	}
}

func TestGetBookingHidesForeignBookings(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addRoute(3, 5)
	h := newBookingTestHandler(ledger)

	rec := bookRequest(t, h, 7, `{"route_id": 3}`)
	var created repository.BookingDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec2 := httptest.NewRecorder()
	c := e.NewContext(req, rec2)
	c.SetPath("/bookings/:id/")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	c.Set("user_id", uint64(99)) // different user

	if err := h.GetBooking(c); err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if rec2.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec2.Code)
	}
}

func TestCancelBookingReleasesSeat(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addRoute(3, 5)
	h := newBookingTestHandler(ledger)

	rec := bookRequest(t, h, 7, `{"route_id": 3}`)
	var created repository.BookingDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cancel := func(userID uint64) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/bookings/:id/")
		c.SetParamNames("id")
		c.SetParamValues(created.ID)
		c.Set("user_id", userID)
		if err := h.CancelBooking(c); err != nil {
			t.Fatalf("CancelBooking: %v", err)
		}
		return rec
	}

	if rec := cancel(7); rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ledger.routes[3].AvailableSeats != 5 {
		t.Fatalf("available_seats = %d, want 5 after cancel", ledger.routes[3].AvailableSeats)
	}
	// Second cancel conflicts.
	if rec := cancel(7); rec.Code != http.StatusConflict {
		t.Fatalf("double cancel status = %d, want 409", rec.Code)
	}

	// The freed seat books again even though the cancelled row remains.
	rec = bookRequest(t, h, 8, `{"route_id": 3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("rebook status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var rebooked repository.BookingDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &rebooked); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rebooked.SeatNumber != created.SeatNumber {
		t.Fatalf("rebooked seat = %d, want %d", rebooked.SeatNumber, created.SeatNumber)
	}
}

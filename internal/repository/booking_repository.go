package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/railway-reservation/internal/booking"
    "github.com/iliyamo/railway-reservation/internal/model"
)

// BookingDetail is the API representation of a booking.  It joins the
// owning user's email and the route's train and station names, the
// shape clients of the original API depend on.
type BookingDetail struct {
    ID              string    `json:"booking_id"`
    UserID          uint64    `json:"user"`
    UserEmail       string    `json:"user_email"`
    RouteID         uint64    `json:"route"`
    TrainName       string    `json:"train_name"`
    SourceName      string    `json:"source_name"`
    DestinationName string    `json:"destination_name"`
    BookingTime     time.Time `json:"booking_time"`
    SeatNumber      uint32    `json:"seat_number"`
    Status          string    `json:"status"`
}

// BookingRepo manages persistence for bookings.  It implements
// booking.Ledger for the seat allocator and additionally serves the
// read side: ownership-scoped lookups and per-user listings.
//
// The two ledger mutations (AppendConfirmed, CancelConfirmed) pair a
// bookings write with the routes.available_seats counter update in a
// single transaction so the pair can never be observed half-applied.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// ConfirmedSeatNumbers returns the seat numbers occupied by CONFIRMED
// bookings on the route.
func (r *BookingRepo) ConfirmedSeatNumbers(ctx context.Context, routeID uint64) (map[uint32]struct{}, error) {
    const q = `SELECT seat_number FROM bookings WHERE route_id = ? AND status = 'CONFIRMED'`
    rows, err := r.db.QueryContext(ctx, q, routeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    seats := make(map[uint32]struct{})
    for rows.Next() {
        var n uint32
        if err := rows.Scan(&n); err != nil {
            return nil, err
        }
        seats[n] = struct{}{}
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return seats, nil
}

// AppendConfirmed inserts a CONFIRMED booking and decrements the
// route's available_seats inside one transaction.  The unique key on
// (route_id, seat_number) is the integrity backstop: a violation is
// surfaced as booking.ErrSeatTaken.  A decrement that would take the
// counter below zero aborts the transaction with ErrLedgerDrift.
func (r *BookingRepo) AppendConfirmed(ctx context.Context, b *model.Booking) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const ins = `INSERT INTO bookings (booking_id, user_id, route_id, booking_time, seat_number, status)
                 VALUES (?, ?, ?, ?, ?, ?)`
    if _, err := tx.ExecContext(ctx, ins,
        b.ID, b.UserID, b.RouteID, b.BookingTime.UTC(), b.SeatNumber, b.Status); err != nil {
        if isDuplicateKey(err) {
            return booking.ErrSeatTaken
        }
        return err
    }

    const dec = `UPDATE routes SET available_seats = available_seats - 1
                 WHERE id = ? AND available_seats > 0`
    res, err := tx.ExecContext(ctx, dec, b.RouteID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Counter was already zero while a seat was still free.
        return booking.ErrLedgerDrift
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByIDForUser returns the flat booking row only when it belongs to
// the given user.  Absent bookings and bookings owned by other users
// both map to booking.ErrBookingNotFound.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID string, userID uint64) (*model.Booking, error) {
    // Cancelled rows carry a NULL seat_number (the seat was released);
    // read those back as 0.
    const q = `SELECT booking_id, user_id, route_id, booking_time, COALESCE(seat_number, 0), status
               FROM bookings WHERE booking_id = ? AND user_id = ?`
    var b model.Booking
    err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
        &b.ID, &b.UserID, &b.RouteID, &b.BookingTime, &b.SeatNumber, &b.Status)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrBookingNotFound
        }
        return nil, err
    }
    return &b, nil
}

// CancelConfirmed flips a CONFIRMED booking to CANCELLED and returns
// its seat to the route, inside one transaction.  The seat_number is
// NULLed out so the cancelled row leaves the (route_id, seat_number)
// unique key; a later booking may then reuse the freed number without
// colliding with the historical row.  The status guard in the UPDATE
// makes the operation idempotent-safe: a booking that is no longer
// CONFIRMED affects zero rows and the counter is left untouched.
func (r *BookingRepo) CancelConfirmed(ctx context.Context, bookingID string, routeID uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const upd = `UPDATE bookings SET status = 'CANCELLED', seat_number = NULL
                 WHERE booking_id = ? AND status = 'CONFIRMED'`
    res, err := tx.ExecContext(ctx, upd, bookingID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return booking.ErrNotCancellable
    }

    const inc = `UPDATE routes SET available_seats = available_seats + 1 WHERE id = ?`
    if _, err := tx.ExecContext(ctx, inc, routeID); err != nil {
        return err
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

const bookingDetailQuery = `SELECT b.booking_id, b.user_id, u.email, b.route_id,
                                   t.name, src.name, dst.name,
                                   b.booking_time, COALESCE(b.seat_number, 0), b.status
                            FROM bookings b
                            JOIN users u ON u.id = b.user_id
                            JOIN routes r ON r.id = b.route_id
                            JOIN trains t ON t.id = r.train_id
                            JOIN stations src ON src.id = r.source_id
                            JOIN stations dst ON dst.id = r.destination_id`

// GetDetailByIDForUser returns the joined booking representation for
// a single booking owned by the user.  Ownership is enforced in the
// query; a booking owned by someone else is indistinguishable from a
// missing one.
func (r *BookingRepo) GetDetailByIDForUser(ctx context.Context, bookingID string, userID uint64) (*BookingDetail, error) {
    q := bookingDetailQuery + ` WHERE b.booking_id = ? AND b.user_id = ?`
    var d BookingDetail
    err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
        &d.ID, &d.UserID, &d.UserEmail, &d.RouteID,
        &d.TrainName, &d.SourceName, &d.DestinationName,
        &d.BookingTime, &d.SeatNumber, &d.Status,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrBookingNotFound
        }
        return nil, err
    }
    return &d, nil
}

// ListByUser returns all bookings for the user, newest first.  When
// no bookings exist it returns an empty slice and nil error.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    q := bookingDetailQuery + ` WHERE b.user_id = ? ORDER BY b.booking_time DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]BookingDetail, 0)
    for rows.Next() {
        var d BookingDetail
        if err := rows.Scan(
            &d.ID, &d.UserID, &d.UserEmail, &d.RouteID,
            &d.TrainName, &d.SourceName, &d.DestinationName,
            &d.BookingTime, &d.SeatNumber, &d.Status,
        ); err != nil {
            return nil, err
        }
        result = append(result, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

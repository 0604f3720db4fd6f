package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/railway-reservation/internal/booking"
    "github.com/iliyamo/railway-reservation/internal/model"
)

// ErrRouteExists indicates that a route with the same train, source,
// destination and departure time is already scheduled.
var ErrRouteExists = errors.New("route already exists")

// ErrRouteNotFound indicates that a route was not located in the DB.
var ErrRouteNotFound = errors.New("route not found")

// ErrUnknownReference indicates that the route references a train or
// station that does not exist.
var ErrUnknownReference = errors.New("referenced train or station does not exist")

// RouteDetail is the API representation of a route.  It extends the
// flat route row with the train and station names so that clients can
// render search results without extra lookups.
type RouteDetail struct {
    ID              uint64    `json:"id"`
    TrainID         uint64    `json:"train"`
    TrainNumber     string    `json:"train_number"`
    TrainName       string    `json:"train_name"`
    SourceID        uint64    `json:"source"`
    SourceName      string    `json:"source_name"`
    DestinationID   uint64    `json:"destination"`
    DestinationName string    `json:"destination_name"`
    DepartureTime   time.Time `json:"departure_time"`
    ArrivalTime     time.Time `json:"arrival_time"`
    AvailableSeats  uint32    `json:"available_seats"`
}

// RouteRepo manages persistence for routes.  It also implements
// booking.ScheduleStore so the seat allocator can read routes through
// the same repository.
type RouteRepo struct {
    db *sql.DB
}

// NewRouteRepo constructs a RouteRepo with the given DB handle.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// Create validates the schedule invariants and inserts a new route.
// AvailableSeats must already be set to the train's total seats by
// the caller (the admin handler copies it from the train record).
// The (train, source, destination, departure_time) tuple is unique.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
    if err := rt.Validate(); err != nil {
        return err
    }
    const q = `INSERT INTO routes (train_id, source_id, destination_id, departure_time, arrival_time, available_seats)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        rt.TrainID, rt.SourceID, rt.DestinationID,
        rt.DepartureTime.UTC(), rt.ArrivalTime.UTC(), rt.AvailableSeats)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrRouteExists
        }
        if isForeignKeyViolation(err) {
            return ErrUnknownReference
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rt.ID = uint64(id)
    return nil
}

const routeDetailColumns = `r.id, r.train_id, t.train_number, t.name,
                            r.source_id, src.name, r.destination_id, dst.name,
                            r.departure_time, r.arrival_time, r.available_seats`

const routeDetailJoins = `FROM routes r
                          JOIN trains t ON t.id = r.train_id
                          JOIN stations src ON src.id = r.source_id
                          JOIN stations dst ON dst.id = r.destination_id`

func scanRouteDetail(rows *sql.Rows) (RouteDetail, error) {
    var d RouteDetail
    err := rows.Scan(
        &d.ID, &d.TrainID, &d.TrainNumber, &d.TrainName,
        &d.SourceID, &d.SourceName, &d.DestinationID, &d.DestinationName,
        &d.DepartureTime, &d.ArrivalTime, &d.AvailableSeats,
    )
    return d, err
}

// ListAll returns every route with joined train and station names,
// ordered by id.
func (r *RouteRepo) ListAll(ctx context.Context) ([]RouteDetail, error) {
    q := `SELECT ` + routeDetailColumns + ` ` + routeDetailJoins + ` ORDER BY r.id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]RouteDetail, 0)
    for rows.Next() {
        d, err := scanRouteDetail(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// FindAvailable returns routes between the two stations that still
// have free seats.  Availability reads are not locked; a seat shown
// here may be taken by the time the client books.
func (r *RouteRepo) FindAvailable(ctx context.Context, sourceID, destinationID uint64) ([]RouteDetail, error) {
    q := `SELECT ` + routeDetailColumns + ` ` + routeDetailJoins + `
          WHERE r.source_id = ? AND r.destination_id = ? AND r.available_seats > 0
          ORDER BY r.departure_time ASC`
    rows, err := r.db.QueryContext(ctx, q, sourceID, destinationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]RouteDetail, 0)
    for rows.Next() {
        d, err := scanRouteDetail(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// RouteForBooking implements booking.ScheduleStore.  It loads the
// route row together with its train's total seat capacity.  Absent
// routes are reported with the allocator's sentinel so the core does
// not depend on this package.
func (r *RouteRepo) RouteForBooking(ctx context.Context, routeID uint64) (*model.Route, uint32, error) {
    const q = `SELECT r.id, r.train_id, r.source_id, r.destination_id,
                      r.departure_time, r.arrival_time, r.available_seats, t.total_seats
               FROM routes r
               JOIN trains t ON t.id = r.train_id
               WHERE r.id = ?`
    var rt model.Route
    var totalSeats uint32
    err := r.db.QueryRowContext(ctx, q, routeID).Scan(
        &rt.ID, &rt.TrainID, &rt.SourceID, &rt.DestinationID,
        &rt.DepartureTime, &rt.ArrivalTime, &rt.AvailableSeats, &totalSeats,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, 0, booking.ErrRouteNotFound
        }
        return nil, 0, err
    }
    return &rt, totalSeats, nil
}

package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/railway-reservation/internal/model"
)

// ErrStationExists indicates a station with the same name or code is
// already registered.
var ErrStationExists = errors.New("station already exists")

// ErrStationNotFound indicates that a station was not located in the DB.
var ErrStationNotFound = errors.New("station not found")

// StationRepo manages persistence for stations.  Stations are
// reference data: they are created by admins and never updated.
type StationRepo struct {
    db *sql.DB
}

// NewStationRepo constructs a StationRepo with the given DB handle.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

// Create inserts a new station and assigns the generated ID back to
// the struct.  Both name and code carry unique indexes; a violation
// of either is reported as ErrStationExists.
func (r *StationRepo) Create(ctx context.Context, s *model.Station) error {
    const q = `INSERT INTO stations (name, code, city) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, s.Name, s.Code, s.City)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrStationExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// GetByID retrieves a station by its ID.  It returns
// ErrStationNotFound when no matching row exists.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (*model.Station, error) {
    const q = `SELECT id, name, code, city FROM stations WHERE id = ?`
    var s model.Station
    err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Code, &s.City)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrStationNotFound
        }
        return nil, err
    }
    return &s, nil
}

// ListAll returns every station ordered by id.  When no stations
// exist it returns an empty slice and nil error.
func (r *StationRepo) ListAll(ctx context.Context) ([]model.Station, error) {
    const q = `SELECT id, name, code, city FROM stations ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Station, 0)
    for rows.Next() {
        var s model.Station
        if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.City); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

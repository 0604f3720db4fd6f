package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/railway-reservation/internal/model"
)

// ErrTrainExists indicates a train with the same train number is
// already registered.
var ErrTrainExists = errors.New("train already exists")

// ErrTrainNotFound indicates that a train was not located in the DB.
var ErrTrainNotFound = errors.New("train not found")

// TrainRepo manages persistence for trains.
type TrainRepo struct {
    db *sql.DB
}

// NewTrainRepo constructs a TrainRepo with the given DB handle.
func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

// Create inserts a new train and assigns the generated ID back to the
// struct.  The train number is unique; violations are reported as
// ErrTrainExists.  Callers validate TotalSeats > 0 before calling.
func (r *TrainRepo) Create(ctx context.Context, t *model.Train) error {
    const q = `INSERT INTO trains (name, train_number, total_seats) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, t.Name, t.TrainNumber, t.TotalSeats)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrTrainExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// GetByID retrieves a train by its ID.  It returns ErrTrainNotFound
// when no matching row exists.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (*model.Train, error) {
    const q = `SELECT id, name, train_number, total_seats FROM trains WHERE id = ?`
    var t model.Train
    err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.TrainNumber, &t.TotalSeats)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTrainNotFound
        }
        return nil, err
    }
    return &t, nil
}

// ListAll returns every train ordered by id.
func (r *TrainRepo) ListAll(ctx context.Context) ([]model.Train, error) {
    const q = `SELECT id, name, train_number, total_seats FROM trains ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Train, 0)
    for rows.Next() {
        var t model.Train
        if err := rows.Scan(&t.ID, &t.Name, &t.TrainNumber, &t.TotalSeats); err != nil {
            return nil, err
        }
        result = append(result, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

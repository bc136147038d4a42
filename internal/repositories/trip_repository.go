package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, route_id, departure_date, departure_time, arrival_time,
		capacity, available_seats, is_sub_trip,
		COALESCE(parent_trip_id, 0), COALESCE(segment_origin, ''), COALESCE(segment_destination, '')`

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	var parentID int64
	err := row.Scan(
		&t.ID,
		&t.RouteID,
		&t.DepartureDate,
		&t.DepartureTime,
		&t.ArrivalTime,
		&t.Capacity,
		&t.AvailableSeats,
		&t.IsSubTrip,
		&parentID,
		&t.SegmentOrigin,
		&t.SegmentDestination,
	)
	if err != nil {
		return t, err
	}
	if parentID > 0 {
		t.ParentTripID = &parentID
	}
	return t, nil
}

// CreateTripTx inserts one trip row inside the caller's transaction. Main and
// sub-trips of a run are always published together, so this never opens its
// own transaction.
func (r TripRepository) CreateTripTx(ctx context.Context, tx *sql.Tx, t models.Trip) (int64, error) {
	var parent any
	if t.ParentTripID != nil {
		parent = *t.ParentTripID
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO trips
			(route_id, departure_date, departure_time, arrival_time,
			 capacity, available_seats, is_sub_trip, parent_trip_id,
			 segment_origin, segment_destination, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		t.RouteID,
		t.DepartureDate,
		t.DepartureTime,
		t.ArrivalTime,
		t.Capacity,
		t.AvailableSeats,
		t.IsSubTrip,
		parent,
		nullIfEmpty(t.SegmentOrigin),
		nullIfEmpty(t.SegmentDestination),
	)
	if err != nil {
		if intdb.IsDuplicateEntry(err) {
			return 0, domain.ConflictError{Resource: "trip", Msg: "segment sudah dipublikasikan untuk trip ini", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetTrip fetches one trip record for display (no lock).
func (r TripRepository) GetTrip(id int64) (models.Trip, error) {
	if id <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "trip_id", Msg: "id tidak valid"}
	}
	db := r.db()
	if db == nil {
		return models.Trip{}, domain.InternalError{Msg: "db tidak tersedia"}
	}
	t, err := scanTrip(db.QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id = ? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return t, err
	}
	return t, nil
}

// GetTripTx reads one trip inside the transaction without locking it. The
// propagator uses this to find the run's main trip before taking the
// hierarchy locks in id order; seat counts are re-read under the lock.
func (r TripRepository) GetTripTx(ctx context.Context, tx *sql.Tx, id int64) (models.Trip, error) {
	t, err := scanTrip(tx.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = ? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return t, err
	}
	return t, nil
}

// GetHierarchy is the non-locking read of a physical run, for display paths.
func (r TripRepository) GetHierarchy(mainID int64) (models.TripHierarchy, error) {
	var h models.TripHierarchy
	db := r.db()
	if db == nil {
		return h, domain.InternalError{Msg: "db tidak tersedia"}
	}

	rows, err := db.Query(`
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = ? OR parent_trip_id = ?
		ORDER BY id ASC
	`, mainID, mainID)
	if err != nil {
		return h, err
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return h, err
		}
		if t.ID == mainID {
			h.Main = t
			found = true
			continue
		}
		h.SubTrips = append(h.SubTrips, t)
	}
	if err := rows.Err(); err != nil {
		return h, err
	}
	if !found {
		return h, domain.NotFoundError{Resource: "trip"}
	}
	return h, nil
}

// GetHierarchyForUpdate locks the whole physical run: the main trip and every
// sub-trip under it, in ascending id order so concurrent bookings on
// overlapping segments acquire row locks in the same sequence.
func (r TripRepository) GetHierarchyForUpdate(ctx context.Context, tx *sql.Tx, mainID int64) (models.TripHierarchy, error) {
	var h models.TripHierarchy

	rows, err := tx.QueryContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = ? OR parent_trip_id = ?
		ORDER BY id ASC
		FOR UPDATE
	`, mainID, mainID)
	if err != nil {
		return h, err
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return h, err
		}
		if t.ID == mainID {
			h.Main = t
			found = true
			continue
		}
		h.SubTrips = append(h.SubTrips, t)
	}
	if err := rows.Err(); err != nil {
		return h, err
	}
	if !found {
		return h, domain.NotFoundError{Resource: "trip"}
	}
	return h, nil
}

// ApplyDeltaTx adjusts available_seats on one locked row. The condition
// re-checks the floor under the lock; zero rows affected means the debit
// would oversell.
func (r TripRepository) ApplyDeltaTx(ctx context.Context, tx *sql.Tx, tripID int64, delta int) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE trips
		SET available_seats = available_seats + ?
		WHERE id = ? AND available_seats + ? >= 0
	`, delta, tripID, delta)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TripFilter narrows ListTrips. Zero values mean "no filter".
type TripFilter struct {
	RouteID  int64
	Date     string
	MinSeats int
}

// ListTrips returns trips (main and sub) matching the filter, oldest first.
// Read path only: results reflect the store at read time.
func (r TripRepository) ListTrips(f TripFilter) ([]models.Trip, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db tidak tersedia"}
	}

	where := []string{"1=1"}
	args := []any{}
	if f.RouteID > 0 {
		where = append(where, "route_id = ?")
		args = append(args, f.RouteID)
	}
	if strings.TrimSpace(f.Date) != "" {
		where = append(where, "departure_date = ?")
		args = append(args, strings.TrimSpace(f.Date))
	}
	if f.MinSeats > 0 {
		where = append(where, "available_seats >= ?")
		args = append(args, f.MinSeats)
	}

	rows, err := db.Query(`
		SELECT `+tripColumns+`
		FROM trips
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY departure_date ASC, id ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

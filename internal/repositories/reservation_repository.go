package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

type ReservationRepository struct {
	DB *sql.DB
}

func (r ReservationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CreateTx inserts the reservation plus its passengers in input order inside
// the caller's transaction (the same one that debits the seat pool).
func (r ReservationRepository) CreateTx(ctx context.Context, tx *sql.Tx, res models.Reservation) (int64, error) {
	ins, err := tx.ExecContext(ctx, `
		INSERT INTO reservations (trip_id, total_amount, status, created_at)
		VALUES (?, ?, ?, NOW())
	`, res.TripID, res.TotalAmount, res.Status)
	if err != nil {
		return 0, err
	}
	id, _ := ins.LastInsertId()

	for i, p := range res.Passengers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reservation_passengers (reservation_id, position, name, phone)
			VALUES (?, ?, ?, ?)
		`, id, i, strings.TrimSpace(p.Name), strings.TrimSpace(p.Phone)); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// GetByID returns the reservation with passengers in stored order.
func (r ReservationRepository) GetByID(id int64) (models.Reservation, error) {
	var res models.Reservation
	if id <= 0 {
		return res, domain.ValidationError{Field: "reservation_id", Msg: "id tidak valid"}
	}
	db := r.db()
	if db == nil {
		return res, domain.InternalError{Msg: "db tidak tersedia"}
	}

	err := db.QueryRow(`
		SELECT id, trip_id, total_amount, status
		FROM reservations
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&res.ID, &res.TripID, &res.TotalAmount, &res.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, domain.NotFoundError{Resource: "reservation", Err: err}
		}
		return res, err
	}

	rows, err := db.Query(`
		SELECT name, phone
		FROM reservation_passengers
		WHERE reservation_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return res, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.Name, &p.Phone); err != nil {
			return res, err
		}
		res.Passengers = append(res.Passengers, p)
	}
	return res, rows.Err()
}

// GetForUpdate locks the reservation row. Cancel and transfer read the status
// under this lock so a double cancel cannot release seats twice.
func (r ReservationRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (models.Reservation, error) {
	var res models.Reservation
	err := tx.QueryRowContext(ctx, `
		SELECT id, trip_id, total_amount, status
		FROM reservations
		WHERE id = ?
		FOR UPDATE
	`, id).Scan(&res.ID, &res.TripID, &res.TotalAmount, &res.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, domain.NotFoundError{Resource: "reservation", Err: err}
		}
		return res, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT name, phone
		FROM reservation_passengers
		WHERE reservation_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return res, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.Name, &p.Phone); err != nil {
			return res, err
		}
		res.Passengers = append(res.Passengers, p)
	}
	return res, rows.Err()
}

// UpdateStatusTx flips the reservation status inside the transaction.
func (r ReservationRepository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE reservations SET status = ? WHERE id = ?
	`, status, id)
	return err
}

package services

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// ReservationService wraps the propagator for the booking flows: create,
// cancel, transfer. Every flow runs its seat deltas and its reservation
// writes in one transaction so a failure spends nothing.
type ReservationService struct {
	ReservationRepo repositories.ReservationRepository
	Inventory       InventoryService
	DB              *sql.DB
	RequestID       string
}

func (s ReservationService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ReservationService) reservations() repositories.ReservationRepository {
	if s.ReservationRepo.DB != nil {
		return s.ReservationRepo
	}
	return repositories.ReservationRepository{DB: s.db()}
}

func (s ReservationService) inventory() InventoryService {
	inv := s.Inventory
	if inv.DB == nil {
		inv.DB = s.db()
	}
	if inv.RequestID == "" {
		inv.RequestID = s.RequestID
	}
	return inv
}

// CreateReservation books len(passengers) seats on the trip and stores the
// reservation. Debit and insert commit together.
func (s ReservationService) CreateReservation(ctx context.Context, tripID int64, passengers []models.Passenger, totalAmount int64) (models.Reservation, error) {
	var out models.Reservation

	if tripID <= 0 {
		return out, domain.ValidationError{Field: "trip_id", Msg: "id tidak valid"}
	}
	clean := make([]models.Passenger, 0, len(passengers))
	for _, p := range passengers {
		name := utils.NormalizeSpace(p.Name)
		if name == "" {
			return out, domain.ValidationError{Field: "passengers", Msg: "nama penumpang wajib diisi"}
		}
		clean = append(clean, models.Passenger{Name: name, Phone: utils.TrimOrEmpty(p.Phone)})
	}
	if len(clean) == 0 {
		return out, domain.ValidationError{Field: "passengers", Msg: "minimal satu penumpang"}
	}
	if totalAmount < 0 {
		return out, domain.ValidationError{Field: "total_amount", Msg: "tidak boleh negatif"}
	}

	inv := s.inventory()
	err := inv.RunTx(ctx, func(tx *sql.Tx) error {
		if err := inv.ApplySeatDeltaTx(ctx, tx, tripID, -len(clean)); err != nil {
			return err
		}
		res := models.Reservation{
			TripID:      tripID,
			TotalAmount: totalAmount,
			Status:      models.ReservationConfirmed,
			Passengers:  clean,
		}
		id, err := s.reservations().CreateTx(ctx, tx, res)
		if err != nil {
			return err
		}
		res.ID = id
		out = res
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	utils.LogEvent(s.RequestID, "reservation", "create",
		fmt.Sprintf("reservation_id=%d trip_id=%d seats=%d", out.ID, tripID, len(clean)))
	return out, nil
}

// CancelReservation releases the reservation's seats back to every affected
// trip. refund only changes the stored status; payment bookkeeping lives
// elsewhere. Canceling twice is a conflict, otherwise the second call would
// release seats that were never consumed.
func (s ReservationService) CancelReservation(ctx context.Context, reservationID int64, refund bool) (models.Reservation, error) {
	var out models.Reservation

	if reservationID <= 0 {
		return out, domain.ValidationError{Field: "reservation_id", Msg: "id tidak valid"}
	}

	status := models.ReservationCanceled
	if refund {
		status = models.ReservationCanceledAndRefund
	}

	inv := s.inventory()
	err := inv.RunTx(ctx, func(tx *sql.Tx) error {
		res, err := s.reservations().GetForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if res.Status != models.ReservationConfirmed {
			return domain.ConflictError{Resource: "reservation", Msg: "sudah dibatalkan"}
		}
		if err := inv.ApplySeatDeltaTx(ctx, tx, res.TripID, res.SeatCount()); err != nil {
			return err
		}
		if err := s.reservations().UpdateStatusTx(ctx, tx, res.ID, status); err != nil {
			return err
		}
		res.Status = status
		out = res
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	utils.LogEvent(s.RequestID, "reservation", "cancel",
		fmt.Sprintf("reservation_id=%d trip_id=%d seats=%d refund=%v", out.ID, out.TripID, out.SeatCount(), refund))
	return out, nil
}

// TransferReservation moves the riders to another trip in one transaction:
// release on the source run, debit on the target run, cancel the old
// reservation and create the new one. A target without capacity rolls
// everything back, so the release is never spent on a failed transfer.
func (s ReservationService) TransferReservation(ctx context.Context, reservationID, targetTripID int64) (models.Reservation, error) {
	var out models.Reservation

	if reservationID <= 0 {
		return out, domain.ValidationError{Field: "reservation_id", Msg: "id tidak valid"}
	}
	if targetTripID <= 0 {
		return out, domain.ValidationError{Field: "trip_id", Msg: "id tidak valid"}
	}

	inv := s.inventory()
	err := inv.RunTx(ctx, func(tx *sql.Tx) error {
		res, err := s.reservations().GetForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if res.Status != models.ReservationConfirmed {
			return domain.ConflictError{Resource: "reservation", Msg: "sudah dibatalkan"}
		}
		if res.TripID == targetTripID {
			return domain.ValidationError{Field: "trip_id", Msg: "trip tujuan sama dengan trip asal"}
		}

		if err := inv.ApplySeatDeltaTx(ctx, tx, res.TripID, res.SeatCount()); err != nil {
			return err
		}
		if err := inv.ApplySeatDeltaTx(ctx, tx, targetTripID, -res.SeatCount()); err != nil {
			return err
		}
		if err := s.reservations().UpdateStatusTx(ctx, tx, res.ID, models.ReservationCanceled); err != nil {
			return err
		}

		moved := models.Reservation{
			TripID:      targetTripID,
			TotalAmount: res.TotalAmount,
			Status:      models.ReservationConfirmed,
			Passengers:  res.Passengers,
		}
		id, err := s.reservations().CreateTx(ctx, tx, moved)
		if err != nil {
			return err
		}
		moved.ID = id
		out = moved
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	utils.LogEvent(s.RequestID, "reservation", "transfer",
		fmt.Sprintf("reservation_id=%d new_id=%d target_trip=%d", reservationID, out.ID, targetTripID))
	return out, nil
}

// GetReservation is the read path for detail views.
func (s ReservationService) GetReservation(reservationID int64) (models.Reservation, error) {
	res, err := s.reservations().GetByID(reservationID)
	if err != nil {
		return models.Reservation{}, err
	}
	// Keep JSON stable for reservations created before passenger rows existed.
	if res.Passengers == nil {
		res.Passengers = []models.Passenger{}
	}
	return res, nil
}

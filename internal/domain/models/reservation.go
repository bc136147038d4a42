package models

// Reservation statuses. A reservation never migrates between trips; transfer
// creates a new reservation and cancels the old one.
const (
	ReservationConfirmed         = "confirmed"
	ReservationCanceled          = "canceled"
	ReservationCanceledAndRefund = "canceledAndRefund"
)

// Passenger carries per-seat rider info. Position preserves input order.
type Passenger struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Reservation owns a fixed seat count equal to its passenger count at
// creation time.
type Reservation struct {
	ID          int64       `json:"id"`
	TripID      int64       `json:"trip_id"`
	TotalAmount int64       `json:"total_amount"`
	Status      string      `json:"status"`
	Passengers  []Passenger `json:"passengers"`
}

// SeatCount is the capacity the reservation consumes on every affected trip.
func (r Reservation) SeatCount() int {
	return len(r.Passengers)
}

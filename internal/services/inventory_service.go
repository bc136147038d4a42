package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/segments"
	"backend/internal/utils"
)

// InventoryService keeps available_seats consistent across a main trip and
// its sub-trips. It is the only writer of that column.
type InventoryService struct {
	TripRepo  repositories.TripRepository
	RouteRepo repositories.RouteRepository
	DB        *sql.DB
	RequestID string
}

// Bounded retry for transactions that lose a row race (MySQL deadlock or lock
// wait timeout). Re-runs get fresh reads.
const maxInventoryAttempts = 3

func (s InventoryService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s InventoryService) trips() repositories.TripRepository {
	if s.TripRepo.DB != nil {
		return s.TripRepo
	}
	return repositories.TripRepository{DB: s.db()}
}

func (s InventoryService) routes() repositories.RouteRepository {
	if s.RouteRepo.DB != nil {
		return s.RouteRepo
	}
	return repositories.RouteRepository{DB: s.db()}
}

// RunTx executes fn in a transaction with the bounded contention retry. The
// reservation flows compose seat deltas with their own inserts/updates through
// this so a timed-out or failed request applies all of its deltas or none.
func (s InventoryService) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxInventoryAttempts; attempt++ {
		err := intdb.WithTx(ctx, s.db(), fn)
		if err == nil {
			return nil
		}
		if !intdb.IsLockContention(err) {
			return err
		}
		lastErr = err
		utils.LogEvent(s.RequestID, "inventory", "retry", fmt.Sprintf("attempt=%d lock contention", attempt))
	}
	return domain.ConcurrentModificationError{Err: lastErr}
}

// ApplySeatDelta adjusts available_seats on the full affected set of one
// booked trip: negative delta books seats, positive releases them. Standalone
// entry point; the reservation flows use ApplySeatDeltaTx inside their own
// transaction instead.
func (s InventoryService) ApplySeatDelta(ctx context.Context, bookedTripID int64, delta int) error {
	return s.RunTx(ctx, func(tx *sql.Tx) error {
		return s.ApplySeatDeltaTx(ctx, tx, bookedTripID, delta)
	})
}

// ApplySeatDeltaTx runs the three propagation steps inside the caller's
// transaction: resolve the affected set, validate debits, apply the delta to
// every member. Rows are locked via one hierarchy query in ascending id order
// so concurrent bookings on overlapping segments serialize without
// lock-ordering deadlocks.
func (s InventoryService) ApplySeatDeltaTx(ctx context.Context, tx *sql.Tx, bookedTripID int64, delta int) error {
	if bookedTripID <= 0 {
		return domain.ValidationError{Field: "trip_id", Msg: "id tidak valid"}
	}
	if delta == 0 {
		return nil
	}

	booked, err := s.trips().GetTripTx(ctx, tx, bookedTripID)
	if err != nil {
		return err
	}

	mainID := booked.ID
	if booked.IsSubTrip {
		if booked.ParentTripID == nil {
			return domain.InternalError{Msg: fmt.Sprintf("sub-trip %d tanpa parent", booked.ID)}
		}
		mainID = *booked.ParentTripID
	}

	hier, err := s.trips().GetHierarchyForUpdate(ctx, tx, mainID)
	if err != nil {
		return err
	}

	route, err := s.routes().GetRoute(hier.Main.RouteID)
	if err != nil {
		return err
	}

	affected, err := affectedTrips(route, hier, bookedTripID)
	if err != nil {
		return err
	}

	// Validate before touching any row: a debit must fit on every member of
	// the shared pool or the whole operation is rejected.
	if delta < 0 {
		for _, t := range affected {
			if t.AvailableSeats+delta < 0 {
				return domain.InsufficientCapacityError{
					TripID:    t.ID,
					Requested: -delta,
					Available: t.AvailableSeats,
				}
			}
		}
	}

	for _, t := range affected {
		ok, err := s.trips().ApplyDeltaTx(ctx, tx, t.ID, delta)
		if err != nil {
			return err
		}
		if !ok {
			// The conditional update refused under the lock; roll the
			// transaction back rather than leave the pool half-updated.
			return domain.InsufficientCapacityError{
				TripID:    t.ID,
				Requested: -delta,
				Available: t.AvailableSeats,
			}
		}
	}

	utils.LogEvent(s.RequestID, "inventory", "apply_delta",
		fmt.Sprintf("trip_id=%d delta=%d affected=%d", bookedTripID, delta, len(affected)))
	return nil
}

// affectedTrips resolves the exact set of records sharing the seats being
// consumed or released. Booking the main trip touches every sub-trip (the
// whole length is booked); booking a sub-trip touches the main trip and each
// sibling whose segment physically overlaps. Returned in ascending id order.
func affectedTrips(route models.Route, hier models.TripHierarchy, bookedTripID int64) ([]models.Trip, error) {
	if hier.Main.ID == bookedTripID {
		out := hier.All()
		sortTripsByID(out)
		return out, nil
	}

	var booked *models.Trip
	for i := range hier.SubTrips {
		if hier.SubTrips[i].ID == bookedTripID {
			booked = &hier.SubTrips[i]
			break
		}
	}
	if booked == nil {
		return nil, domain.NotFoundError{Resource: "trip"}
	}

	bookedSeg := booked.Segment(route)
	out := []models.Trip{hier.Main, *booked}
	for _, sib := range hier.SubTrips {
		if sib.ID == booked.ID {
			continue
		}
		overlap, err := segments.Overlaps(route, bookedSeg, sib.Segment(route))
		if err != nil {
			return nil, err
		}
		if overlap {
			out = append(out, sib)
		}
	}
	sortTripsByID(out)
	return out, nil
}

func sortTripsByID(trips []models.Trip) {
	sort.Slice(trips, func(i, j int) bool { return trips[i].ID < trips[j].ID })
}

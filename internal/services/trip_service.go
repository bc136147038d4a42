package services

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/segments"
	"backend/internal/utils"
)

// TripService publishes scheduled runs: one main trip plus the sub-trips the
// operator chose to sell, created together so the hierarchy is never partial.
type TripService struct {
	RouteRepo repositories.RouteRepository
	TripRepo  repositories.TripRepository
	Generator segments.Generator
	DB        *sql.DB
	RequestID string
}

func (s TripService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s TripService) routes() repositories.RouteRepository {
	if s.RouteRepo.DB != nil {
		return s.RouteRepo
	}
	return repositories.RouteRepository{DB: s.db()}
}

func (s TripService) trips() repositories.TripRepository {
	if s.TripRepo.DB != nil {
		return s.TripRepo
	}
	return repositories.TripRepository{DB: s.db()}
}

// PublishTripInput is the operator's publish request after handler binding.
type PublishTripInput struct {
	RouteID       int64
	DepartureDate string
	DepartureTime string
	ArrivalTime   string
	Capacity      int
	Segments      []models.Segment
}

// PublishTrip validates the schedule and the chosen segments against the
// route, then creates the main trip and its sub-trips in one transaction.
// Every record starts with available_seats = capacity: one shared physical
// pool, one counter per sellable segment.
func (s TripService) PublishTrip(ctx context.Context, in PublishTripInput) (models.TripHierarchy, error) {
	var out models.TripHierarchy

	route, err := s.routes().GetRoute(in.RouteID)
	if err != nil {
		return out, err
	}

	if _, err := utils.ParseDate(in.DepartureDate); err != nil {
		return out, domain.ValidationError{Field: "departure_date", Msg: "format tanggal tidak valid (YYYY-MM-DD)"}
	}
	depTime, err := utils.NormalizeTime(in.DepartureTime)
	if err != nil {
		return out, domain.ValidationError{Field: "departure_time", Msg: err.Error()}
	}
	arrTime := ""
	if utils.TrimOrEmpty(in.ArrivalTime) != "" {
		arrTime, err = utils.NormalizeTime(in.ArrivalTime)
		if err != nil {
			return out, domain.ValidationError{Field: "arrival_time", Msg: err.Error()}
		}
	}
	if in.Capacity <= 0 {
		return out, domain.ValidationError{Field: "capacity", Msg: "harus lebih dari 0"}
	}

	fullRun := models.Segment{Origin: route.Origin, Destination: route.Destination}
	seen := map[models.Segment]bool{}
	for _, seg := range in.Segments {
		if seg == fullRun {
			return out, domain.ValidationError{Field: "segments", Msg: "segment rute penuh sudah dicakup main trip"}
		}
		if seen[seg] {
			return out, domain.ValidationError{Field: "segments", Msg: fmt.Sprintf("segment %s → %s duplikat", seg.Origin, seg.Destination)}
		}
		seen[seg] = true
		if !s.Generator.Contains(route, seg) {
			return out, domain.ValidationError{Field: "segments", Msg: fmt.Sprintf("segment %s → %s tidak tersedia untuk route ini", seg.Origin, seg.Destination)}
		}
	}

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		main := models.Trip{
			RouteID:        route.ID,
			DepartureDate:  utils.TrimOrEmpty(in.DepartureDate),
			DepartureTime:  depTime,
			ArrivalTime:    arrTime,
			Capacity:       in.Capacity,
			AvailableSeats: in.Capacity,
		}
		mainID, err := s.trips().CreateTripTx(ctx, tx, main)
		if err != nil {
			return err
		}
		main.ID = mainID
		out.Main = main

		for _, seg := range in.Segments {
			sub := models.Trip{
				RouteID:            route.ID,
				DepartureDate:      main.DepartureDate,
				DepartureTime:      depTime,
				ArrivalTime:        arrTime,
				Capacity:           in.Capacity,
				AvailableSeats:     in.Capacity,
				IsSubTrip:          true,
				ParentTripID:       &mainID,
				SegmentOrigin:      seg.Origin,
				SegmentDestination: seg.Destination,
			}
			subID, err := s.trips().CreateTripTx(ctx, tx, sub)
			if err != nil {
				return err
			}
			sub.ID = subID
			out.SubTrips = append(out.SubTrips, sub)
		}
		return nil
	})
	if err != nil {
		return models.TripHierarchy{}, err
	}

	utils.LogEvent(s.RequestID, "trip", "publish",
		fmt.Sprintf("main_id=%d route_id=%d sub_trips=%d", out.Main.ID, route.ID, len(out.SubTrips)))
	return out, nil
}

// GetTripDetail returns the requested trip, its route and the full hierarchy
// of the physical run it belongs to.
func (s TripService) GetTripDetail(tripID int64) (models.Trip, models.Route, models.TripHierarchy, error) {
	trip, err := s.trips().GetTrip(tripID)
	if err != nil {
		return models.Trip{}, models.Route{}, models.TripHierarchy{}, err
	}

	mainID := trip.ID
	if trip.IsSubTrip && trip.ParentTripID != nil {
		mainID = *trip.ParentTripID
	}
	hier, err := s.trips().GetHierarchy(mainID)
	if err != nil {
		return models.Trip{}, models.Route{}, models.TripHierarchy{}, err
	}

	route, err := s.routes().GetRoute(trip.RouteID)
	if err != nil {
		return models.Trip{}, models.Route{}, models.TripHierarchy{}, err
	}
	return trip, route, hier, nil
}

// ListTrips is the plain admin listing, no search semantics.
func (s TripService) ListTrips(f repositories.TripFilter) ([]models.Trip, error) {
	return s.trips().ListTrips(f)
}

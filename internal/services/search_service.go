package services

import (
	"database/sql"

	intconfig "backend/internal/config"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// SearchService is the booking UI's read path: filter trips and sub-trips by
// endpoint names, date and seat count. No consistency guarantee beyond the
// store at read time; the write path owns correctness.
type SearchService struct {
	TripRepo  repositories.TripRepository
	RouteRepo repositories.RouteRepository
	DB        *sql.DB
}

func (s SearchService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s SearchService) trips() repositories.TripRepository {
	if s.TripRepo.DB != nil {
		return s.TripRepo
	}
	return repositories.TripRepository{DB: s.db()}
}

func (s SearchService) routes() repositories.RouteRepository {
	if s.RouteRepo.DB != nil {
		return s.RouteRepo
	}
	return repositories.RouteRepository{DB: s.db()}
}

// SearchQuery: empty strings / zero seats mean "not filtered".
type SearchQuery struct {
	Origin      string
	Destination string
	Date        string
	Seats       int
}

// SearchTrips matches origin/destination as case-insensitive substrings. With
// both endpoints given, sub-trips whose segment matches both are preferred;
// whole-route main-trip matches are only the fallback. With one endpoint,
// sub-trips are included opportunistically next to route matches. Trips with
// fewer available seats than requested are never returned.
func (s SearchService) SearchTrips(q SearchQuery) ([]models.TripWithRoute, error) {
	q.Origin = utils.TrimOrEmpty(q.Origin)
	q.Destination = utils.TrimOrEmpty(q.Destination)

	trips, err := s.trips().ListTrips(repositories.TripFilter{
		Date:     q.Date,
		MinSeats: q.Seats,
	})
	if err != nil {
		return nil, err
	}

	routeCache := map[int64]models.Route{}
	routeOf := func(id int64) (models.Route, error) {
		if r, ok := routeCache[id]; ok {
			return r, nil
		}
		r, err := s.routes().GetRoute(id)
		if err != nil {
			return r, err
		}
		routeCache[id] = r
		return r, nil
	}

	segmentMatches := make([]models.TripWithRoute, 0)
	routeMatches := make([]models.TripWithRoute, 0)

	for _, t := range trips {
		route, err := routeOf(t.RouteID)
		if err != nil {
			return nil, err
		}

		switch {
		case q.Origin != "" && q.Destination != "":
			if t.IsSubTrip {
				if utils.ContainsFold(t.SegmentOrigin, q.Origin) && utils.ContainsFold(t.SegmentDestination, q.Destination) {
					segmentMatches = append(segmentMatches, models.TripWithRoute{Trip: t, Route: route})
				}
				continue
			}
			if routeMatchesWaypoint(route, q.Origin) && routeMatchesWaypoint(route, q.Destination) {
				routeMatches = append(routeMatches, models.TripWithRoute{Trip: t, Route: route})
			}
		case q.Origin != "" || q.Destination != "":
			term := q.Origin
			subEndpoint := func(t models.Trip) string { return t.SegmentOrigin }
			if term == "" {
				term = q.Destination
				subEndpoint = func(t models.Trip) string { return t.SegmentDestination }
			}
			if t.IsSubTrip {
				if utils.ContainsFold(subEndpoint(t), term) {
					segmentMatches = append(segmentMatches, models.TripWithRoute{Trip: t, Route: route})
				}
				continue
			}
			if routeMatchesWaypoint(route, term) {
				routeMatches = append(routeMatches, models.TripWithRoute{Trip: t, Route: route})
			}
		default:
			routeMatches = append(routeMatches, models.TripWithRoute{Trip: t, Route: route})
		}
	}

	if q.Origin != "" && q.Destination != "" {
		// Exact segment sales win over selling the whole run.
		if len(segmentMatches) > 0 {
			return segmentMatches, nil
		}
		return routeMatches, nil
	}
	return append(segmentMatches, routeMatches...), nil
}

func routeMatchesWaypoint(route models.Route, term string) bool {
	for _, w := range route.Waypoints() {
		if utils.ContainsFold(w, term) {
			return true
		}
	}
	return false
}

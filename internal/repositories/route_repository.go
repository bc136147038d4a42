package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

type RouteRepository struct {
	DB *sql.DB
}

func (r RouteRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CreateRoute stores the route row plus its ordered stops in one transaction.
func (r RouteRepository) CreateRoute(route models.Route) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db tidak tersedia"}
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO routes (origin, destination, created_at)
		VALUES (?, ?, NOW())
	`, strings.TrimSpace(route.Origin), strings.TrimSpace(route.Destination))
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()

	for i, stop := range route.Stops {
		if _, err := tx.Exec(`
			INSERT INTO route_stops (route_id, position, name)
			VALUES (?, ?, ?)
		`, id, i, strings.TrimSpace(stop)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetRoute returns the route with stops in canonical position order. The
// waypoint order must be exactly the one sub-trips were created against.
func (r RouteRepository) GetRoute(id int64) (models.Route, error) {
	var route models.Route
	if id <= 0 {
		return route, domain.ValidationError{Field: "route_id", Msg: "id tidak valid"}
	}
	db := r.db()
	if db == nil {
		return route, domain.InternalError{Msg: "db tidak tersedia"}
	}

	err := db.QueryRow(`
		SELECT id, origin, destination
		FROM routes
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&route.ID, &route.Origin, &route.Destination)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return route, domain.NotFoundError{Resource: "route", Err: err}
		}
		return route, err
	}

	stops, err := r.listStops(id)
	if err != nil {
		return route, err
	}
	route.Stops = stops
	return route, nil
}

// ListRoutes returns every route with stops, newest first.
func (r RouteRepository) ListRoutes() ([]models.Route, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db tidak tersedia"}
	}

	rows, err := db.Query(`
		SELECT id, origin, destination
		FROM routes
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Route, 0)
	for rows.Next() {
		var route models.Route
		if err := rows.Scan(&route.ID, &route.Origin, &route.Destination); err != nil {
			return out, err
		}
		out = append(out, route)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	for i := range out {
		stops, err := r.listStops(out[i].ID)
		if err != nil {
			return out, err
		}
		out[i].Stops = stops
	}
	return out, nil
}

func (r RouteRepository) listStops(routeID int64) ([]string, error) {
	rows, err := r.db().Query(`
		SELECT name
		FROM route_stops
		WHERE route_id = ?
		ORDER BY position ASC
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return stops, err
		}
		stops = append(stops, name)
	}
	return stops, rows.Err()
}

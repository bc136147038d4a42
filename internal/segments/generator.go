package segments

import (
	"strings"

	"backend/internal/domain/models"
)

// CityFunc maps a waypoint name to the city it belongs to. Pluggable so the
// string convention can later be replaced by a structured city/terminal field
// without touching the generation algorithm.
type CityFunc func(name string) string

const citySeparator = " - "

// CityOf is the default CityFunc: the substring before the first " - "
// separator, or the whole name when absent ("Acapulco - Centro" → "Acapulco").
func CityOf(name string) string {
	if i := strings.Index(name, citySeparator); i >= 0 {
		return name[:i]
	}
	return name
}

// Generator enumerates the sellable origin→destination pairs of a route.
type Generator struct {
	City CityFunc
}

func (g Generator) city() CityFunc {
	if g.City != nil {
		return g.City
	}
	return CityOf
}

// Generate emits Segment(W[i], W[j]) for every index pair i < j over the
// route's waypoint order, skipping pairs within one city (a rider would travel
// zero useful distance). A degenerate route where every pair is same-city
// falls back to the single direct origin→destination segment so at least one
// sellable segment always exists.
func (g Generator) Generate(route models.Route) []models.Segment {
	w := route.Waypoints()
	city := g.city()

	out := []models.Segment{}
	for i := 0; i < len(w); i++ {
		for j := i + 1; j < len(w); j++ {
			if city(w[i]) == city(w[j]) {
				continue
			}
			out = append(out, models.Segment{Origin: w[i], Destination: w[j]})
		}
	}

	if len(out) == 0 {
		out = append(out, models.Segment{Origin: route.Origin, Destination: route.Destination})
	}
	return out
}

// Contains reports whether seg is one of the segments Generate would emit for
// the route. Used when publishing sub-trips against operator-chosen segments.
func (g Generator) Contains(route models.Route, seg models.Segment) bool {
	for _, s := range g.Generate(route) {
		if s == seg {
			return true
		}
	}
	return false
}

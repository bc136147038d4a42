package models

// Segment is a sellable origin→destination pair drawn from a route's
// waypoints, origin always preceding destination in route order. Derived,
// never persisted on its own.
type Segment struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Trip is one scheduled run record. A main trip covers the whole route; a
// sub-trip pins a contiguous sub-range of the same run via SegmentOrigin /
// SegmentDestination and shares the main trip's seat pool.
type Trip struct {
	ID                 int64  `json:"id"`
	RouteID            int64  `json:"route_id"`
	DepartureDate      string `json:"departure_date"`
	DepartureTime      string `json:"departure_time"`
	ArrivalTime        string `json:"arrival_time"`
	Capacity           int    `json:"capacity"`
	AvailableSeats     int    `json:"available_seats"`
	IsSubTrip          bool   `json:"is_sub_trip"`
	ParentTripID       *int64 `json:"parent_trip_id,omitempty"`
	SegmentOrigin      string `json:"segment_origin,omitempty"`
	SegmentDestination string `json:"segment_destination,omitempty"`
}

// Segment returns the trip's sold segment. Main trips implicitly cover the
// route's full extent.
func (t Trip) Segment(route Route) Segment {
	if t.IsSubTrip && t.SegmentOrigin != "" && t.SegmentDestination != "" {
		return Segment{Origin: t.SegmentOrigin, Destination: t.SegmentDestination}
	}
	return Segment{Origin: route.Origin, Destination: route.Destination}
}

// TripHierarchy is one physical vehicle run loaded as a unit: the main trip
// plus every sub-trip sharing its seat pool.
type TripHierarchy struct {
	Main     Trip   `json:"main"`
	SubTrips []Trip `json:"sub_trips"`
}

// All returns every trip record in the hierarchy, main first.
func (h TripHierarchy) All() []Trip {
	out := make([]Trip, 0, len(h.SubTrips)+1)
	out = append(out, h.Main)
	out = append(out, h.SubTrips...)
	return out
}

// TripWithRoute is the search result shape: a trip plus the route it runs on.
type TripWithRoute struct {
	Trip  Trip  `json:"trip"`
	Route Route `json:"route"`
}

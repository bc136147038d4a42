package models

// Route is an ordered sequence of waypoints a vehicle can traverse.
// Stops excludes the endpoints; Waypoints() is the canonical order used for
// every index computation.
type Route struct {
	ID          int64    `json:"id"`
	Origin      string   `json:"origin"`
	Stops       []string `json:"stops"`
	Destination string   `json:"destination"`
}

// Waypoints returns [origin, stops..., destination]. Position in this slice is
// the route's canonical index for a waypoint name.
func (r Route) Waypoints() []string {
	w := make([]string, 0, len(r.Stops)+2)
	w = append(w, r.Origin)
	w = append(w, r.Stops...)
	w = append(w, r.Destination)
	return w
}

// IndexOf resolves a waypoint name to its canonical position, -1 when absent.
func (r Route) IndexOf(name string) int {
	for i, w := range r.Waypoints() {
		if w == name {
			return i
		}
	}
	return -1
}

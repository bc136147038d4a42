package segments

import (
	"backend/internal/domain"
	"backend/internal/domain/models"
)

// span is a half-open waypoint-index interval [Start, End). Half-open because
// two segments that merely touch at a single waypoint share no travelled
// distance and must not count as overlapping.
type span struct {
	Start int
	End   int
}

// resolve maps a segment to its index interval on the route. A name missing
// from the route's waypoint order means the sub-trip no longer matches its
// route and is fatal for the operation.
func resolve(route models.Route, seg models.Segment) (span, error) {
	o := route.IndexOf(seg.Origin)
	if o < 0 {
		return span{}, domain.InvalidSegmentError{Route: route.ID, Waypoint: seg.Origin}
	}
	d := route.IndexOf(seg.Destination)
	if d < 0 {
		return span{}, domain.InvalidSegmentError{Route: route.ID, Waypoint: seg.Destination}
	}
	// Segments are created origin-first, but normalize anyway to guard
	// against malformed rows.
	if o > d {
		o, d = d, o
	}
	return span{Start: o, End: d}, nil
}

// Overlaps decides whether two segments of the same route share any physical
// distance. Standard half-open interval intersection: strict inequalities so
// touching endpoints do not overlap. Symmetric, and reflexive for any segment
// of nonzero length.
func Overlaps(route models.Route, a, b models.Segment) (bool, error) {
	sa, err := resolve(route, a)
	if err != nil {
		return false, err
	}
	sb, err := resolve(route, b)
	if err != nil {
		return false, err
	}
	return sa.Start < sb.End && sb.Start < sa.End, nil
}
